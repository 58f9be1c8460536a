package fs

import (
	"syscall"
	"time"
)

func fillSys(s *Stats, sys any) {
	st, ok := sys.(*syscall.Stat_t)
	if !ok {
		return
	}
	s.Dev = uint64(st.Dev) //nolint:unconvert // width differs per arch
	s.Ino = st.Ino
	s.Nlink = uint64(st.Nlink) //nolint:unconvert // width differs per arch
	s.Uid = st.Uid
	s.Gid = st.Gid
	s.Atime = timePtr(time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))) //nolint:unconvert
	s.Ctime = timePtr(time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))) //nolint:unconvert
}
