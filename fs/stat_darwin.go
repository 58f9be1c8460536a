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
	s.Dev = uint64(st.Dev)
	s.Ino = st.Ino
	s.Nlink = uint64(st.Nlink)
	s.Uid = st.Uid
	s.Gid = st.Gid
	s.Atime = timePtr(time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec))
	s.Ctime = timePtr(time.Unix(st.Ctimespec.Sec, st.Ctimespec.Nsec))
	s.Birthtime = timePtr(time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec))
}
