package fs

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
)

// ParseMode normalizes a permission given as a number or as an octal string
// ("755", "0755", "0o755") into an os.FileMode. Numeric values use Unix
// permission bits, so setuid, setgid and sticky bits are translated; an
// os.FileMode is returned as is.
func ParseMode(v any) (os.FileMode, error) {
	switch m := v.(type) {
	case os.FileMode:
		return m, nil
	case int:
		return unixMode(int64(m))
	case int32:
		return unixMode(int64(m))
	case int64:
		return unixMode(m)
	case uint:
		return unixMode(int64(m))
	case uint32:
		return unixMode(int64(m))
	case uint64:
		return unixMode(int64(m))
	case string:
		s := strings.TrimSpace(m)
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0o"), "0O")
		n, err := strconv.ParseUint(s, 8, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: mode %q is not an octal number", errors.ErrInvalidArgument, m)
		}
		return unixMode(int64(n))
	default:
		return 0, fmt.Errorf("%w: mode has unsupported type %T", errors.ErrInvalidArgument, v)
	}
}

func unixMode(n int64) (os.FileMode, error) {
	if n < 0 || n > 0o7777 {
		return 0, fmt.Errorf("%w: mode %#o out of range", errors.ErrInvalidArgument, n)
	}
	mode := os.FileMode(n & 0o777)
	if n&0o4000 != 0 {
		mode |= os.ModeSetuid
	}
	if n&0o2000 != 0 {
		mode |= os.ModeSetgid
	}
	if n&0o1000 != 0 {
		mode |= os.ModeSticky
	}
	return mode, nil
}
