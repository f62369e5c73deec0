package fsutil

import (
	"os"
	"syscall"
)

// StatTimestampMs returns max(mtime, ctime) for path, in milliseconds,
// matching the Shallow Scanner's code_timestamp/binary_timestamp
// definition. Returns 0 if the file cannot be stat'd.
func StatTimestampMs(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}

	mtimeMs := info.ModTime().UnixMilli()

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return mtimeMs
	}
	ctimeMs := stat.Ctim.Sec*1000 + stat.Ctim.Nsec/1_000_000

	if ctimeMs > mtimeMs {
		return ctimeMs
	}
	return mtimeMs
}
