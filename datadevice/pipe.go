package datadevice

import (
	"os"

	"golang.org/x/sys/unix"
)

// pipe returns a read and write end with close-on-exec set, so child
// processes cannot leak transfer descriptors.
func pipe() (r, w *os.File, err error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return nil, nil, err
	}
	return os.NewFile(uintptr(fds[0]), "datadevice-read"),
		os.NewFile(uintptr(fds[1]), "datadevice-write"), nil
}
