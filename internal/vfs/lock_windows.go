//go:build windows

package vfs

import (
	"io"
	"os"
)

// fileLock holds an open storage file on Windows; no OS lock is taken.
type fileLock struct {
	f *os.File
}

// LockFile opens the named file, creating it if it does not exist. On
// Windows it takes no lock: the file is opened with the default shared
// access, so a second LockFile on the same file also succeeds.
func LockFile(name string) (io.Closer, error) {
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	return &fileLock{f: f}, nil
}

func (l *fileLock) Close() error {
	return l.f.Close()
}
