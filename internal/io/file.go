package ioutils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gofrs/flock"
)

// StdoutName is the destination name that selects standard output.
const StdoutName = "-"

// ErrDestination is returned when the output destination cannot be opened
// for writing.
var ErrDestination = errors.New("cannot open destination")

// WriteDestination runs write against the destination named by dest.
//
// If dest is StdoutName the output goes to stdout. Any other value is a file
// path that is created or truncated. When dest is a regular file an advisory
// lock is taken on the file itself before it is truncated, so that two runs
// targeting the same catalog do not interleave. Locking is best effort and
// is skipped for devices and pipes such as /dev/null.
//
// The destination is flushed and closed on every path. Failures to open the
// file wrap ErrDestination; errors from write or from flushing are returned
// as they are.
//
// Example:
//
//	err := WriteDestination("catalog.xml", os.Stdout, func(w io.Writer) error {
//	    _, err := doc.WriteTo(w)
//	    return err
//	})
func WriteDestination(dest string, stdout io.Writer, write func(io.Writer) error) error {
	if dest == StdoutName {
		bw := bufio.NewWriter(stdout)
		if err := write(bw); err != nil {
			return err
		}
		return bw.Flush()
	}

	file, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDestination, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDestination, err)
	}

	if info.Mode().IsRegular() {
		lock := flock.New(dest)
		if err := lock.Lock(); err == nil {
			defer func() { _ = lock.Unlock() }()
		}
		if err := file.Truncate(0); err != nil {
			return fmt.Errorf("%w: %w", ErrDestination, err)
		}
	}

	bw := bufio.NewWriter(file)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return file.Close()
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
