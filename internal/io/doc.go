// Package ioutils provides the file system side of a catalog run.
//
// This package contains functions for:
//   - Collecting every regular file below a scan root
//   - Ordering the collected paths deterministically
//   - Resolving and validating the scan root
//   - Writing the finished catalog to standard output or a file
//
// # Collecting Files
//
//	paths, err := ioutils.CollectFiles("/music", ioutils.WalkOptions{})
//	if errors.Is(err, ioutils.ErrScanRoot) {
//	    // root missing or unreadable
//	}
//	ioutils.SortPaths(paths)
//
// CollectFiles follows symbolic links, skips special files and unreadable
// entries, and can prune paths with gitignore-style patterns:
//
//	opts := ioutils.WalkOptions{Exclude: []string{"*.txt", "Podcasts/"}}
//
// # Writing Output
//
// WriteDestination treats "-" as standard output and any other name as a
// file to (over)write:
//
//	err := ioutils.WriteDestination("-", os.Stdout, func(w io.Writer) error {
//	    _, err := doc.WriteTo(w)
//	    return err
//	})
package ioutils
