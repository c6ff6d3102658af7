package model

import (
	"path/filepath"
	"strings"
)

// Collection is the catalog built from one scan.
//
// Collection carries the scan root exactly as the caller supplied it and
// one Entry per recognized media file, in the order the paths were sorted.
//
// Example:
//
//	c := &Collection{Root: "/music"}
//	c.Add("/music/a.mp3", TagRecord{Title: "X"}, false)
//	fmt.Println(c.Entries[0].Name) // "/a.mp3"
type Collection struct {
	// Root is the scan root as given on input, not canonicalized.
	Root string

	// Entries holds one entry per recognized file, in sorted path order.
	Entries []Entry
}

// Entry is one recognized media file inside a Collection.
type Entry struct {
	// Path is the full discovered path, including the scan root prefix.
	Path string

	// Name is the display name written to the catalog.
	Name string

	// Tags is the metadata read from the file.
	Tags TagRecord
}

// Add appends an entry for path, deriving its display name from c.Root.
//
// When relative is false the name is computed with RelativeName; otherwise
// SeparatorAlignedName is used.
func (c *Collection) Add(path string, tags TagRecord, relative bool) {
	name := RelativeName(c.Root, path)
	if relative {
		name = SeparatorAlignedName(c.Root, path)
	}
	c.Entries = append(c.Entries, Entry{Path: path, Name: name, Tags: tags})
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	return len(c.Entries)
}

// RelativeName strips exactly len(root) bytes from the front of path.
//
// The strip is not separator-aware: for root "/music" and path
// "/music/a.mp3" the name is "/a.mp3", but for root "/music/" the name is
// "a.mp3". Paths shorter than root are returned unchanged.
//
// Example:
//
//	RelativeName("/music", "/music/sub/b.flac") // Returns "/sub/b.flac"
func RelativeName(root, path string) string {
	if len(path) < len(root) {
		return path
	}
	return path[len(root):]
}

// SeparatorAlignedName returns path relative to root as a slash-separated
// name with exactly one leading slash.
//
// It falls back to RelativeName when the two paths cannot be related.
//
// Example:
//
//	SeparatorAlignedName("/music/", "/music/sub/b.flac") // Returns "/sub/b.flac"
func SeparatorAlignedName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return RelativeName(root, path)
	}
	return "/" + filepath.ToSlash(rel)
}
