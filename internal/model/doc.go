// Package model defines the core data structures used throughout cmcol.
//
// # TagRecord
//
// TagRecord is the normalized metadata of one media file. Fields returns
// the present fields in catalog order (title, artist, album, year, track,
// genre), leaving out empty text and zero numbers:
//
//	rec := model.TagRecord{Title: "X", Year: 2000}
//	rec.Fields() // [{title X} {year 2000}]
//
// # Collection
//
// Collection represents the catalog of a scan root:
//
//	c := &model.Collection{Root: "/music"}
//	c.Add("/music/a.mp3", rec, false)
//	fmt.Println(c.Entries[0].Name) // "/a.mp3"
//
// # Display names
//
// RelativeName strips the byte length of the scan root from each path.
// SeparatorAlignedName is the path-aware alternative used when relative
// names are requested.
package model
