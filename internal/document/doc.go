// Package document builds and serializes the XML catalog.
//
// # Builder
//
// Builder is the narrow capability the exporter drives: open an element,
// set attributes, add text children, close it. Document is the in-memory
// implementation:
//
//	doc := document.NewDocument()
//	doc.StartElement("collection")
//	doc.WriteAttribute("root", "/music")
//	doc.EndElement()
//	doc.WriteTo(os.Stdout)
//
// # Output Format
//
// Documents are written as UTF-8 with an XML prolog and two-space
// indentation. Empty elements self-close (<file name="/b.flac"/>) and
// text-only elements stay on one line (<title>X</title>). Text and
// attribute values are escaped by github.com/beevik/etree, which also
// replaces characters outside the XML character range with U+FFFD.
package document
