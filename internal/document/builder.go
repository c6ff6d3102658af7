package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// indentSpaces is the indentation per nesting level.
const indentSpaces = 2

var (
	// ErrNoOpenElement is returned when an operation needs an open element
	// and none is open.
	ErrNoOpenElement = errors.New("no open element")

	// ErrAttributeAfterContent is returned when an attribute is set on an
	// element that already has children.
	ErrAttributeAfterContent = errors.New("attribute after element content")

	// ErrSecondRoot is returned when a root element is started after the
	// first one was closed.
	ErrSecondRoot = errors.New("document already has a root element")

	// ErrUnclosedElement is returned when serializing a document whose
	// elements are still open.
	ErrUnclosedElement = errors.New("document has unclosed elements")
)

// Builder builds a tree-shaped document one element at a time.
//
// Calls mirror a streaming writer: start an element, set its attributes,
// write text children, end it. Attributes must be set before the first
// child of an element.
type Builder interface {
	// StartElement opens a child of the current element, or the root.
	StartElement(name string) error

	// WriteAttribute sets an attribute on the current element.
	WriteAttribute(name, value string) error

	// WriteElement adds a complete child element holding only text.
	WriteElement(name, text string) error

	// EndElement closes the current element.
	EndElement() error
}

// Document is an in-memory XML document implementing Builder, backed by an
// etree element tree.
//
// Document is serialized with WriteTo as UTF-8 with the standard prolog and
// two-space indentation. Elements without children or text are written in
// self-closing form; elements holding only text stay on one line. Characters
// outside the XML character range are replaced with U+FFFD.
//
// Example:
//
//	doc := NewDocument()
//	doc.StartElement("collection")
//	doc.WriteAttribute("root", "/music")
//	doc.StartElement("file")
//	doc.WriteAttribute("name", "/a.mp3")
//	doc.WriteElement("title", "X")
//	doc.EndElement()
//	doc.EndElement()
//	doc.WriteTo(os.Stdout)
//
//	// Result:
//	// <?xml version="1.0" encoding="UTF-8"?>
//	// <collection root="/music">
//	//   <file name="/a.mp3">
//	//     <title>X</title>
//	//   </file>
//	// </collection>
type Document struct {
	doc   *etree.Document
	root  *etree.Element
	stack []*etree.Element
}

// NewDocument creates an empty Document.
func NewDocument() *Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return &Document{doc: doc}
}

// StartElement opens a new element.
//
// The first element started becomes the root. Starting another element at
// the top level after the root was closed returns ErrSecondRoot.
func (d *Document) StartElement(name string) error {
	if name == "" {
		return fmt.Errorf("start element: empty name")
	}

	var el *etree.Element
	if parent := d.current(); parent != nil {
		el = parent.CreateElement(name)
	} else {
		if d.root != nil {
			return ErrSecondRoot
		}
		el = d.doc.CreateElement(name)
		d.root = el
	}

	d.stack = append(d.stack, el)
	return nil
}

// WriteAttribute sets an attribute on the open element.
//
// Setting the same attribute twice keeps the last value.
func (d *Document) WriteAttribute(name, value string) error {
	el := d.current()
	if el == nil {
		return ErrNoOpenElement
	}
	if len(el.Child) > 0 {
		return ErrAttributeAfterContent
	}

	el.CreateAttr(name, value)
	return nil
}

// WriteElement adds a text-only child to the open element.
func (d *Document) WriteElement(name, text string) error {
	parent := d.current()
	if parent == nil {
		return ErrNoOpenElement
	}
	if name == "" {
		return fmt.Errorf("write element: empty name")
	}

	parent.CreateElement(name).SetText(text)
	return nil
}

// EndElement closes the open element.
func (d *Document) EndElement() error {
	if len(d.stack) == 0 {
		return ErrNoOpenElement
	}
	d.stack = d.stack[:len(d.stack)-1]
	return nil
}

// WriteTo serializes the document to w.
//
// Returns ErrUnclosedElement if EndElement has not closed the root yet.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if len(d.stack) > 0 {
		return 0, ErrUnclosedElement
	}

	indent := etree.NewIndentSettings()
	indent.Spaces = indentSpaces
	indent.PreserveLeafWhitespace = true
	d.doc.IndentWithSettings(indent)

	var buf bytes.Buffer
	if _, err := d.doc.WriteTo(&buf); err != nil {
		return 0, fmt.Errorf("failed to serialize document: %w", err)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	return buf.WriteTo(w)
}

func (d *Document) current() *etree.Element {
	if len(d.stack) == 0 {
		return nil
	}
	return d.stack[len(d.stack)-1]
}
