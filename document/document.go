// Package document reads specification documents into attributed element trees.
package document

import (
	"encoding/xml"
	"errors"
	"io"
	"iter"
	"strings"
)

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a document.
type Node struct {
	Tag      string  // Element name.
	Attrs    []Attr  // Attributes, in document order.
	Text     string  // Character data directly inside the element.
	Children []*Node // Child elements, in document order.
	Line     int     // Line of the element's start tag.
}

// Attr returns the value of an attribute.
func (node *Node) Attr(name string) (value string, ok bool) {
	for _, attr := range node.Attrs {
		if attr.Name == name {
			value = attr.Value
			ok = true
			return
		}
	}
	return
}

// HasAttr reports whether an attribute is present.
func (node *Node) HasAttr(name string) (ok bool) {
	_, ok = node.Attr(name)
	return
}

// Elements iterates over the direct children with the given tag.
func (node *Node) Elements(tag string) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, child := range node.Children {
			if child.Tag != tag {
				continue
			}
			if !yield(child) {
				return
			}
		}
	}
}

// FindAll returns the direct children with the given tag.
func (node *Node) FindAll(tag string) (nodes []*Node) {
	for child := range node.Elements(tag) {
		nodes = append(nodes, child)
	}
	return
}

// Find returns the first direct child with the given tag, or nil.
func (node *Node) Find(tag string) *Node {
	for child := range node.Elements(tag) {
		return child
	}
	return nil
}

// TrimmedText returns the element's character data without surrounding whitespace.
func (node *Node) TrimmedText() string {
	return strings.TrimSpace(node.Text)
}

// Parse reads a whole document and returns its root element.
func Parse(input io.Reader) (root *Node, err error) {
	dec := xml.NewDecoder(input)

	var stack []*Node
	line := 1

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: line, Err: err}
		}
	}()

	for {
		line, _ = dec.InputPos()

		var token xml.Token
		token, err = dec.Token()
		if errors.Is(err, io.EOF) {
			err = nil
			break
		}
		if err != nil {
			return
		}

		switch tok := token.(type) {
		case xml.StartElement:
			node := &Node{Tag: tok.Name.Local, Line: line}
			for _, attr := range tok.Attr {
				node.Attrs = append(node.Attrs, Attr{Name: attr.Name.Local, Value: attr.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					err = ErrMultipleRoots
					return
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.Text += string(tok)
			}
		}
	}

	if root == nil {
		err = ErrEmpty
		return
	}

	return
}
