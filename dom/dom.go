// Package dom provides the minimal document tree the veneer VM renders into.
//
// It is not a browser DOM binding. It implements just enough of the node
// model (elements with namespaced attributes and properties, text, comments)
// for the VM's append-time and update-time operations, and for tests and the
// inspector to observe render output.
package dom

import (
	"fmt"
	"strings"
)

// Namespace URIs for foreign elements and namespaced attributes.
const (
	NamespaceHTML   = "http://www.w3.org/1999/xhtml"
	NamespaceSVG    = "http://www.w3.org/2000/svg"
	NamespaceMathML = "http://www.w3.org/1998/Math/MathML"
	NamespaceXLink  = "http://www.w3.org/1999/xlink"
	NamespaceXML    = "http://www.w3.org/XML/1998/namespace"
	NamespaceXMLNS  = "http://www.w3.org/2000/xmlns/"
)

// NodeType discriminates the concrete node kinds.
type NodeType uint8

const (
	ElementNode NodeType = 1
	TextNode    NodeType = 3
	CommentNode NodeType = 8
)

// Node is implemented by Element, Text, and Comment.
type Node interface {
	NodeType() NodeType
	ParentNode() *Element
	setParent(p *Element)
}

// ---------------------------------------------------------------------------
// Document
// ---------------------------------------------------------------------------

// Document is a node factory plus a body element to render into.
type Document struct {
	Body *Element
}

// NewDocument creates a document with an empty body.
func NewDocument() *Document {
	d := &Document{}
	d.Body = d.CreateElement("body")
	return d
}

// CreateElement creates a detached HTML-namespace element.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{Tag: strings.ToLower(tag), Namespace: NamespaceHTML}
}

// CreateElementNS creates a detached element in the given namespace.
// Foreign elements keep their tag case (SVG tags are case-sensitive).
func (d *Document) CreateElementNS(namespace, tag string) *Element {
	return &Element{Tag: tag, Namespace: namespace}
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(data string) *Text {
	return &Text{Data: data}
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(data string) *Comment {
	return &Comment{Data: data}
}

// ---------------------------------------------------------------------------
// Element
// ---------------------------------------------------------------------------

// Attribute is one namespaced attribute on an element. Attribute order is
// insertion order; setting an existing attribute updates it in place.
type Attribute struct {
	Name      string
	Namespace string // empty for ordinary attributes
	Value     string
}

// Element is an element node with attributes, properties, and children.
// Properties model the DOM's element-object fields (input.value and friends)
// that are distinct from serialized attributes.
type Element struct {
	Tag        string
	Namespace  string
	attributes []Attribute
	properties map[string]any
	children   []Node
	parent     *Element
}

func (e *Element) NodeType() NodeType   { return ElementNode }
func (e *Element) ParentNode() *Element { return e.parent }
func (e *Element) setParent(p *Element) { e.parent = p }

// ChildNodes returns the element's children in order.
func (e *Element) ChildNodes() []Node { return e.children }

// FirstChild returns the first child or nil.
func (e *Element) FirstChild() Node {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

// LastChild returns the last child or nil.
func (e *Element) LastChild() Node {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[len(e.children)-1]
}

// AppendChild detaches node from its current parent and appends it.
func (e *Element) AppendChild(node Node) {
	e.InsertBefore(node, nil)
}

// InsertBefore inserts node before reference, or appends when reference is
// nil. Inserting a node that is already in a tree detaches it first.
func (e *Element) InsertBefore(node Node, reference Node) {
	if p := node.ParentNode(); p != nil {
		p.RemoveChild(node)
	}
	if reference == nil {
		e.children = append(e.children, node)
		node.setParent(e)
		return
	}
	for i, c := range e.children {
		if c == reference {
			e.children = append(e.children[:i], append([]Node{node}, e.children[i:]...)...)
			node.setParent(e)
			return
		}
	}
	panic("Element.InsertBefore: reference node is not a child")
}

// RemoveChild detaches node from this element.
func (e *Element) RemoveChild(node Node) {
	for i, c := range e.children {
		if c == node {
			e.children = append(e.children[:i], e.children[i+1:]...)
			node.setParent(nil)
			return
		}
	}
	panic("Element.RemoveChild: node is not a child")
}

// SetAttribute sets an ordinary (non-namespaced) attribute.
func (e *Element) SetAttribute(name, value string) {
	e.SetAttributeNS("", name, value)
}

// SetAttributeNS sets a namespaced attribute, updating in place when the
// (namespace, name) pair already exists.
func (e *Element) SetAttributeNS(namespace, name, value string) {
	for i := range e.attributes {
		if e.attributes[i].Name == name && e.attributes[i].Namespace == namespace {
			e.attributes[i].Value = value
			return
		}
	}
	e.attributes = append(e.attributes, Attribute{Name: name, Namespace: namespace, Value: value})
}

// GetAttribute returns the value of an ordinary attribute, and whether it is set.
func (e *Element) GetAttribute(name string) (string, bool) {
	return e.GetAttributeNS("", name)
}

// GetAttributeNS returns the value of a namespaced attribute, and whether it is set.
func (e *Element) GetAttributeNS(namespace, name string) (string, bool) {
	for _, a := range e.attributes {
		if a.Name == name && a.Namespace == namespace {
			return a.Value, true
		}
	}
	return "", false
}

// RemoveAttribute removes an ordinary attribute if present.
func (e *Element) RemoveAttribute(name string) {
	e.RemoveAttributeNS("", name)
}

// RemoveAttributeNS removes a namespaced attribute if present.
func (e *Element) RemoveAttributeNS(namespace, name string) {
	for i, a := range e.attributes {
		if a.Name == name && a.Namespace == namespace {
			e.attributes = append(e.attributes[:i], e.attributes[i+1:]...)
			return
		}
	}
}

// Attributes returns the element's attributes in insertion order.
func (e *Element) Attributes() []Attribute { return e.attributes }

// SetProperty sets an element-object property.
func (e *Element) SetProperty(name string, value any) {
	if e.properties == nil {
		e.properties = make(map[string]any)
	}
	e.properties[name] = value
}

// GetProperty returns an element-object property, and whether it is set.
func (e *Element) GetProperty(name string) (any, bool) {
	v, ok := e.properties[name]
	return v, ok
}

// ---------------------------------------------------------------------------
// Text and Comment
// ---------------------------------------------------------------------------

// Text is a text node.
type Text struct {
	Data   string
	parent *Element
}

func (t *Text) NodeType() NodeType   { return TextNode }
func (t *Text) ParentNode() *Element { return t.parent }
func (t *Text) setParent(p *Element) { t.parent = p }

// Comment is a comment node.
type Comment struct {
	Data   string
	parent *Element
}

func (c *Comment) NodeType() NodeType   { return CommentNode }
func (c *Comment) ParentNode() *Element { return c.parent }
func (c *Comment) setParent(p *Element) { c.parent = p }

// ---------------------------------------------------------------------------
// Serialization (for tests and the inspector)
// ---------------------------------------------------------------------------

// OuterHTML serializes a node to markup. It is a debugging representation,
// not a spec-compliant HTML serializer: attribute values are quoted verbatim
// and void elements are not special-cased.
func OuterHTML(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Element:
		b.WriteByte('<')
		b.WriteString(v.Tag)
		for _, a := range v.attributes {
			b.WriteByte(' ')
			if a.Namespace != "" {
				b.WriteString(prefixFor(a.Namespace))
				b.WriteByte(':')
			}
			b.WriteString(a.Name)
			fmt.Fprintf(b, "=%q", a.Value)
		}
		b.WriteByte('>')
		for _, c := range v.children {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(v.Tag)
		b.WriteByte('>')
	case *Text:
		b.WriteString(v.Data)
	case *Comment:
		b.WriteString("<!--")
		b.WriteString(v.Data)
		b.WriteString("-->")
	}
}

func prefixFor(namespace string) string {
	switch namespace {
	case NamespaceXLink:
		return "xlink"
	case NamespaceXML:
		return "xml"
	case NamespaceXMLNS:
		return "xmlns"
	}
	return "ns"
}
