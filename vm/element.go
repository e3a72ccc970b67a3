package vm

import (
	"github.com/chazu/veneer/dom"
)

// ---------------------------------------------------------------------------
// DOM operations collaborators
// ---------------------------------------------------------------------------

// TreeConstruction is the append-time DOM collaborator: the operations the
// VM needs while building new tree structure during initial render.
type TreeConstruction interface {
	CreateElement(tag string) *dom.Element
	CreateElementNS(namespace, tag string) *dom.Element
	CreateTextNode(data string) *dom.Text
	CreateComment(data string) *dom.Comment
	InsertBefore(parent *dom.Element, node dom.Node, reference dom.Node)
	SetAttribute(element *dom.Element, name, value, namespace string)
}

// DOMChanges is the update-time DOM collaborator: the mutations the VM needs
// while patching existing structure on re-render.
type DOMChanges interface {
	SetAttribute(element *dom.Element, name, value, namespace string)
	RemoveAttribute(element *dom.Element, name, namespace string)
	InsertNodeBefore(parent *dom.Element, node dom.Node, reference dom.Node)
	RemoveNode(node dom.Node)
	SetText(text *dom.Text, data string)
}

// NewTreeConstruction returns the default append-time collaborator over doc.
func NewTreeConstruction(doc *dom.Document) TreeConstruction {
	return &domTreeConstruction{doc: doc}
}

// NewDOMChanges returns the default update-time collaborator over doc.
func NewDOMChanges(doc *dom.Document) DOMChanges {
	return &domChanges{doc: doc}
}

type domTreeConstruction struct {
	doc *dom.Document
}

func (t *domTreeConstruction) CreateElement(tag string) *dom.Element {
	return t.doc.CreateElement(tag)
}

func (t *domTreeConstruction) CreateElementNS(namespace, tag string) *dom.Element {
	return t.doc.CreateElementNS(namespace, tag)
}

func (t *domTreeConstruction) CreateTextNode(data string) *dom.Text {
	return t.doc.CreateTextNode(data)
}

func (t *domTreeConstruction) CreateComment(data string) *dom.Comment {
	return t.doc.CreateComment(data)
}

func (t *domTreeConstruction) InsertBefore(parent *dom.Element, node dom.Node, reference dom.Node) {
	parent.InsertBefore(node, reference)
}

func (t *domTreeConstruction) SetAttribute(element *dom.Element, name, value, namespace string) {
	element.SetAttributeNS(namespace, name, value)
}

type domChanges struct {
	doc *dom.Document
}

func (c *domChanges) SetAttribute(element *dom.Element, name, value, namespace string) {
	element.SetAttributeNS(namespace, name, value)
}

func (c *domChanges) RemoveAttribute(element *dom.Element, name, namespace string) {
	element.RemoveAttributeNS(namespace, name)
}

func (c *domChanges) InsertNodeBefore(parent *dom.Element, node dom.Node, reference dom.Node) {
	parent.InsertBefore(node, reference)
}

func (c *domChanges) RemoveNode(node dom.Node) {
	if p := node.ParentNode(); p != nil {
		p.RemoveChild(node)
	}
}

func (c *domChanges) SetText(text *dom.Text, data string) {
	text.Data = data
}
