// Package dist implements the wire encoding for the veneer inspector.
// Rendered trees and scope captures are serialized as canonical CBOR so a
// devtools frontend can diff successive snapshots byte-for-byte.
package dist

import (
	"fmt"
	"sort"

	"github.com/chazu/veneer/dom"
	"github.com/chazu/veneer/vm"
)

// NodeKind identifies the kind of rendered node in a snapshot.
type NodeKind uint8

const (
	NodeElement NodeKind = 1
	NodeText    NodeKind = 2
	NodeComment NodeKind = 3
)

// AttrSnapshot is one serialized attribute.
type AttrSnapshot struct {
	Name      string `cbor:"1,keyasint"`
	Namespace string `cbor:"2,keyasint,omitempty"`
	Value     string `cbor:"3,keyasint"`
}

// NodeSnapshot is one rendered node and its subtree.
type NodeSnapshot struct {
	Kind      NodeKind       `cbor:"1,keyasint"`
	Tag       string         `cbor:"2,keyasint,omitempty"`
	Namespace string         `cbor:"3,keyasint,omitempty"`
	Attrs     []AttrSnapshot `cbor:"4,keyasint,omitempty"`
	Text      string         `cbor:"5,keyasint,omitempty"`
	Children  []NodeSnapshot `cbor:"6,keyasint,omitempty"`
}

// SlotKind identifies what a captured scope slot held.
type SlotKind uint8

const (
	SlotUnbound   SlotKind = 0
	SlotReference SlotKind = 1
	SlotBlock     SlotKind = 2
)

// SlotCapture is one scope slot at capture time. Reference values are
// rendered to text; the inspector shows state, it does not rehydrate it.
type SlotCapture struct {
	Kind  SlotKind `cbor:"1,keyasint"`
	Value string   `cbor:"2,keyasint,omitempty"`
}

// ScopeCapture is a scope's observable state at a point in time.
type ScopeCapture struct {
	Slots        []SlotCapture `cbor:"1,keyasint"`
	HasCaller    bool          `cbor:"2,keyasint,omitempty"`
	EvalNames    []string      `cbor:"3,keyasint,omitempty"`
	PartialNames []string      `cbor:"4,keyasint,omitempty"`
}

// CaptureTree snapshots a rendered node and its subtree.
func CaptureTree(n dom.Node) NodeSnapshot {
	switch v := n.(type) {
	case *dom.Element:
		snap := NodeSnapshot{Kind: NodeElement, Tag: v.Tag}
		if v.Namespace != dom.NamespaceHTML {
			snap.Namespace = v.Namespace
		}
		for _, a := range v.Attributes() {
			snap.Attrs = append(snap.Attrs, AttrSnapshot{Name: a.Name, Namespace: a.Namespace, Value: a.Value})
		}
		for _, c := range v.ChildNodes() {
			snap.Children = append(snap.Children, CaptureTree(c))
		}
		return snap
	case *dom.Text:
		return NodeSnapshot{Kind: NodeText, Text: v.Data}
	case *dom.Comment:
		return NodeSnapshot{Kind: NodeComment, Text: v.Data}
	}
	panic(fmt.Sprintf("dist.CaptureTree: unknown node type %T", n))
}

// CaptureScope snapshots a scope's slots and auxiliary state. Slot 0 is the
// self slot; unbound slots capture as SlotUnbound.
func CaptureScope(s *vm.Scope) ScopeCapture {
	capture := ScopeCapture{
		Slots:     make([]SlotCapture, s.Len()),
		HasCaller: s.GetCallerScope() != nil,
	}
	for i := 0; i < s.Len(); i++ {
		if b := s.GetBlock(i); b != nil {
			params := 0
			if b.Table != nil {
				params = len(b.Table.Parameters)
			}
			capture.Slots[i] = SlotCapture{Kind: SlotBlock, Value: fmt.Sprintf("block/%d params", params)}
			continue
		}
		ref := s.GetSymbol(i)
		if ref == vm.UndefinedReference {
			capture.Slots[i] = SlotCapture{Kind: SlotUnbound}
			continue
		}
		capture.Slots[i] = SlotCapture{Kind: SlotReference, Value: fmt.Sprintf("%v", ref.Value())}
	}
	for name := range s.GetEvalScope() {
		capture.EvalNames = append(capture.EvalNames, name)
	}
	for name := range s.GetPartialMap() {
		capture.PartialNames = append(capture.PartialNames, name)
	}
	sort.Strings(capture.EvalNames)
	sort.Strings(capture.PartialNames)
	return capture
}
