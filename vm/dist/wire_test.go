package dist

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/chazu/veneer/dom"
	"github.com/chazu/veneer/vm"
)

// ---------------------------------------------------------------------------
// Tree Snapshot Tests
// ---------------------------------------------------------------------------

func renderedTree() *dom.Element {
	doc := dom.NewDocument()
	el := doc.CreateElement("article")
	el.SetAttribute("class", "post")
	h := doc.CreateElement("h1")
	h.AppendChild(doc.CreateTextNode("Title"))
	el.AppendChild(h)
	el.AppendChild(doc.CreateComment("cursor"))
	svg := doc.CreateElementNS(dom.NamespaceSVG, "svg")
	svg.SetAttributeNS(dom.NamespaceXLink, "href", "#icon")
	el.AppendChild(svg)
	return el
}

func TestCaptureTree(t *testing.T) {
	snap := CaptureTree(renderedTree())

	if snap.Kind != NodeElement || snap.Tag != "article" {
		t.Error("root should capture as an article element")
	}
	if len(snap.Attrs) != 1 || snap.Attrs[0].Name != "class" || snap.Attrs[0].Value != "post" {
		t.Errorf("attrs = %v", snap.Attrs)
	}
	if len(snap.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(snap.Children))
	}
	if snap.Children[0].Children[0].Text != "Title" {
		t.Error("text content should be captured")
	}
	if snap.Children[1].Kind != NodeComment {
		t.Error("comments should be captured")
	}
	if snap.Children[2].Namespace != dom.NamespaceSVG {
		t.Error("foreign namespaces should be captured")
	}
	if snap.Children[2].Attrs[0].Namespace != dom.NamespaceXLink {
		t.Error("attribute namespaces should be captured")
	}
}

func TestTreeRoundTrip(t *testing.T) {
	snap := CaptureTree(renderedTree())

	data, err := MarshalTree(&snap)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalTree(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(*back, snap) {
		t.Error("tree snapshot should round-trip through CBOR")
	}
}

func TestTreeEncodingIsDeterministic(t *testing.T) {
	snap := CaptureTree(renderedTree())
	a, err := MarshalTree(&snap)
	if err != nil {
		t.Fatal(err)
	}
	b, err := MarshalTree(&snap)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("canonical encoding should be byte-stable")
	}
}

func TestUnmarshalTreeRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalTree([]byte{0xff, 0x00}); err == nil {
		t.Error("garbage input should fail to decode")
	}
}

// ---------------------------------------------------------------------------
// Scope Capture Tests
// ---------------------------------------------------------------------------

func TestCaptureScope(t *testing.T) {
	s := vm.RootScope(vm.NewConstReference("self"), 3)
	s.BindSymbol(1, vm.NewConstReference(42))
	s.BindBlock(2, &vm.Block{Table: &vm.BlockSymbolTable{Parameters: []int{1}}})
	s.BindCallerScope(vm.RootScope(vm.UndefinedReference, 0))
	s.BindEvalScope(map[string]any{"b": nil, "a": nil})

	c := CaptureScope(s)
	if len(c.Slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(c.Slots))
	}
	if c.Slots[0].Kind != SlotReference || c.Slots[0].Value != "self" {
		t.Errorf("self slot = %+v", c.Slots[0])
	}
	if c.Slots[1].Kind != SlotReference || c.Slots[1].Value != "42" {
		t.Errorf("symbol slot = %+v", c.Slots[1])
	}
	if c.Slots[2].Kind != SlotBlock {
		t.Errorf("block slot = %+v", c.Slots[2])
	}
	if c.Slots[3].Kind != SlotUnbound {
		t.Errorf("unbound slot = %+v", c.Slots[3])
	}
	if !c.HasCaller {
		t.Error("caller scope should be captured")
	}
	if !reflect.DeepEqual(c.EvalNames, []string{"a", "b"}) {
		t.Errorf("eval names should be sorted, got %v", c.EvalNames)
	}
}

func TestScopeRoundTrip(t *testing.T) {
	s := vm.RootScope(vm.NewConstReference("x"), 1)
	c := CaptureScope(s)

	data, err := MarshalScope(&c)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalScope(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(*back, c) {
		t.Error("scope capture should round-trip through CBOR")
	}
}
