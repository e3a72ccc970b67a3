package vm

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Scope Construction Tests
// ---------------------------------------------------------------------------

func TestRootScopeBindsSelf(t *testing.T) {
	self := NewConstReference("the-self")
	for _, size := range []int{0, 1, 5} {
		s := RootScope(self, size)
		if s.GetSelf() != self {
			t.Errorf("size %d: GetSelf should return the bound self reference", size)
		}
		for i := 1; i <= size; i++ {
			if s.GetSymbol(i) != UndefinedReference {
				t.Errorf("size %d: symbol %d should be the unbound sentinel", size, i)
			}
		}
	}
}

func TestSizedScopeLeavesSelfUnbound(t *testing.T) {
	s := SizedScope(3)
	if s.GetSelf() != UndefinedReference {
		t.Error("SizedScope should leave slot 0 as the unbound sentinel")
	}

	self := NewConstReference(42)
	if s.Init(self) != s {
		t.Error("Init should return the receiver for chaining")
	}
	if s.GetSelf() != self {
		t.Error("Init should bind self")
	}
}

func TestScopeLen(t *testing.T) {
	if got := SizedScope(4).Len(); got != 5 {
		t.Errorf("a size-4 scope has 5 slots including self, got %d", got)
	}
}

// ---------------------------------------------------------------------------
// Slot Binding Tests
// ---------------------------------------------------------------------------

func TestBindSymbolThenGet(t *testing.T) {
	s := RootScope(NewConstReference(nil), 3)
	refs := []Reference{
		NewConstReference("a"),
		NewConstReference("b"),
		NewConstReference("c"),
	}
	for i, ref := range refs {
		s.BindSymbol(i+1, ref)
	}
	for i, ref := range refs {
		if s.GetSymbol(i+1) != ref {
			t.Errorf("symbol %d: bound reference should read back identically", i+1)
		}
	}
}

func TestBindAndGetBlock(t *testing.T) {
	s := RootScope(NewConstReference(nil), 2)
	block := &Block{
		Compiled: "block-0",
		Scope:    s,
		Table:    &BlockSymbolTable{Parameters: []int{1, 2}},
	}
	s.BindBlock(1, block)

	if s.GetBlock(1) != block {
		t.Error("bound block should read back identically")
	}
	if s.GetBlock(2) != nil {
		t.Error("unbound slot should read as no block")
	}
}

func TestGetBlockOnReferenceSlot(t *testing.T) {
	s := RootScope(NewConstReference(nil), 1)
	s.BindSymbol(1, NewConstReference("not a block"))
	if s.GetBlock(1) != nil {
		t.Error("a reference slot should read as no block")
	}
}

func TestGetSymbolOnBlockSlotPanics(t *testing.T) {
	s := RootScope(NewConstReference(nil), 1)
	s.BindBlock(1, &Block{})
	expectPanic(t, "holds a block", func() {
		s.GetSymbol(1)
	})
}

// ---------------------------------------------------------------------------
// Index Range Tests
// ---------------------------------------------------------------------------

func TestOutOfRangeAccessPanics(t *testing.T) {
	s := RootScope(NewConstReference(nil), 2)

	expectPanic(t, "out of range", func() { s.GetSymbol(3) })
	expectPanic(t, "out of range", func() { s.GetSymbol(-1) })
	expectPanic(t, "out of range", func() { s.GetBlock(3) })
	expectPanic(t, "out of range", func() { s.BindSymbol(3, UndefinedReference) })
	expectPanic(t, "out of range", func() { s.BindBlock(3, &Block{}) })
	expectPanic(t, "out of range", func() { s.Bind(3, UndefinedReference) })
}

// ---------------------------------------------------------------------------
// Child Scope Tests
// ---------------------------------------------------------------------------

func TestChildSharesSelfButNotSlots(t *testing.T) {
	self := NewConstReference("parent-self")
	parent := RootScope(self, 2)
	parent.BindSymbol(1, NewConstReference("shared"))

	child := parent.Child()
	if child.GetSelf() != parent.GetSelf() {
		t.Error("child should see the parent's self immediately after creation")
	}
	if child.GetSymbol(1) != parent.GetSymbol(1) {
		t.Error("child should see the parent's bound symbols at creation")
	}

	rebound := NewConstReference("child-only")
	child.BindSymbol(1, rebound)
	if parent.GetSymbol(1) == rebound {
		t.Error("binding a child slot must not change the parent's slot")
	}

	parent.BindSymbol(2, NewConstReference("parent-only"))
	if child.GetSymbol(2) != UndefinedReference {
		t.Error("binding a parent slot must not change the child's slot")
	}
}

func TestChildSharesAuxiliaryFieldsUntilRebound(t *testing.T) {
	parent := RootScope(NewConstReference(nil), 1)
	eval := map[string]any{"x": NewConstReference(1)}
	partials := map[string]Reference{"y": NewConstReference(2)}
	caller := RootScope(NewConstReference("caller"), 0)
	parent.BindEvalScope(eval)
	parent.BindPartialMap(partials)
	parent.BindCallerScope(caller)

	child := parent.Child()
	if child.GetEvalScope()["x"] != eval["x"] {
		t.Error("child should share the parent's eval scope by reference")
	}
	if child.GetPartialMap()["y"] != partials["y"] {
		t.Error("child should share the parent's partial map by reference")
	}
	if child.GetCallerScope() != caller {
		t.Error("child should share the parent's caller scope")
	}

	// Rebinding on the child is invisible to the parent, and vice versa.
	child.BindEvalScope(map[string]any{})
	if len(parent.GetEvalScope()) != 1 {
		t.Error("rebinding the child's eval scope must not affect the parent")
	}
	parent.BindCallerScope(nil)
	if child.GetCallerScope() != caller {
		t.Error("rebinding the parent's caller scope must not affect the child")
	}
}

func TestAuxiliaryFieldsDefaultAbsent(t *testing.T) {
	s := RootScope(NewConstReference(nil), 0)
	if s.GetEvalScope() != nil {
		t.Error("eval scope should be absent by default")
	}
	if s.GetPartialMap() != nil {
		t.Error("partial map should be absent by default")
	}
	if s.GetCallerScope() != nil {
		t.Error("caller scope should be absent by default")
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func expectPanic(t *testing.T, substring string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("expected panic containing %q, got none", substring)
			return
		}
		msg, ok := r.(string)
		if !ok {
			t.Errorf("expected string panic, got %T: %v", r, r)
			return
		}
		if !strings.Contains(msg, substring) {
			t.Errorf("panic %q should contain %q", msg, substring)
		}
	}()
	fn()
}
