package vm

import (
	"testing"
)

// ---------------------------------------------------------------------------
// Reference Tests
// ---------------------------------------------------------------------------

func TestConstReference(t *testing.T) {
	ref := NewConstReference(42)
	if ref.Value() != 42 {
		t.Error("ConstReference should yield its value")
	}
}

func TestFuncReferenceRecomputes(t *testing.T) {
	n := 0
	ref := FuncReference(func() any { n++; return n })
	if ref.Value() != 1 || ref.Value() != 2 {
		t.Error("FuncReference should recompute on every read")
	}
}

func TestPropertyReferenceOnMap(t *testing.T) {
	base := NewConstReference(map[string]any{"name": "veneer"})
	ref := NewPropertyReference(base, "name")
	if ref.Value() != "veneer" {
		t.Error("property reference should resolve map keys")
	}
	if NewPropertyReference(base, "missing").Value() != nil {
		t.Error("missing map key should resolve to nil")
	}
}

func TestPropertyReferenceOnStruct(t *testing.T) {
	type user struct {
		Name string
		age  int
	}
	base := NewConstReference(&user{Name: "ada", age: 36})
	if NewPropertyReference(base, "Name").Value() != "ada" {
		t.Error("property reference should resolve exported struct fields")
	}
	if NewPropertyReference(base, "age").Value() != nil {
		t.Error("unexported fields should resolve to nil")
	}
}

func TestPropertyReferenceOnNilBase(t *testing.T) {
	ref := NewPropertyReference(NewConstReference(nil), "anything")
	if ref.Value() != nil {
		t.Error("nil base should resolve to nil")
	}
}

func TestUndefinedReference(t *testing.T) {
	if UndefinedReference.Value() != nil {
		t.Error("the unbound sentinel should yield nil")
	}
}

// ---------------------------------------------------------------------------
// Truthiness Tests
// ---------------------------------------------------------------------------

func TestTruthy(t *testing.T) {
	truthy := []any{true, 1, -1, 0.5, "x", []int{0}, map[string]int{"a": 1}, struct{}{}}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("Truthy(%#v) should be true", v)
		}
	}

	falsy := []any{nil, false, 0, uint(0), 0.0, "", []int{}, map[string]int{}, (*int)(nil)}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("Truthy(%#v) should be false", v)
		}
	}
}
