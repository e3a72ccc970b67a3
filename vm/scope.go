package vm

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// Scope: the symbol table for one template or block invocation
// ---------------------------------------------------------------------------

// BlockSymbolTable describes a captured block's parameter symbols: the slot
// indices its block parameters bind to when the block is invoked.
type BlockSymbolTable struct {
	Parameters []int
}

// Block is a captured block triple: the compiled block (opaque to the VM
// core), the scope it closed over, and its parameter symbol table.
type Block struct {
	Compiled any
	Scope    *Scope
	Table    *BlockSymbolTable
}

// Scope maps the small integer symbol indices emitted by the compiler to
// resolved values. Slot 0 is reserved for self; slots 1..n hold references,
// captured blocks, or the unbound sentinel. The three auxiliary fields
// support caller-context resolution, dynamic (eval) lookup, and legacy
// partial inclusion.
//
// The slot array is fixed-length: its size comes from the compiled symbol
// table, so an out-of-range index is a compiler/interpreter mismatch and
// panics rather than degrading.
type Scope struct {
	// Each slot holds a Reference or a *Block. Unbound slots hold
	// UndefinedReference.
	slots []any

	callerScope *Scope
	evalScope   map[string]any // name -> Reference or *Block
	partialMap  map[string]Reference
}

// RootScope creates a scope for an initial render pass: size symbol slots,
// all unbound, with self bound to selfRef.
func RootScope(selfRef Reference, size int) *Scope {
	s := SizedScope(size)
	s.BindSelf(selfRef)
	return s
}

// SizedScope creates a scope with size symbol slots and an unbound self,
// to be bound later via Init or BindSelf.
func SizedScope(size int) *Scope {
	slots := make([]any, size+1)
	for i := range slots {
		slots[i] = UndefinedReference
	}
	return &Scope{slots: slots}
}

// Init binds self and returns the scope, for chained construction of a
// pre-sized scope.
func (s *Scope) Init(selfRef Reference) *Scope {
	s.BindSelf(selfRef)
	return s
}

// Len returns the number of slots, including the self slot.
func (s *Scope) Len() int { return len(s.slots) }

// GetSelf returns the self slot's reference.
func (s *Scope) GetSelf() Reference {
	return s.refAt(0, "Scope.GetSelf")
}

// GetSymbol returns slot symbol's value as a reference. Panics if the slot
// holds a captured block; the compiler keeps value and block symbols apart.
func (s *Scope) GetSymbol(symbol int) Reference {
	return s.refAt(symbol, "Scope.GetSymbol")
}

// GetBlock returns the captured block in slot symbol, or nil when the slot
// is unbound. An unbound slot and "no block" are the same observable state.
func (s *Scope) GetBlock(symbol int) *Block {
	v := s.at(symbol, "Scope.GetBlock")
	b, ok := v.(*Block)
	if !ok {
		return nil
	}
	return b
}

// GetEvalScope returns the eval scope, or nil when dynamic lookup is not
// enabled for the current section.
func (s *Scope) GetEvalScope() map[string]any { return s.evalScope }

// GetPartialMap returns the partial-locals map, or nil outside legacy
// partial inclusion.
func (s *Scope) GetPartialMap() map[string]Reference { return s.partialMap }

// GetCallerScope returns the scope active at the call site, or nil.
func (s *Scope) GetCallerScope() *Scope { return s.callerScope }

// Bind stores a reference or captured block in slot symbol.
func (s *Scope) Bind(symbol int, value any) {
	s.set(symbol, value, "Scope.Bind")
}

// BindSelf overwrites the self slot.
func (s *Scope) BindSelf(selfRef Reference) {
	s.set(0, selfRef, "Scope.BindSelf")
}

// BindSymbol overwrites slot symbol with a reference.
func (s *Scope) BindSymbol(symbol int, ref Reference) {
	s.set(symbol, ref, "Scope.BindSymbol")
}

// BindBlock overwrites slot symbol with a captured block.
func (s *Scope) BindBlock(symbol int, block *Block) {
	s.set(symbol, block, "Scope.BindBlock")
}

// BindEvalScope replaces the eval scope wholesale.
func (s *Scope) BindEvalScope(m map[string]any) { s.evalScope = m }

// BindPartialMap replaces the partial-locals map wholesale.
func (s *Scope) BindPartialMap(m map[string]Reference) { s.partialMap = m }

// BindCallerScope replaces the caller-scope link.
func (s *Scope) BindCallerScope(caller *Scope) { s.callerScope = caller }

// Child returns a scope with an independent copy of the slot array. The
// auxiliary fields are shared by reference until the child (or parent)
// rebinds them: rebinding is invisible to the other scope, but mutating a
// shared map in place is visible to both and must be avoided.
func (s *Scope) Child() *Scope {
	slots := make([]any, len(s.slots))
	copy(slots, s.slots)
	return &Scope{
		slots:       slots,
		callerScope: s.callerScope,
		evalScope:   s.evalScope,
		partialMap:  s.partialMap,
	}
}

// ---------------------------------------------------------------------------
// Slot access
// ---------------------------------------------------------------------------

func (s *Scope) at(symbol int, op string) any {
	if symbol < 0 || symbol >= len(s.slots) {
		panic(fmt.Sprintf("%s: symbol %d out of range [0,%d)", op, symbol, len(s.slots)))
	}
	return s.slots[symbol]
}

func (s *Scope) refAt(symbol int, op string) Reference {
	v := s.at(symbol, op)
	ref, ok := v.(Reference)
	if !ok {
		panic(fmt.Sprintf("%s: symbol %d holds a block, not a reference", op, symbol))
	}
	return ref
}

func (s *Scope) set(symbol int, value any, op string) {
	if symbol < 0 || symbol >= len(s.slots) {
		panic(fmt.Sprintf("%s: symbol %d out of range [0,%d)", op, symbol, len(s.slots)))
	}
	s.slots[symbol] = value
}
