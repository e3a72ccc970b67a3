package vm

// ---------------------------------------------------------------------------
// Transaction: batched side effects for one render pass
// ---------------------------------------------------------------------------

// ComponentManager handles lifecycle notifications for the components it
// manages. The VM pairs every recorded component with its manager and never
// inspects the component itself.
type ComponentManager interface {
	DidCreate(component any)
	DidUpdate(component any)
}

// ModifierManager handles install and update for the modifiers it manages.
type ModifierManager interface {
	Install(modifier any)
	Update(modifier any)
}

// componentEntry pairs a component with its manager. Storing the pair as one
// record keeps the insertion-order invariant structural.
type componentEntry struct {
	component any
	manager   ComponentManager
}

type modifierEntry struct {
	modifier any
	manager  ModifierManager
}

// Transaction accumulates the side effects discovered while one render pass
// evaluates: component lifecycle notifications, modifier work, and deferred
// teardown. Recording is O(1) append; nothing runs until Commit.
//
// A transaction is consumed exactly once: the Environment discards it at
// commit and never reuses it.
type Transaction struct {
	created         []componentEntry
	updated         []componentEntry
	installModifier []modifierEntry
	updateModifier  []modifierEntry
	destructors     []Destroyable
}

// NewTransaction creates an empty transaction.
func NewTransaction() *Transaction {
	return &Transaction{}
}

// DidCreate records a created component for phase-1 notification.
func (t *Transaction) DidCreate(component any, manager ComponentManager) {
	t.created = append(t.created, componentEntry{component, manager})
}

// DidUpdate records an updated component for phase-2 notification.
func (t *Transaction) DidUpdate(component any, manager ComponentManager) {
	t.updated = append(t.updated, componentEntry{component, manager})
}

// ScheduleInstallModifier records a modifier install for phase 4.
func (t *Transaction) ScheduleInstallModifier(modifier any, manager ModifierManager) {
	t.installModifier = append(t.installModifier, modifierEntry{modifier, manager})
}

// ScheduleUpdateModifier records a modifier update for phase 5.
func (t *Transaction) ScheduleUpdateModifier(modifier any, manager ModifierManager) {
	t.updateModifier = append(t.updateModifier, modifierEntry{modifier, manager})
}

// DidDestroy records a deferred teardown action for phase 3.
func (t *Transaction) DidDestroy(d Destroyable) {
	t.destructors = append(t.destructors, d)
}

// Commit applies the recorded effects in five fixed phases, each in strict
// insertion order: component creates, component updates, destructors,
// modifier installs, modifier updates.
//
// Lifecycle notifications settle before any teardown because teardown can
// depend on state they establish; modifiers run last so installs see the
// final tree, with install strictly before update. Failures inside a
// notification are not caught here; they propagate to the caller.
func (t *Transaction) Commit() {
	for _, e := range t.created {
		e.manager.DidCreate(e.component)
	}
	for _, e := range t.updated {
		e.manager.DidUpdate(e.component)
	}
	for _, d := range t.destructors {
		d.Destroy()
	}
	for _, e := range t.installModifier {
		e.manager.Install(e.modifier)
	}
	for _, e := range t.updateModifier {
		e.manager.Update(e.modifier)
	}
}
