package vm

import (
	"strings"

	"github.com/chazu/veneer/dom"
)

// ---------------------------------------------------------------------------
// Environment: per-render-root VM state
// ---------------------------------------------------------------------------

// EnvironmentDelegate supplies the decisions a concrete environment must
// make: how to iterate a value with stable identity, and what protocol a
// URL-bearing attribute value carries.
type EnvironmentDelegate interface {
	// IterableFor adapts ref for keyed iteration; key derives per-item
	// identity across renders (see the Key* constants).
	IterableFor(ref Reference, key string) Iterable
	// ProtocolForURL returns the protocol to treat url as having, with the
	// trailing colon ("javascript:"), or "" for protocol-relative input.
	ProtocolForURL(url string) string
}

// ProtocolPolicy is an optional upgrade for delegates that decide protocol
// admissibility themselves instead of relying on the built-in deny list.
type ProtocolPolicy interface {
	AllowsProtocol(protocol string) bool
}

// DefaultDelegate is the stock EnvironmentDelegate: reflective iteration and
// textual scheme parsing. Embed it to override one hook.
type DefaultDelegate struct{}

func (DefaultDelegate) IterableFor(ref Reference, key string) Iterable {
	return NewIterable(ref, key)
}

// ProtocolForURL parses the scheme textually: everything up to the first
// colon, if it comes before any slash, query, or fragment.
func (DefaultDelegate) ProtocolForURL(url string) string {
	url = strings.TrimSpace(url)
	i := strings.IndexByte(url, ':')
	if i <= 0 {
		return ""
	}
	if j := strings.IndexAny(url, "/?#"); j != -1 && j < i {
		return ""
	}
	return strings.ToLower(url[:i+1])
}

// unsafeProtocols is the built-in deny list applied when the delegate does
// not implement ProtocolPolicy.
var unsafeProtocols = map[string]bool{
	"javascript:": true,
	"vbscript:":   true,
}

// Environment holds the per-render-root state: the DOM-operations
// collaborators (bound once, immutable), the policy delegate, and at most
// one active Transaction. It exposes the scheduling API the interpreter
// calls while a render pass runs.
//
// Environments are single-threaded: overlapping render passes against one
// Environment are a caller bug and trip the active-transaction assertion.
type Environment struct {
	appendOperations TreeConstruction
	updateOperations DOMChanges
	delegate         EnvironmentDelegate

	transaction *Transaction
	tracer      *Tracer
}

// EnvironmentOptions configures NewEnvironment. Nil collaborators get
// defaults over Document; a nil Document creates a fresh one. A nil
// Delegate gets DefaultDelegate.
type EnvironmentOptions struct {
	Document         *dom.Document
	AppendOperations TreeConstruction
	UpdateOperations DOMChanges
	Delegate         EnvironmentDelegate
	Tracer           *Tracer
}

// NewEnvironment creates an environment for one render root.
func NewEnvironment(opts EnvironmentOptions) *Environment {
	doc := opts.Document
	if doc == nil {
		doc = dom.NewDocument()
	}
	env := &Environment{
		appendOperations: opts.AppendOperations,
		updateOperations: opts.UpdateOperations,
		delegate:         opts.Delegate,
		tracer:           opts.Tracer,
	}
	if env.appendOperations == nil {
		env.appendOperations = NewTreeConstruction(doc)
	}
	if env.updateOperations == nil {
		env.updateOperations = NewDOMChanges(doc)
	}
	if env.delegate == nil {
		env.delegate = DefaultDelegate{}
	}
	return env
}

// AppendOperations returns the append-time DOM collaborator.
func (e *Environment) AppendOperations() TreeConstruction { return e.appendOperations }

// UpdateOperations returns the update-time DOM collaborator.
func (e *Environment) UpdateOperations() DOMChanges { return e.updateOperations }

// ---------------------------------------------------------------------------
// Transaction state machine
// ---------------------------------------------------------------------------

// Begin starts a transaction for one render pass. Panics if a transaction
// is already active — typically an unhandled failure during a prior render
// left one open, or two passes overlapped.
func (e *Environment) Begin() {
	if e.transaction != nil {
		panic("Environment.Begin: transaction already active")
	}
	e.transaction = NewTransaction()
	e.tracer.begin()
}

// Commit applies the active transaction's effects and discards it. The
// active-transaction slot is cleared before the transaction body runs, so a
// scheduling call made from inside a lifecycle notification is not silently
// attributed to the transaction being committed — it trips the no-active-
// transaction assertion instead. Notifications are expected to be
// effect-free with respect to further transactional scheduling.
func (e *Environment) Commit() {
	t := e.transaction
	if t == nil {
		panic("Environment.Commit: no active transaction")
	}
	e.transaction = nil
	e.tracer.commit(t)
	t.Commit()
}

func (e *Environment) active(op string) *Transaction {
	if e.transaction == nil {
		panic(op + ": no active transaction")
	}
	return e.transaction
}

// DidCreate schedules a created-component notification.
func (e *Environment) DidCreate(component any, manager ComponentManager) {
	e.active("Environment.DidCreate").DidCreate(component, manager)
}

// DidUpdate schedules an updated-component notification.
func (e *Environment) DidUpdate(component any, manager ComponentManager) {
	e.active("Environment.DidUpdate").DidUpdate(component, manager)
}

// ScheduleInstallModifier schedules a modifier install.
func (e *Environment) ScheduleInstallModifier(modifier any, manager ModifierManager) {
	e.active("Environment.ScheduleInstallModifier").ScheduleInstallModifier(modifier, manager)
}

// ScheduleUpdateModifier schedules a modifier update.
func (e *Environment) ScheduleUpdateModifier(modifier any, manager ModifierManager) {
	e.active("Environment.ScheduleUpdateModifier").ScheduleUpdateModifier(modifier, manager)
}

// DidDestroy schedules a deferred teardown action.
func (e *Environment) DidDestroy(d Destroyable) {
	e.active("Environment.DidDestroy").DidDestroy(d)
}

// InTransaction runs fn inside a transaction on env. When no transaction is
// active it begins one and commits in a deferred call, so work scheduled
// before a panic in fn still commits while the panic continues propagating
// — the environment is never left with a stuck open transaction. When a
// transaction is already active, fn runs directly and composes into it.
func InTransaction(env *Environment, fn func()) {
	if env.transaction != nil {
		fn()
		return
	}
	env.Begin()
	defer env.Commit()
	fn()
}

// ---------------------------------------------------------------------------
// Policy hooks
// ---------------------------------------------------------------------------

// ToConditionalReference derives a reference yielding the boolean coercion
// of ref's current value, recomputed on demand. Conditional opcodes and
// logical helpers read through it instead of re-implementing truthiness.
func (e *Environment) ToConditionalReference(ref Reference) Reference {
	return &conditionalReference{inner: ref}
}

// IterableFor produces the iteration adapter for ref, with key deriving
// stable per-item identity for list diffing.
func (e *Environment) IterableFor(ref Reference, key string) Iterable {
	return e.delegate.IterableFor(ref, key)
}

// ProtocolForURL returns the protocol the environment treats url as having.
func (e *Environment) ProtocolForURL(url string) string {
	return e.delegate.ProtocolForURL(url)
}

func (e *Environment) allowsProtocol(protocol string) bool {
	if protocol == "" {
		return true
	}
	if p, ok := e.delegate.(ProtocolPolicy); ok {
		return p.AllowsProtocol(protocol)
	}
	return !unsafeProtocols[protocol]
}

// AttributeFor selects the binding strategy for setting name on element.
// Trusting values (pre-sanitized markup) bypass URL screening; namespace
// selects namespaced-attribute binding for foreign-element attributes.
func (e *Environment) AttributeFor(element *dom.Element, name string, trusting bool, namespace string) DynamicAttribute {
	return attributeFor(element, name, trusting, namespace)
}
