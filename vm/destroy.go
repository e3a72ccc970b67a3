package vm

// Destroyable is the teardown capability: a single no-argument destroy
// operation. The VM stores destroyables opaquely and invokes them in
// recording order during transaction commit.
type Destroyable interface {
	Destroy()
}

// DestroyFunc adapts a plain function to Destroyable.
type DestroyFunc func()

func (f DestroyFunc) Destroy() { f() }
