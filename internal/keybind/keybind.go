// Package keybind associates keyboard keys with action callbacks.
package keybind

import "sync"

// Action is invoked when the bound key is dispatched.
type Action func()

// Binder holds the active key bindings. At most one action is bound per key:
// binding a key that already has an action replaces the old binding, so a
// rebind can never fire twice for one keypress.
type Binder struct {
	mu      sync.Mutex
	actions map[string]Action
}

// NewBinder creates an empty binder.
func NewBinder() *Binder {
	return &Binder{actions: make(map[string]Action)}
}

// Bind registers action for key, replacing any previous binding for it.
func (b *Binder) Bind(key string, action Action) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions[key] = action
}

// Unbind removes the binding for key, if any.
func (b *Binder) Unbind(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.actions, key)
}

// Dispatch invokes the action bound to key. Unbound keys are ignored.
func (b *Binder) Dispatch(key string) {
	b.mu.Lock()
	action := b.actions[key]
	b.mu.Unlock()

	if action != nil {
		action()
	}
}

// Bindings returns the number of active bindings.
func (b *Binder) Bindings() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.actions)
}

// Close removes all bindings.
func (b *Binder) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions = make(map[string]Action)
}
