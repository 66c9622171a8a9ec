package keybind

import "testing"

func TestBindAndDispatch(t *testing.T) {
	b := NewBinder()
	defer b.Close()

	var fired int
	b.Bind("enter", func() { fired++ })

	b.Dispatch("enter")
	b.Dispatch("enter")

	if fired != 2 {
		t.Errorf("expected 2 firings, got %d", fired)
	}
}

func TestDispatchUnboundKeyIsIgnored(t *testing.T) {
	b := NewBinder()
	defer b.Close()

	b.Dispatch("escape") // must not panic
}

func TestRebindReplacesWithoutDoubleFiring(t *testing.T) {
	b := NewBinder()
	defer b.Close()

	var first, second int
	b.Bind("escape", func() { first++ })
	b.Bind("escape", func() { second++ })

	b.Dispatch("escape")

	if first != 0 {
		t.Errorf("old binding fired %d times after rebind", first)
	}
	if second != 1 {
		t.Errorf("expected new binding to fire once, got %d", second)
	}
	if b.Bindings() != 1 {
		t.Errorf("expected 1 active binding, got %d", b.Bindings())
	}
}

func TestUnbindRemovesBinding(t *testing.T) {
	b := NewBinder()
	defer b.Close()

	var fired int
	b.Bind("enter", func() { fired++ })
	b.Unbind("enter")

	b.Dispatch("enter")

	if fired != 0 {
		t.Errorf("expected no firing after unbind, got %d", fired)
	}
	if b.Bindings() != 0 {
		t.Errorf("expected no bindings left, got %d", b.Bindings())
	}
}

func TestCloseRemovesAllBindings(t *testing.T) {
	b := NewBinder()

	b.Bind("enter", func() {})
	b.Bind("escape", func() {})

	b.Close()

	if b.Bindings() != 0 {
		t.Errorf("expected no bindings after close, got %d", b.Bindings())
	}
}
