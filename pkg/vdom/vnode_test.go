package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{VKind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestVNodeIsInteractive(t *testing.T) {
	if Div().IsInteractive() {
		t.Error("plain div should not be interactive")
	}
	if !Button(OnClick(func() {})).IsInteractive() {
		t.Error("button with onclick should be interactive")
	}
	if Text("x").IsInteractive() {
		t.Error("text node should not be interactive")
	}
	var nilNode *VNode
	if nilNode.IsInteractive() {
		t.Error("nil node should not be interactive")
	}
}

func TestVNodeHandler(t *testing.T) {
	clicked := false
	node := Button(OnClick(func() { clicked = true }))

	h, ok := node.Handler("click").(func())
	if !ok {
		t.Fatal("expected func() click handler")
	}
	h()
	if !clicked {
		t.Error("handler should have run")
	}

	if node.Handler("input") != nil {
		t.Error("missing handler should be nil")
	}
}

func TestAttrIsEmpty(t *testing.T) {
	if !(Attr{}).IsEmpty() {
		t.Error("zero Attr should be empty")
	}
	if ID("x").IsEmpty() {
		t.Error("id attr should not be empty")
	}
}

func TestFuncComponent(t *testing.T) {
	called := 0
	c := Func(func() *VNode {
		called++
		return Text("hi")
	})

	node := c.Render()
	if called != 1 {
		t.Errorf("render called %d times, want 1", called)
	}
	if node.Text != "hi" {
		t.Errorf("Text = %v, want hi", node.Text)
	}
}
