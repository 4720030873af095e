package vdom

import "testing"

func TestTextf(t *testing.T) {
	node := Textf("count: %d", 3)
	if node.Kind != KindText || node.Text != "count: 3" {
		t.Errorf("Textf = %+v, want text count: 3", node)
	}
}

func TestFragment(t *testing.T) {
	c := Func(func() *VNode { return nil })
	node := Fragment(Text("a"), nil, "b", []*VNode{Text("c")}, []any{"d", c})
	if node.Kind != KindFragment {
		t.Errorf("Kind = %v, want KindFragment", node.Kind)
	}
	if len(node.Children) != 5 {
		t.Fatalf("Children len = %d, want 5", len(node.Children))
	}
	if node.Children[4].Kind != KindComponent {
		t.Errorf("last child kind = %v, want KindComponent", node.Children[4].Kind)
	}
}

func TestKeyed(t *testing.T) {
	c := Func(func() *VNode { return nil })
	node := Keyed("item-1", c)
	if node.Kind != KindComponent || node.Key != "item-1" || node.Comp != c {
		t.Errorf("Keyed = %+v", node)
	}
}

func TestIf(t *testing.T) {
	n := Text("x")
	if If(true, n) != n {
		t.Error("If(true) should return node")
	}
	if If(false, n) != nil {
		t.Error("If(false) should return nil")
	}
	a, b := Text("a"), Text("b")
	if IfElse(true, a, b) != a || IfElse(false, a, b) != b {
		t.Error("IfElse picked the wrong branch")
	}
}

func TestRange(t *testing.T) {
	items := []string{"a", "", "c"}
	nodes := Range(items, func(s string, i int) *VNode {
		if s == "" {
			return nil
		}
		return Li(Key(s), Text(s))
	})
	if len(nodes) != 2 {
		t.Fatalf("len = %d, want 2", len(nodes))
	}
	if nodes[1].Key != "c" {
		t.Errorf("Key = %v, want c", nodes[1].Key)
	}
}
