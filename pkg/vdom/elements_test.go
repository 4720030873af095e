package vdom

import "testing"

func TestCreateElement(t *testing.T) {
	t.Run("basic element", func(t *testing.T) {
		node := Div()
		if node.Kind != KindElement {
			t.Errorf("Kind = %v, want KindElement", node.Kind)
		}
		if node.Tag != "div" {
			t.Errorf("Tag = %v, want div", node.Tag)
		}
	})

	t.Run("with attributes", func(t *testing.T) {
		node := Div(Class("card", "big"), ID("main"), Role("region"))
		if node.Props["class"] != "card big" {
			t.Errorf("class = %v, want card big", node.Props["class"])
		}
		if node.Props["id"] != "main" {
			t.Errorf("id = %v, want main", node.Props["id"])
		}
		if node.Props["role"] != "region" {
			t.Errorf("role = %v, want region", node.Props["role"])
		}
	})

	t.Run("attribute slice and empty attr", func(t *testing.T) {
		node := Div([]Attr{TestID("a"), {}})
		if node.Props["data-testid"] != "a" {
			t.Errorf("data-testid = %v, want a", node.Props["data-testid"])
		}
		if len(node.Props) != 1 {
			t.Errorf("Props len = %d, want 1", len(node.Props))
		}
	})

	t.Run("key attribute", func(t *testing.T) {
		node := Li(Key("row-1"))
		if node.Key != "row-1" {
			t.Errorf("Key = %v, want row-1", node.Key)
		}
		if _, ok := node.Props["key"]; ok {
			t.Error("key should not be stored in props")
		}
	})

	t.Run("children", func(t *testing.T) {
		node := Div(H1(Text("Title")), "body", nil, []*VNode{P(), nil, Span()})
		if len(node.Children) != 4 {
			t.Fatalf("Children len = %v, want 4", len(node.Children))
		}
		if node.Children[1].Kind != KindText || node.Children[1].Text != "body" {
			t.Errorf("string child = %+v, want text body", node.Children[1])
		}
	})

	t.Run("component child", func(t *testing.T) {
		c := Func(func() *VNode { return nil })
		node := Section(c)
		if len(node.Children) != 1 {
			t.Fatalf("Children len = %v, want 1", len(node.Children))
		}
		if node.Children[0].Kind != KindComponent || node.Children[0].Comp != c {
			t.Errorf("child = %+v, want component node", node.Children[0])
		}
	})

	t.Run("custom element", func(t *testing.T) {
		if got := Element("my-widget").Tag; got != "my-widget" {
			t.Errorf("Tag = %v, want my-widget", got)
		}
	})
}
