package vdom

import "testing"

func TestTextContent(t *testing.T) {
	tree := Div(H1(Text("Count: ")), Span(Textf("%d", 5)))
	if got := TextContent(tree); got != "Count: 5" {
		t.Errorf("TextContent = %q, want %q", got, "Count: 5")
	}
	if got := TextContent(nil); got != "" {
		t.Errorf("TextContent(nil) = %q, want empty", got)
	}
}

func TestFindByTestID(t *testing.T) {
	tree := Div(
		Section(TestID("outer"), Span(TestID("inner"), Text("x"))),
		Span(TestID("inner"), Text("y")),
	)

	node := FindByTestID(tree, "inner")
	if node == nil {
		t.Fatal("expected node")
	}
	if TextContent(node) != "x" {
		t.Errorf("should return first match in document order, got %q", TextContent(node))
	}
	if FindByTestID(tree, "missing") != nil {
		t.Error("missing test id should return nil")
	}
}

func TestWalkStopsDescent(t *testing.T) {
	tree := Div(Section(Span()), P())
	var tags []string
	Walk(tree, func(n *VNode) bool {
		tags = append(tags, n.Tag)
		return n.Tag != "section"
	})
	want := []string{"div", "section", "p"}
	if len(tags) != len(want) {
		t.Fatalf("visited %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("visited %v, want %v", tags, want)
		}
	}
}

func TestFindAll(t *testing.T) {
	tree := Ul(Li(Text("a")), Li(Text("b")), P())
	items := FindAll(tree, func(n *VNode) bool { return n.Tag == "li" })
	if len(items) != 2 {
		t.Errorf("FindAll len = %d, want 2", len(items))
	}
}
