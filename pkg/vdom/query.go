package vdom

import "strings"

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn stops descent into that node's children.
func Walk(n *VNode, fn func(*VNode) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// TextContent concatenates the text of every text node under n.
func TextContent(n *VNode) string {
	var b strings.Builder
	Walk(n, func(v *VNode) bool {
		if v.Kind == KindText {
			b.WriteString(v.Text)
		}
		return true
	})
	return b.String()
}

// FindByTestID returns the first node whose data-testid equals id.
func FindByTestID(n *VNode, id string) *VNode {
	var found *VNode
	Walk(n, func(v *VNode) bool {
		if found != nil {
			return false
		}
		if v.Kind == KindElement && v.Props["data-testid"] == id {
			found = v
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node matching pred, in document order.
func FindAll(n *VNode, pred func(*VNode) bool) []*VNode {
	var out []*VNode
	Walk(n, func(v *VNode) bool {
		if pred(v) {
			out = append(out, v)
		}
		return true
	})
	return out
}
