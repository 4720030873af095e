// Package vdom provides the virtual node model rendered by vango components.
//
// # Core Types
//
// VNode is the building block representing elements, text, fragments and
// nested components. Props holds attributes and event handlers. Attr and
// EventHandler are used to build Props.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), TestID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	    Button(OnClick(handler), Text("+1")),
//	)
//
// Any Component passed as an argument becomes a KindComponent child that
// the runtime mounts as its own instance. Keyed gives such a child a
// reconciliation key.
//
// # Queries
//
// Walk, TextContent, FindByTestID and FindAll inspect committed trees.
package vdom
