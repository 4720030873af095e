package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data sets a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// TestID sets the data-testid attribute used by FindByTestID.
func TestID(id string) Attr { return Data("testid", id) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// Key sets the reconciliation key.
func Key(key string) Attr { return attr("key", key) }
