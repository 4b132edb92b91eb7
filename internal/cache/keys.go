package cache

import (
	"fmt"
	"strings"
)

// KeySeparator delimits cache key segments.
const KeySeparator = ":"

// Key builds a deterministic cache key from an operation name and its
// arguments: Key("getAllUsers", customerID, page, limit). Keys are injective
// over their argument tuple as long as arguments render without the
// separator, which holds for the numeric ids and pagination values used here.
func Key(operation string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, operation)
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}
	return strings.Join(parts, KeySeparator)
}

// Key builders per cached operation. The user listing is keyed by the
// customer's immutable id, never its display name, so two tenants can never
// collide.
func ProductListKey(page, limit int) string {
	return Key("getAllProducts", page, limit)
}

func ProductKey(id uint) string {
	return Key("getProduct", id)
}

func UserListKey(customerID uint, page, limit int) string {
	return Key("getAllUsers", customerID, page, limit)
}
