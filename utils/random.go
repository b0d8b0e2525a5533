package utils

import (
	"fmt"
	"math/rand"
	"strings"
)

// RandomMobile builds a 10-digit mobile number starting with the given prefix.
// Used to mint fresh new-user identities per run.
func RandomMobile(prefix string) string {
	if prefix == "" {
		prefix = "988"
	}
	remaining := 10 - len(prefix)
	if remaining <= 0 {
		return prefix[:10]
	}
	var sb strings.Builder
	sb.WriteString(prefix)
	for i := 0; i < remaining; i++ {
		sb.WriteString(fmt.Sprintf("%d", rand.Intn(10)))
	}
	return sb.String()
}

// RandomPick returns a random element of items, or the zero value for an empty slice.
func RandomPick[T any](items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[rand.Intn(len(items))]
}
