package validation

import "fmt"

// Preview renders at most n findings for an error summary.
func Preview[T fmt.Stringer](items []T, n int) []string {
	if n > len(items) {
		n = len(items)
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for _, it := range items[:n] {
		out = append(out, it.String())
	}
	return out
}
