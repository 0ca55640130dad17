// ptr.go provides a helper for returning copies by pointer.

package livelink

func ptr[T any](v T) *T {
	return &v
}
