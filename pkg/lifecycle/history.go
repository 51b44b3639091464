package lifecycle

// Prepend inserts item at the front of history and keeps at most limit
// entries, dropping the oldest. A limit of zero or less keeps everything.
// The input slice is never modified.
func Prepend[T any](history []T, item T, limit int) []T {
	n := len(history) + 1
	if limit > 0 && n > limit {
		n = limit
	}

	out := make([]T, n)
	out[0] = item
	copy(out[1:], history)
	return out
}
