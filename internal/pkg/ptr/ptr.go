package ptr

// To returns a pointer to v. Handy for optional fields in requests and tests.
func To[T any](v T) *T {
	return &v
}
