package ldbc

// Factory builds a collection of A incrementally, for QueryTo(decoder,
// factory) where the caller picks the target container rather than always
// getting back a slice, so this is a small generic helper
// rather than an adaptation of existing code.
type Factory[A any, G any] struct {
	zero   func() G
	append func(G, A) G
}

// NewFactory builds a Factory from a zero-value constructor and an append
// function.
func NewFactory[A any, G any](zero func() G, append func(G, A) G) Factory[A, G] {
	return Factory[A, G]{zero: zero, append: append}
}

// SliceFactory collects into a plain slice.
func SliceFactory[A any]() Factory[A, []A] {
	return NewFactory(
		func() []A { return nil },
		func(g []A, a A) []A { return append(g, a) },
	)
}

// NonEmptyList is a list statically guaranteed to hold at least one element,
// returned by query_nel.
type NonEmptyList[A any] struct {
	Head A
	Tail []A
}

// ToSlice flattens a NonEmptyList into an ordinary slice.
func (n NonEmptyList[A]) ToSlice() []A {
	out := make([]A, 0, len(n.Tail)+1)
	out = append(out, n.Head)
	return append(out, n.Tail...)
}
