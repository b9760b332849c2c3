package effects

// Never is the request type of a computation whose every effect kind has been
// consumed by a handler layer. The runtime never constructs a Never value:
// once the yield type reaches Never, classification cannot fall through, and
// the computation supports the completion-only Run.
type Never struct{}

// Select is the structural relation "Part over Whole": it classifies any
// concrete Whole request as exactly one of an instance of Part or an instance
// of Rest (the sum of all other kinds), and reconstructs a composite result
// from a Part result. Both operations are pure and total over a closed,
// disjoint sum.
type Select[Whole, Part, Rest, PR, R any] interface {
	// Split classifies w. isPart reports which of the two return values is
	// populated; exactly one case matches.
	Split(w Whole) (part Part, rest Rest, isPart bool)
	// Embed wraps a Part result back into the composite result type.
	Embed(pr PR) R
}

// CoSelect is the symmetric relation: it reconstructs an outer composite
// result from the result of an inner remainder.
type CoSelect[RR, R any] interface {
	Lift(rr RR) R
}

// SelectFuncs adapts a pair of functions into a Select.
type SelectFuncs[Whole, Part, Rest, PR, R any] struct {
	SplitFn func(Whole) (Part, Rest, bool)
	EmbedFn func(PR) R
}

func (s SelectFuncs[Whole, Part, Rest, PR, R]) Split(w Whole) (Part, Rest, bool) {
	return s.SplitFn(w)
}

func (s SelectFuncs[Whole, Part, Rest, PR, R]) Embed(pr PR) R {
	return s.EmbedFn(pr)
}

// CoSelectFunc adapts a function into a CoSelect.
type CoSelectFunc[RR, R any] func(RR) R

func (f CoSelectFunc[RR, R]) Lift(rr RR) R {
	return f(rr)
}

// SelectSelf selects a single kind from itself: every request matches Part
// and Rest is the uninhabited type, so no classification can ever fall
// through.
func SelectSelf[P, PR any]() Select[P, P, Never, PR, PR] {
	return SelectFuncs[P, P, Never, PR, PR]{
		SplitFn: func(p P) (P, Never, bool) {
			return p, Never{}, true
		},
		EmbedFn: func(pr PR) PR {
			return pr
		},
	}
}

// SelectUnder re-targets a nested layer's Select through a CoSelect: sel
// embeds Part results into the remainder's result type RR, and co lifts RR
// into the outer composite R. The returned Select classifies like sel but
// embeds all the way into R, which is what a handler attached beneath another
// layer needs to reach the shared mailbox.
func SelectUnder[Whole, Part, Rest, PR, RR, R any](
	sel Select[Whole, Part, Rest, PR, RR],
	co CoSelect[RR, R],
) Select[Whole, Part, Rest, PR, R] {
	return SelectFuncs[Whole, Part, Rest, PR, R]{
		SplitFn: sel.Split,
		EmbedFn: func(pr PR) R {
			return co.Lift(sel.Embed(pr))
		},
	}
}
