package tetris

// SequenceGenerator hands out the given kinds in order, cycling when it runs
// out. Colors follow the kind (I is 1, Z is 2...). It makes matches
// deterministic in tests.
type SequenceGenerator struct {
	Kinds []Kind
	i     int
}

func (s *SequenceGenerator) Next() Piece {
	if len(s.Kinds) == 0 {
		return Piece{Kind: O, Color: int(O) + 1}
	}
	k := s.Kinds[s.i%len(s.Kinds)]
	s.i++
	return Piece{Kind: k, Color: int(k) + 1}
}

// NewTestMatch creates a default sized match that only spawns the given kind.
func NewTestMatch(k Kind, o *Options) *Match {
	var opts Options
	if o != nil {
		opts = *o
	}
	opts.Generator = &SequenceGenerator{Kinds: []Kind{k}}
	m, err := New(&opts)
	if err != nil {
		panic(err)
	}
	return m
}
