package tracker

// Target is one (symbol, target quantity) pair emitted to the host's
// execution layer. Targets are ephemeral and re-derived every step.
// A zero quantity instructs the host to close the position.
type Target struct {
	Symbol   string
	Quantity Quantity
}

// targetSet accumulates the step's targets. Lookup is by symbol; first-set
// order is preserved because emission order is observable.
type targetSet struct {
	byName map[string]Quantity
	order  []string
}

func newTargetSet() *targetSet {
	return &targetSet{byName: make(map[string]Quantity)}
}

func (s *targetSet) set(symbol string, quantity Quantity) {
	if _, ok := s.byName[symbol]; !ok {
		s.order = append(s.order, symbol)
	}
	s.byName[symbol] = quantity
}

// clear reconciles a stale entry, so a symbol left as-is never emits a
// duplicate or contradictory target in the same step.
func (s *targetSet) clear(symbol string) {
	if _, ok := s.byName[symbol]; !ok {
		return
	}
	delete(s.byName, symbol)
	for i, sym := range s.order {
		if sym == symbol {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *targetSet) list() []Target {
	out := make([]Target, 0, len(s.order))
	for _, symbol := range s.order {
		out = append(out, Target{Symbol: symbol, Quantity: s.byName[symbol]})
	}
	return out
}
