package patterns

import "errors"

// literalSet is an Aho-Corasick automaton answering whether a text contains
// any of a fixed set of literals. A nil set contains everything.
type literalSet struct {
	nodes []literalNode
}

type literalNode struct {
	next map[byte]int
	fail int
	out  bool
}

func newLiteralSet(literals []string) (*literalSet, error) {
	if len(literals) == 0 {
		return nil, nil
	}

	nodes := []literalNode{{next: map[byte]int{}}}
	for _, literal := range literals {
		if literal == "" {
			return nil, errors.New("empty prefilter literal")
		}
		current := 0
		for i := 0; i < len(literal); i++ {
			b := literal[i]
			next, ok := nodes[current].next[b]
			if !ok {
				nodes = append(nodes, literalNode{next: map[byte]int{}})
				next = len(nodes) - 1
				nodes[current].next[b] = next
			}
			current = next
		}
		nodes[current].out = true
	}

	queue := make([]int, 0, len(nodes))
	for _, next := range nodes[0].next {
		queue = append(queue, next)
	}

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]

		for b, next := range nodes[state].next {
			fail := nodes[state].fail
			for {
				if target, ok := nodes[fail].next[b]; ok && target != next {
					nodes[next].fail = target
					break
				}
				if fail == 0 {
					break
				}
				fail = nodes[fail].fail
			}
			nodes[next].out = nodes[next].out || nodes[nodes[next].fail].out
			queue = append(queue, next)
		}
	}

	return &literalSet{nodes: nodes}, nil
}

func (s *literalSet) containsAny(text string) bool {
	if s == nil {
		return true
	}

	state := 0
	for i := 0; i < len(text); i++ {
		b := text[i]
		for state != 0 {
			if _, ok := s.nodes[state].next[b]; ok {
				break
			}
			state = s.nodes[state].fail
		}
		if next, ok := s.nodes[state].next[b]; ok {
			state = next
		}
		if s.nodes[state].out {
			return true
		}
	}
	return false
}
