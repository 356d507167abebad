// Package pietstack implements the Piet data stack: an ordered
// sequence of arbitrary-precision signed integers (spec §3) with the
// 17 stack operations of spec §4.4, each a silent no-op on underflow
// or other runtime stack conditions (spec §7).
//
// The push/pop pair here mirrors the teacher's pushStack/popStack in
// mos6502.go, generalized from a fixed uint8 stack page to an
// unbounded slice of *big.Int, since Piet mandates no fixed integer
// width (spec §9).
package pietstack

import "math/big"

// Stack is the Piet data stack, bottom-to-top.
type Stack struct {
	items []*big.Int
}

// New returns an empty stack.
func New() *Stack {
	return &Stack{}
}

// Len returns the number of entries.
func (s *Stack) Len() int { return len(s.items) }

// Snapshot returns a copy of the stack contents, bottom first, for
// inspection/testing. Entries are not copied defensively since stack
// values are never mutated in place (spec §3).
func (s *Stack) Snapshot() []*big.Int {
	out := make([]*big.Int, len(s.items))
	copy(out, s.items)
	return out
}

// Push appends n at the top.
func (s *Stack) Push(n *big.Int) {
	s.items = append(s.items, n)
}

// PushInt64 is a convenience wrapper for literal pushes (e.g. `push`
// of a block's member count).
func (s *Stack) PushInt64(n int64) {
	s.Push(big.NewInt(n))
}

// pop removes and returns the top entry. ok is false (and the stack
// unchanged) on underflow.
func (s *Stack) pop() (n *big.Int, ok bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	n = s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return n, true
}

// Pop is the `pop` instruction: discard the top, no-op on underflow.
func (s *Stack) Pop() {
	s.pop()
}

// TryPop pops and returns the top entry for callers (pointer, switch)
// that inspect the value rather than combining it arithmetically.
// ok is false (stack unchanged) on underflow.
func (s *Stack) TryPop() (*big.Int, bool) {
	return s.pop()
}

// Top returns the top entry without removing it, or ok=false if
// empty.
func (s *Stack) Top() (n *big.Int, ok bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[len(s.items)-1], true
}

// binaryOp pops a (top) then b (second), and on success pushes
// f(b, a) — matching spec §4.4's "a is the topmost popped, b is the
// second popped" convention for add/subtract/multiply/divide/mod/
// greater.
func (s *Stack) binaryOp(f func(b, a *big.Int) (*big.Int, bool)) {
	a, ok := s.pop()
	if !ok {
		return
	}
	b, ok := s.pop()
	if !ok {
		s.Push(a) // revert
		return
	}
	result, apply := f(b, a)
	if !apply {
		s.Push(b)
		s.Push(a)
		return
	}
	s.Push(result)
}

// Add implements `add`: push(b+a).
func (s *Stack) Add() {
	s.binaryOp(func(b, a *big.Int) (*big.Int, bool) {
		return new(big.Int).Add(b, a), true
	})
}

// Subtract implements `subtract`: push(b-a).
func (s *Stack) Subtract() {
	s.binaryOp(func(b, a *big.Int) (*big.Int, bool) {
		return new(big.Int).Sub(b, a), true
	})
}

// Multiply implements `multiply`: push(b*a).
func (s *Stack) Multiply() {
	s.binaryOp(func(b, a *big.Int) (*big.Int, bool) {
		return new(big.Int).Mul(b, a), true
	})
}

// Divide implements `divide`: push(b/a) truncated. No-op on underflow
// or a == 0.
func (s *Stack) Divide() {
	s.binaryOp(func(b, a *big.Int) (*big.Int, bool) {
		if a.Sign() == 0 {
			return nil, false
		}
		return new(big.Int).Quo(b, a), true
	})
}

// Mod implements `mod`: push the mathematical modulus of b by a, with
// the sign of a (spec §4.4, §8's testable property). No-op on
// underflow or a == 0.
func (s *Stack) Mod() {
	s.binaryOp(func(b, a *big.Int) (*big.Int, bool) {
		if a.Sign() == 0 {
			return nil, false
		}
		r := new(big.Int).Mod(b, new(big.Int).Abs(a))
		if a.Sign() < 0 && r.Sign() != 0 {
			r.Sub(r, new(big.Int).Abs(a))
		}
		return r, true
	})
}

// Not implements `not`: push 1 if a == 0 else 0. No-op on underflow.
func (s *Stack) Not() {
	a, ok := s.pop()
	if !ok {
		return
	}
	if a.Sign() == 0 {
		s.PushInt64(1)
	} else {
		s.PushInt64(0)
	}
}

// Greater implements `greater`: push 1 if b > a else 0. No-op on
// underflow.
func (s *Stack) Greater() {
	s.binaryOp(func(b, a *big.Int) (*big.Int, bool) {
		if b.Cmp(a) > 0 {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	})
}

// Duplicate implements `duplicate`: push a copy of the top. No-op on
// underflow.
func (s *Stack) Duplicate() {
	top, ok := s.Top()
	if !ok {
		return
	}
	s.Push(new(big.Int).Set(top))
}

// Roll implements `roll` (spec §4.4, §9's fixed sign convention):
// pop rolls, then depth; rotate the top `depth` elements right by
// `rolls mod depth` positions (positive rolls bury the top deeper),
// or left for negative rolls. No-op (both pops reverted) if depth is
// negative, non-representable as int, or exceeds the remaining
// stack.
func (s *Stack) Roll() {
	rolls, ok := s.pop()
	if !ok {
		return
	}
	depth, ok := s.pop()
	if !ok {
		s.Push(rolls)
		return
	}

	if depth.Sign() < 0 || !depth.IsInt64() || depth.Int64() > int64(len(s.items)) {
		s.Push(depth)
		s.Push(rolls)
		return
	}

	d := int(depth.Int64())
	if d == 0 {
		return
	}

	// big.Int.Mod computes the Euclidean modulus (always in [0, d)),
	// so a rotate-right by this amount already folds negative rolls
	// into the correct rotate-left distance.
	r := new(big.Int).Mod(rolls, big.NewInt(int64(d))).Int64()

	window := s.items[len(s.items)-d:]
	rotateRight(window, int(r))
}

// rotateRight rotates window in place so that the last n elements
// move to the front (n is already normalized to [0, len(window))).
func rotateRight(window []*big.Int, n int) {
	if n == 0 || len(window) == 0 {
		return
	}
	rotated := make([]*big.Int, len(window))
	copy(rotated, window[len(window)-n:])
	copy(rotated[n:], window[:len(window)-n])
	copy(window, rotated)
}
