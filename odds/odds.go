/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package odds computes each entrant's probability of winning a single
// elimination bracket.
//
// The probability that slot i wins an aligned range of 2k slots is the
// probability it wins its own half times the expected result of the final
// against the other half:
//
//	P(i, range) = P(i, own) * Σj Contest(i, j) * P(j, other)
//
// Every range's vector is computed exactly once, bottom-up, and shared by all
// the slots of the paired half.
package odds

import (
	"fmt"

	"github.com/mikeb26/bracketodds/bracket"
	"github.com/mikeb26/bracketodds/elo"
)

// Contest is the probability that p beats q head to head. A bye never
// advances and anyone advances past a bye.
func Contest(p bracket.Slot, q bracket.Slot, pred elo.Predictor) float64 {
	pe, ok := p.Entrant()
	if !ok {
		return 0.0
	}
	qe, ok := q.Entrant()
	if !ok {
		return 1.0
	}
	return pred.WinProbability(pe.Rating, qe.Rating)
}

// WinProbability returns the probability that the occupant of slot wins the
// whole bracket; 0 for a bye. It panics if slot is out of range.
func WinProbability(slot int, b bracket.Bracket, pred elo.Predictor) float64 {
	if slot < 0 || slot >= len(b) {
		panic(fmt.Sprintf("odds: slot %v out of range for bracket of %v", slot,
			len(b)))
	}
	if b[slot].IsEmpty() {
		return 0.0
	}
	return Probabilities(b, pred)[slot]
}

// Probabilities returns, for every slot, the probability that its occupant
// wins the bracket. It panics if b is not a power-of-two length >= 2.
func Probabilities(b bracket.Bracket, pred elo.Predictor) []float64 {
	if err := checkBracket(b); err != nil {
		panic("odds: " + err.Error())
	}

	cur := leafVector(b)
	for size := 2; size <= len(b); size *= 2 {
		next := make([]float64, len(b))
		for start := 0; start < len(b); start += size {
			mergeRange(b, pred, cur, next, start, size)
		}
		cur = next
	}
	return cur
}

func checkBracket(b bracket.Bracket) error {
	if len(b) < bracket.MinSize || !bracket.IsPowerOfTwo(len(b)) {
		return fmt.Errorf("%w: %v slots", ErrMalformedBracket, len(b))
	}
	return nil
}

// leafVector is the probability of winning a range of one slot.
func leafVector(b bracket.Bracket) []float64 {
	v := make([]float64, len(b))
	for i, s := range b {
		if !s.IsEmpty() {
			v[i] = 1.0
		}
	}
	return v
}

// mergeRange fills next[start:start+size] from the half-range vectors in cur.
// Each call writes only its own range, so calls for distinct ranges of the
// same size may run concurrently.
func mergeRange(b bracket.Bracket, pred elo.Predictor, cur []float64,
	next []float64, start int, size int) {

	half := size / 2
	mid := start + half
	end := start + size
	top, bottom := b[start:end].Halves()
	topLive := hasEntrant(top)
	bottomLive := hasEntrant(bottom)

	for i := start; i < mid; i++ {
		next[i] = cur[i] * versus(b, pred, cur, i, mid, end, bottomLive)
	}
	for i := mid; i < end; i++ {
		next[i] = cur[i] * versus(b, pred, cur, i, start, mid, topLive)
	}
}

// versus is the probability that slot i wins a final against whoever comes
// out of b[lo:hi]. A half with nobody in it is a walkover.
func versus(b bracket.Bracket, pred elo.Predictor, cur []float64, i int,
	lo int, hi int, live bool) float64 {

	if b[i].IsEmpty() {
		return 0.0
	}
	if !live {
		return 1.0
	}

	sum := 0.0
	for j := lo; j < hi; j++ {
		if cur[j] == 0.0 {
			continue
		}
		sum += Contest(b[i], b[j], pred) * cur[j]
	}
	return sum
}

func hasEntrant(b bracket.Bracket) bool {
	for _, s := range b {
		if !s.IsEmpty() {
			return true
		}
	}
	return false
}
