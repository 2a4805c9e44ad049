/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package bracket seats entrants into a power-of-two single elimination draw,
// filling unused positions with byes.
package bracket

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	MinSize = 2
	// MaxSize bounds the draw; the engine does work quadratic in the size.
	MaxSize = 1 << 12
)

var (
	ErrNoEntrants      = errors.New("no entrants")
	ErrInvalidSize     = errors.New("bracket size must be a power of two from 2 to 4096")
	ErrTooManyEntrants = errors.New("more entrants than bracket slots")
	ErrDrawOutOfRange  = errors.New("draw position out of range")
	ErrDuplicateDraw   = errors.New("duplicate draw position")
)

// Entrant is a player seated in the draw. Draw is the 1-based bracket
// position.
type Entrant struct {
	Name   string
	Rating int
	Draw   int
}

func (e Entrant) String() string {
	return fmt.Sprintf("%v(%v)", e.Name, e.Rating)
}

// Slot is a single bracket position; it is either a bye or holds exactly one
// entrant.
type Slot struct {
	entrant  Entrant
	occupied bool
}

// Empty returns a bye slot.
func Empty() Slot {
	return Slot{}
}

// Occupied returns a slot holding e.
func Occupied(e Entrant) Slot {
	return Slot{entrant: e, occupied: true}
}

func (s Slot) IsEmpty() bool {
	return !s.occupied
}

// Entrant returns the slot's occupant and false for a bye.
func (s Slot) Entrant() (Entrant, bool) {
	return s.entrant, s.occupied
}

func (s Slot) String() string {
	if !s.occupied {
		return "BYE"
	}
	return s.entrant.String()
}

// Bracket is the ordered draw. Slot i meets slot i^1 in the first round and
// the winner of each half of any power-of-two aligned range meets the winner
// of the other half.
type Bracket []Slot

func (b Bracket) Len() int {
	return len(b)
}

// Halves splits the bracket into the two sub-brackets whose winners meet in
// the final.
func (b Bracket) Halves() (Bracket, Bracket) {
	k := len(b) / 2
	return b[:k], b[k:]
}

// Occupants returns the seated entrants in slot order.
func (b Bracket) Occupants() []Entrant {
	var ret []Entrant
	for _, s := range b {
		if e, ok := s.Entrant(); ok {
			ret = append(ret, e)
		}
	}
	return ret
}

// Byes returns the number of empty slots.
func (b Bracket) Byes() int {
	n := 0
	for _, s := range b {
		if s.IsEmpty() {
			n++
		}
	}
	return n
}

func (b Bracket) String() string {
	parts := make([]string, len(b))
	for i, s := range b {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Build seats each entrant at slot Draw-1 of a bracket with size slots. A
// size of 0 selects SizeFor(len(entrants)). Out of range and colliding draw
// positions are reported for every offending entrant rather than silently
// overwritten.
func Build(entrants []Entrant, size int) (Bracket, error) {
	if len(entrants) == 0 {
		return nil, ErrNoEntrants
	}
	if size == 0 {
		size = SizeFor(len(entrants))
	}
	if !ValidSize(size) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSize, size)
	}
	if len(entrants) > size {
		return nil, fmt.Errorf("%w: %v entrants for %v slots",
			ErrTooManyEntrants, len(entrants), size)
	}

	// seat in a stable order so collision reports do not depend on the
	// caller's ordering
	sorted := append([]Entrant(nil), entrants...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Draw != sorted[j].Draw {
			return sorted[i].Draw < sorted[j].Draw
		}
		return sorted[i].Name < sorted[j].Name
	})

	b := make(Bracket, size)
	var errs []error
	for _, e := range sorted {
		idx := e.Draw - 1
		if idx < 0 || idx >= size {
			errs = append(errs, fmt.Errorf("%w: %v has draw %v but the bracket has %v slots",
				ErrDrawOutOfRange, e.Name, e.Draw, size))
			continue
		}
		if prev, taken := b[idx].Entrant(); taken {
			errs = append(errs, fmt.Errorf("%w: %v and %v both have draw %v",
				ErrDuplicateDraw, prev.Name, e.Name, e.Draw))
			continue
		}
		b[idx] = Occupied(e)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return b, nil
}
