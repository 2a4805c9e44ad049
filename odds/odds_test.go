/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package odds

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeb26/bracketodds/bracket"
	"github.com/mikeb26/bracketodds/elo"
)

const tolerance = 1e-5

func mustBuild(t *testing.T, entrants []bracket.Entrant, size int) bracket.Bracket {
	t.Helper()
	b, err := bracket.Build(entrants, size)
	require.NoError(t, err)
	return b
}

// naiveWinProbability recurses over both halves for every query without
// sharing any sub-results.
func naiveWinProbability(i int, b bracket.Bracket, pred elo.Predictor) float64 {
	if b[i].IsEmpty() {
		return 0.0
	}
	if len(b) == 2 {
		return Contest(b[i], b[1-i], pred)
	}
	k := len(b) / 2
	own, other, local := b[:k], b[k:], i
	if i >= k {
		own, other, local = b[k:], b[:k], i-k
	}
	if !hasEntrant(other) {
		return naiveWinProbability(local, own, pred)
	}
	sum := 0.0
	for j := range other {
		sum += Contest(b[i], other[j], pred) * naiveWinProbability(j, other, pred)
	}
	return naiveWinProbability(local, own, pred) * sum
}

func randomBracket(rng *rand.Rand, size int, fill float64) bracket.Bracket {
	var entrants []bracket.Entrant
	for i := 0; i < size; i++ {
		if rng.Float64() > fill {
			continue
		}
		entrants = append(entrants, bracket.Entrant{
			Name:   string(rune('A'+i%26)) + string(rune('a'+i/26)),
			Rating: 1000 + rng.Intn(1500),
			Draw:   i + 1,
		})
	}
	if len(entrants) == 0 {
		entrants = append(entrants, bracket.Entrant{Name: "Solo", Rating: 1500,
			Draw: 1 + rng.Intn(size)})
	}
	b, _ := bracket.Build(entrants, size)
	return b
}

func sum(v []float64) float64 {
	total := 0.0
	for _, p := range v {
		total += p
	}
	return total
}

func TestContest(t *testing.T) {
	a := bracket.Occupied(bracket.Entrant{Name: "A", Rating: 1600, Draw: 1})
	b := bracket.Occupied(bracket.Entrant{Name: "B", Rating: 1400, Draw: 2})
	bye := bracket.Empty()

	assert.Equal(t, 1.0, Contest(a, bye, elo.Default))
	assert.Equal(t, 0.0, Contest(bye, a, elo.Default))
	assert.Equal(t, 0.0, Contest(bye, bye, elo.Default))
	assert.InDelta(t, 0.7597, Contest(a, b, elo.Default), 1e-4)
	assert.InDelta(t, 0.2403, Contest(b, a, elo.Default), 1e-4)
}

func TestTwoEntrants(t *testing.T) {
	b := mustBuild(t, []bracket.Entrant{
		{Name: "Fragga", Rating: 1600, Draw: 1},
		{Name: "Ser", Rating: 1400, Draw: 2},
	}, 0)

	p0 := WinProbability(0, b, elo.Default)
	p1 := WinProbability(1, b, elo.Default)
	assert.InDelta(t, 0.76, p0, 0.005)
	assert.InDelta(t, 0.24, p1, 0.005)
	assert.InDelta(t, 1.0, p0+p1, tolerance)
}

func TestFourEntrantsWithBye(t *testing.T) {
	b := mustBuild(t, []bracket.Entrant{
		{Name: "Ettu", Rating: 1500, Draw: 1},
		{Name: "Fragga", Rating: 1700, Draw: 2},
		{Name: "Sujoy", Rating: 1550, Draw: 4},
	}, 0)
	require.Equal(t, 4, b.Len())
	require.True(t, b[2].IsEmpty())

	// Sujoy is paired with the bye in round one
	assert.Equal(t, 1.0, Contest(b[3], b[2], elo.Default))
	_, bottom := b.Halves()
	assert.Equal(t, 1.0, WinProbability(1, bottom, elo.Default))
	assert.Equal(t, 0.0, WinProbability(2, b, elo.Default))

	probs := Probabilities(b, elo.Default)
	assert.InDelta(t, 1.0, probs[0]+probs[1]+probs[3], tolerance)
	assert.Equal(t, 0.0, probs[2])

	// Sujoy only has to win the final
	fragga := elo.Default.WinProbability(1700, 1500)
	wantSujoy := fragga*elo.Default.WinProbability(1550, 1700) +
		(1-fragga)*elo.Default.WinProbability(1550, 1500)
	assert.InDelta(t, wantSujoy, probs[3], 1e-12)
}

func TestEmptyHalfIsWalkover(t *testing.T) {
	b := mustBuild(t, []bracket.Entrant{
		{Name: "A", Rating: 1500, Draw: 1},
		{Name: "B", Rating: 1300, Draw: 2},
	}, 4)

	probs := Probabilities(b, elo.Default)
	assert.InDelta(t, elo.Default.WinProbability(1500, 1300), probs[0], 1e-12)
	assert.InDelta(t, 1.0, sum(probs), tolerance)
}

func TestSingleEntrantWins(t *testing.T) {
	b := mustBuild(t, []bracket.Entrant{{Name: "Solo", Rating: 1200, Draw: 6}}, 8)
	assert.Equal(t, 1.0, WinProbability(5, b, elo.Default))
}

func TestHigherRatedPredictor(t *testing.T) {
	b := mustBuild(t, []bracket.Entrant{
		{Name: "A", Rating: 1500, Draw: 1},
		{Name: "B", Rating: 2100, Draw: 2},
		{Name: "C", Rating: 1700, Draw: 3},
		{Name: "D", Rating: 1900, Draw: 4},
		{Name: "E", Rating: 1000, Draw: 5},
	}, 0)

	probs := Probabilities(b, elo.HigherRated{})
	assert.Equal(t, []float64{0, 1, 0, 0, 0, 0, 0, 0}, probs)
}

func TestMatchesNaiveRecursion(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, size := range []int{2, 4, 8, 16, 32} {
		for _, fill := range []float64{1.0, 0.75, 0.4} {
			b := randomBracket(rng, size, fill)
			probs := Probabilities(b, elo.Default)
			for i := range b {
				want := naiveWinProbability(i, b, elo.Default)
				if math.Abs(probs[i]-want) > 1e-9 {
					t.Errorf("size %v slot %v: got %v want %v (%v)", size, i,
						probs[i], want, b)
				}
			}
		}
	}
}

func TestCompleteness(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	preds := []elo.Predictor{elo.Default, elo.Elo{Scale: 150}, elo.HigherRated{}}
	for _, size := range []int{2, 4, 8, 16, 64, 256} {
		for _, fill := range []float64{1.0, 0.9, 0.5, 0.1} {
			for _, pred := range preds {
				b := randomBracket(rng, size, fill)
				total := sum(Probabilities(b, pred))
				if math.Abs(total-1.0) > tolerance {
					t.Errorf("size %v fill %v %T: total %v; want 1", size, fill,
						pred, total)
				}
			}
		}
	}
}

func TestProbabilitiesPanicsOnMalformedBracket(t *testing.T) {
	assert.Panics(t, func() { Probabilities(make(bracket.Bracket, 3), elo.Default) })
	assert.Panics(t, func() { Probabilities(make(bracket.Bracket, 1), elo.Default) })
	assert.Panics(t, func() {
		WinProbability(4, make(bracket.Bracket, 4), elo.Default)
	})
}

func TestEngineMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for _, workers := range []int{0, 1, 3, 16} {
		engine := NewEngine(elo.Default, WithWorkers(workers))
		for _, size := range []int{2, 8, 128} {
			b := randomBracket(rng, size, 0.8)
			res, err := engine.Compute(context.Background(), b)
			require.NoError(t, err)
			assert.Equal(t, Probabilities(b, elo.Default), res.Probabilities)
			assert.InDelta(t, 1.0, res.Total(), tolerance)
		}
	}
}

func TestEngineOutcomes(t *testing.T) {
	b := mustBuild(t, []bracket.Entrant{
		{Name: "Sujoy", Rating: 1550, Draw: 4},
		{Name: "Ettu", Rating: 1500, Draw: 1},
		{Name: "Fragga", Rating: 1700, Draw: 2},
	}, 0)

	res, err := NewEngine(nil).Compute(context.Background(), b)
	require.NoError(t, err)

	outcomes := res.Outcomes()
	require.Len(t, outcomes, 3)
	assert.Equal(t, "Ettu", outcomes[0].Entrant.Name)
	assert.Equal(t, "Fragga", outcomes[1].Entrant.Name)
	assert.Equal(t, "Sujoy", outcomes[2].Entrant.Name)
	total := 0.0
	for _, o := range outcomes {
		total += o.Probability
	}
	assert.InDelta(t, 1.0, total, tolerance)
}

func TestEngineErrors(t *testing.T) {
	engine := NewEngine(elo.Default)

	_, err := engine.Compute(context.Background(), make(bracket.Bracket, 6))
	assert.ErrorIs(t, err, ErrMalformedBracket)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := randomBracket(rand.New(rand.NewSource(1)), 16, 1.0)
	_, err = engine.Compute(ctx, b)
	assert.ErrorIs(t, err, context.Canceled)
}
