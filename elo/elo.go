/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package elo converts a pair of ratings into the probability that one side
// beats the other.
package elo

import (
	"math"
)

const DefaultScale = 400.0

// Predictor returns the probability that a player rated ratingA beats a
// player rated ratingB. Implementations must satisfy
// WinProbability(a, b) + WinProbability(b, a) == 1.
type Predictor interface {
	WinProbability(ratingA int, ratingB int) float64
}

// PredictorFunc adapts an ordinary function to a Predictor.
type PredictorFunc func(ratingA int, ratingB int) float64

func (f PredictorFunc) WinProbability(ratingA int, ratingB int) float64 {
	return f(ratingA, ratingB)
}

// Elo is the standard logistic expectation. A player rated Scale points
// higher than the opponent is expected to win ten times as often.
type Elo struct {
	Scale float64
}

var Default = Elo{Scale: DefaultScale}

func (e Elo) WinProbability(ratingA int, ratingB int) float64 {
	if ratingA == ratingB {
		return 0.5
	}
	scale := e.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	return expectedScore(float64(ratingA), float64(ratingB), scale)
}

func expectedScore(myRating float64, oppRating float64, scale float64) float64 {
	// 1/(exp(ln(10)*((opp-my)/scale))+1) == 1/(10^((opp-my)/scale)+1)
	exp := math.Pow(10, (oppRating-myRating)/scale)
	return 1.0 / (exp + 1.0)
}

// HigherRated is a deterministic predictor: the higher rated player always
// wins and equal ratings are a coin flip.
type HigherRated struct{}

func (HigherRated) WinProbability(ratingA int, ratingB int) float64 {
	switch {
	case ratingA > ratingB:
		return 1.0
	case ratingA < ratingB:
		return 0.0
	}
	return 0.5
}
