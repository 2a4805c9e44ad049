/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package odds

import (
	"context"
	"errors"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/bracketodds/bracket"
	"github.com/mikeb26/bracketodds/elo"
)

var ErrMalformedBracket = errors.New("bracket length must be a power of two of at least 2")

// Engine computes bracket win probabilities, filling the ranges of each
// round concurrently.
type Engine struct {
	pred    elo.Predictor
	workers int
	log     *logrus.Entry
}

type Option func(*Engine)

// WithWorkers bounds the number of ranges computed at once. n <= 0 means
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

func NewEngine(pred elo.Predictor, opts ...Option) *Engine {
	if pred == nil {
		pred = elo.Default
	}
	e := &Engine{
		pred: pred,
		log:  logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	e.log = e.log.WithField("component", "odds")

	return e
}

// Outcome is an entrant with its probability of winning the bracket.
type Outcome struct {
	Entrant     bracket.Entrant
	Probability float64
}

type Result struct {
	Bracket bracket.Bracket
	// Probabilities is indexed by slot; byes are 0.
	Probabilities []float64
}

// Outcomes lists the seated entrants in slot order.
func (r *Result) Outcomes() []Outcome {
	var ret []Outcome
	for i, s := range r.Bracket {
		if e, ok := s.Entrant(); ok {
			ret = append(ret, Outcome{Entrant: e, Probability: r.Probabilities[i]})
		}
	}
	return ret
}

// Total is the sum over all slots; 1 for any bracket with an entrant.
func (r *Result) Total() float64 {
	total := 0.0
	for _, p := range r.Probabilities {
		total += p
	}
	return total
}

// Compute returns the probabilities for every slot of b. The result is the
// same as Probabilities(b, pred); the only errors are a malformed bracket
// and ctx being done.
func (e *Engine) Compute(ctx context.Context, b bracket.Bracket) (*Result, error) {
	if err := checkBracket(b); err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"slots":   len(b),
		"byes":    b.Byes(),
		"rounds":  bracket.Rounds(len(b)),
		"workers": e.workers,
	}).Debug("computing win probabilities")

	cur := leafVector(b)
	for size := 2; size <= len(b); size *= 2 {
		next := make([]float64, len(b))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for start := 0; start < len(b); start += size {
			start := start
			size := size
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				mergeRange(b, e.pred, cur, next, start, size)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		e.log.WithFields(logrus.Fields{
			"rangeSize": size,
			"ranges":    len(b) / size,
		}).Trace("round filled")
		cur = next
	}

	res := &Result{Bracket: b, Probabilities: cur}
	e.log.WithField("total", res.Total()).Debug("win probabilities computed")

	return res, nil
}
