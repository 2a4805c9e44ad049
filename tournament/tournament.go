/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package tournament loads a tournament document into entrants, a descriptor
// and the seated bracket. Every way a document can be wrong is reported as a
// *LoadError; nothing here ends the process.
package tournament

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/mikeb26/bracketodds/bracket"
	"github.com/mikeb26/bracketodds/internal"
)

type Descriptor struct {
	Name      string
	Date      time.Time
	Structure Structure
	Size      int
}

type Tournament struct {
	Descriptor
	// Entrants are ordered by draw position.
	Entrants []bracket.Entrant
	Bracket  bracket.Bracket
}

type Loader struct {
	sources  *Sources
	validate *validator.Validate
	log      *logrus.Entry
}

type LoaderOption func(*Loader)

func WithSources(src *Sources) LoaderOption {
	return func(l *Loader) {
		if src != nil {
			l.sources = src
		}
	}
}

func WithLogger(log *logrus.Entry) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		sources:  &Sources{},
		validate: newValidator(),
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.WithField("component", "tournament")

	return l
}

// Load reads the document at location (a path, http(s):// URL or
// s3://bucket/key) and returns the seated tournament.
func Load(ctx context.Context, location string) (*Tournament, error) {
	return NewLoader().Load(ctx, location)
}

func (l *Loader) Load(ctx context.Context, location string) (*Tournament, error) {
	log := l.log.WithField("location", location)

	raw, err := l.sources.read(ctx, location)
	if err != nil {
		return nil, &LoadError{Location: location, Err: err}
	}
	format := raw.format
	if format == FormatUnknown {
		format = FormatTOML
	}
	log.WithFields(logrus.Fields{
		"format": format,
		"bytes":  len(raw.data),
	}).Debug("read tournament document")

	t, err := l.Parse(raw.data, format)
	if err != nil {
		return nil, &LoadError{Location: location, Err: err}
	}

	log.WithFields(logrus.Fields{
		"name":      t.Name,
		"players":   len(t.Entrants),
		"size":      t.Size,
		"structure": t.Structure,
	}).Info("loaded tournament")

	return t, nil
}

// Parse decodes, validates and seats a document already in memory.
func (l *Loader) Parse(data []byte, format Format) (*Tournament, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(l.validate, doc); err != nil {
		return nil, err
	}

	desc, err := describe(doc)
	if err != nil {
		return nil, err
	}

	entrants := make([]bracket.Entrant, 0, len(doc.Players))
	for name, p := range doc.Players {
		entrants = append(entrants, bracket.Entrant{
			Name:   name,
			Rating: *p.Elo,
			Draw:   *p.Draw,
		})
	}
	if desc.Size == 0 {
		desc.Size = bracket.SizeFor(len(entrants))
	}

	b, err := bracket.Build(entrants, desc.Size)
	if err != nil {
		return nil, err
	}

	return &Tournament{Descriptor: desc, Entrants: b.Occupants(), Bracket: b}, nil
}

// describe resolves the optional Tournament section. Size is left 0 when it
// is not configured.
func describe(doc *document) (Descriptor, error) {
	desc := Descriptor{Structure: SingleElimination}
	rec := doc.Tournament
	if rec == nil {
		return desc, nil
	}

	desc.Name = rec.Name
	structure, err := ParseStructure(rec.Structure)
	if err != nil {
		return desc, err
	}
	if structure != SingleElimination {
		return desc, fmt.Errorf("%w: %v", ErrUnsupportedStructure, structure)
	}
	desc.Structure = structure

	desc.Date, err = internal.ParseDateOrZero(rec.Date)
	if err != nil {
		return desc, fmt.Errorf("%w: %q: %v", ErrInvalidDate, rec.Date, err)
	}
	if rec.Size != nil {
		desc.Size = *rec.Size
	}

	return desc, nil
}
