/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tournament

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSize          = errors.New("tournament size must be a power of two from 2 to 4096")
	ErrUnknownStructure     = errors.New("unrecognized tournament structure")
	ErrUnsupportedStructure = errors.New("tournament structure is not supported")
	ErrInvalidDate          = errors.New("unrecognized tournament date")
	ErrNoPlayers            = errors.New("no players")
	ErrMissingField         = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrMalformed            = errors.New("malformed tournament document")
	ErrUnknownFormat        = errors.New("unknown document format")
)

// LoadError is returned for every failure to turn a location into a
// tournament: unreadable sources, malformed documents, invalid
// configuration and draw positions that do not fit the bracket.
type LoadError struct {
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading tournament %v: %v", e.Location, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
