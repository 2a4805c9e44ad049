/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tournament

import (
	"fmt"
	"strings"
)

type Structure int

const (
	SingleElimination Structure = iota
	DoubleElimination
)

func (s Structure) String() string {
	switch s {
	case SingleElimination:
		return "Single Elimination"
	case DoubleElimination:
		return "Double Elimination"
	}
	return "?"
}

// ParseStructure accepts "Single Elimination" and "Double Elimination" in any
// case, with spaces, dashes or underscores between the words. An empty
// string selects single elimination.
func ParseStructure(s string) (Structure, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	norm = strings.Join(strings.Fields(norm), " ")

	switch norm {
	case "", "single elimination":
		return SingleElimination, nil
	case "double elimination":
		return DoubleElimination, nil
	}
	return SingleElimination, fmt.Errorf("%w: %q", ErrUnknownStructure, s)
}
