/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"math/bits"
)

// IsPowerOfTwo reports whether n is one of 1, 2, 4, 8, ...
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n. NextPowerOfTwo(0)
// is 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// ValidSize reports whether size is a power of two from MinSize to MaxSize.
func ValidSize(size int) bool {
	return size >= MinSize && size <= MaxSize && IsPowerOfTwo(size)
}

// SizeFor returns the number of slots a bracket needs to seat numEntrants
// when no size has been configured. A bracket always has at least 2 slots.
func SizeFor(numEntrants int) int {
	size := NextPowerOfTwo(numEntrants)
	if size < MinSize {
		size = MinSize
	}
	return size
}

// Rounds returns the number of rounds played in a bracket of the given size.
func Rounds(size int) int {
	if size <= 1 {
		return 0
	}
	return bits.Len(uint(size - 1))
}
