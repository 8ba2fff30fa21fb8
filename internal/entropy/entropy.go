// Package entropy scores how random a token looks.
package entropy

import "math"

// Shannon returns the Shannon entropy of s in bits per byte, computed over the
// frequency of each byte value present. Strings shorter than two bytes have
// no measurable randomness and score exactly 0.
func Shannon(s string) float64 {
	if len(s) < 2 {
		return 0
	}

	var freq [256]int
	for i := 0; i < len(s); i++ {
		freq[s[i]]++
	}

	n := float64(len(s))
	h := 0.0
	for _, count := range freq {
		if count == 0 {
			continue
		}
		p := float64(count) / n
		h -= p * math.Log2(p)
	}
	if h <= 0 {
		return 0
	}
	return h
}

// MaxFor returns the highest entropy a string of length n can reach.
// Useful for sanity-checking a threshold against a minimum token length.
func MaxFor(n int) float64 {
	if n < 2 {
		return 0
	}
	if n > 256 {
		n = 256
	}
	return math.Log2(float64(n))
}
