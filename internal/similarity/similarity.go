// Package similarity computes normalized string similarity between
// free-text transaction labels.
package similarity

import "strings"

// Score returns a similarity ratio in [0, 1] between two labels, based on
// the longest common subsequence of their characters:
//
//	score = 2 * len(lcs(a, b)) / (len(a) + len(b))
//
// Inputs are compared case-insensitively with surrounding whitespace
// trimmed. Either input being empty after trimming scores 0.0. The score
// is symmetric: Score(a, b) == Score(b, a).
func Score(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	ra := []rune(a)
	rb := []rune(b)
	common := lcsLength(ra, rb)

	return 2.0 * float64(common) / float64(len(ra)+len(rb))
}

// lcsLength computes the longest-common-subsequence length with a
// two-row dynamic program. O(len(a)*len(b)) time, O(min-row) space;
// transaction titles are short so this is plenty.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
