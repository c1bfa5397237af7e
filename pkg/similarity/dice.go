// Package similarity scores how alike two strings are.
package similarity

// Dice returns the Sørensen–Dice coefficient of the character bigram
// multisets of a and b, in [0, 1].
//
// Bigrams are overlapping pairs of runes, whitespace included. Identical
// non-empty strings score 1. Two empty strings score 0, as does any pair
// where one side has fewer than two runes and the strings differ.
func Dice(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	counts := make(map[[2]rune]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		counts[[2]rune{ra[i], ra[i+1]}]++
	}

	shared := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := [2]rune{rb[i], rb[i+1]}
		if counts[bg] > 0 {
			counts[bg]--
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(ra)-1+len(rb)-1)
}
