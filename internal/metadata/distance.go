package metadata

import "unicode/utf8"

// maxEditRatio is the largest edit distance, relative to the longer string, at which a
// file stem and a title still count as the same work.
const maxEditRatio = 0.1

// editDistance is the Levenshtein distance between a and b, over runes.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return max(len(ra), len(rb))
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			sub := prev[j-1]
			if ra[i-1] != rb[j-1] {
				sub++
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// titleDistance returns the edit distance between two normalised strings of at least
// minFuzzyLen runes, and whether it is within maxEditRatio of the longer one.
func titleDistance(a, b string) (int, bool) {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if min(la, lb) < minFuzzyLen {
		return 0, false
	}
	d := editDistance(a, b)
	return d, float64(d) <= maxEditRatio*float64(max(la, lb))
}
