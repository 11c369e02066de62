package cli

import (
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// maxSuggestDistance is the largest edit distance still offered as a
// suggestion. Anything further is probably not a typo.
const maxSuggestDistance = 3

// suggest returns the candidate closest to input by edit distance, or ""
// when nothing is close enough to be a plausible typo.
func suggest(input string, candidates []string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, c := range candidates {
		d := levenshtein.DistanceForStrings([]rune(input), []rune(c), levenshtein.DefaultOptions)
		if d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// didYouMean formats a suggestion hint for an unknown value, or "" when no
// candidate is close.
func didYouMean(input string, candidates []string) string {
	s := suggest(input, candidates)
	if s == "" {
		return ""
	}
	return "did you mean '" + s + "'?"
}
