package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	scoreExact          = 100
	scorePrefix         = 90
	scoreSubstring      = 70
	scoreSubsequence    = 40
	bonusConsecutive    = 5
	bonusWordBoundary   = 10
	maxSubsequenceScore = 65
)

// Score rates how well text matches query, case-insensitively, on a 0..100
// scale. The first matching rule wins: equality, prefix, substring, then an
// in-order subsequence scored from 40 with bonuses, capped at 65.
func Score(query, text string) int {
	q := foldForMatch(query)
	t := foldForMatch(text)

	switch {
	case t == q:
		return scoreExact
	case strings.HasPrefix(t, q):
		return scorePrefix
	case strings.Contains(t, q):
		return scoreSubstring
	}

	queryRunes := []rune(q)
	if len(queryRunes) == 0 {
		return 0
	}

	matched := 0
	lastMatch := -1
	consecutive := 0
	pos := 0
	for _, r := range t {
		if matched < len(queryRunes) && r == queryRunes[matched] {
			if lastMatch >= 0 && pos == lastMatch+1 {
				consecutive++
			}
			lastMatch = pos
			matched++
		}
		pos++
	}
	if matched < len(queryRunes) {
		return 0
	}

	score := scoreSubsequence + consecutive*bonusConsecutive
	if anyWordStartsWith(t, queryRunes[0]) {
		score += bonusWordBoundary
	}
	if score > maxSubsequenceScore {
		score = maxSubsequenceScore
	}
	return score
}

func foldForMatch(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

func anyWordStartsWith(text string, first rune) bool {
	for _, word := range strings.FieldsFunc(text, unicode.IsSpace) {
		for _, r := range word {
			if r == first {
				return true
			}
			break
		}
	}
	return false
}
