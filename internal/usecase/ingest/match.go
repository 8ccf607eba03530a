package ingest

import "strings"

// MatchesKeywords reports whether text matches a newline-separated keyword
// list. Each line is a phrase; a phrase matches when every one of its
// whitespace-separated tokens appears as a substring of the text. The text
// matches when at least one phrase matches.
//
// Both sides are expected to be lowercased already: keyword lists are stored
// lowercased by the enrichment pipeline and post text is lowercased during
// classification.
func MatchesKeywords(keywords, text string) bool {
	for _, phrase := range strings.Split(keywords, "\n") {
		tokens := strings.Fields(phrase)
		if len(tokens) == 0 {
			continue
		}
		if phraseMatches(tokens, text) {
			return true
		}
	}
	return false
}

func phraseMatches(tokens []string, text string) bool {
	for _, token := range tokens {
		if !strings.Contains(text, token) {
			return false
		}
	}
	return true
}
