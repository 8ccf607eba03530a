// Package enricher provides AI-powered keyword extraction from profile
// descriptions. It includes adapters for Claude (Anthropic) and OpenAI APIs,
// both routed through a shared concurrency- and rate-limited caller so the
// external call budget holds regardless of who calls.
package enricher

import (
	"context"
	"errors"
	"strings"
)

// ErrEnrichmentUnavailable indicates the external enrichment call failed or
// returned output the client could not parse. Callers decide whether to
// retry; the extractors themselves never do.
var ErrEnrichmentUnavailable = errors.New("enrichment unavailable")

// Extractor derives interest keywords from a free-text profile description.
type Extractor interface {
	// ExtractKeywords returns lowercased interest phrases for the given
	// description. An empty description yields an empty phrase list without
	// an API call.
	ExtractKeywords(ctx context.Context, description string) ([]string, error)
}

// The prompt is a fixed instruction plus one worked example. The example
// anchors the output format: plain phrases, one per line, suitable for exact
// substring matching against post text.
const (
	systemPreamble = "You are an assistant that helps understand user preferences."

	instructionPrompt = "## Task\n\n" +
		"Act as the intelligence inside of a custom feed algorithm for social media. " +
		"You will receive a user's profile and an example post, and you'll output a " +
		"bullet list of words and phrases that can be used with exact string matching " +
		"to identify messages relevant to this user's interest. Do not output phrases " +
		"that are unlikely to occur in real posts, we are only interested in " +
		"identifying real posts. Do not output very common words that would fail to " +
		"be good selectors."

	exampleProfile = "User: CEO of Bluesky, steward of AT Protocol. " +
		"Let's build a federated republic, starting with this server. " +
		"Nature, knowledge, technology. I like to think of a cybernetic forest."

	exampleKeywords = "Bluesky\nAT Protocol\nFederated republic\nCybernetic\n" +
		"Digital stewardship\nServer management\nFederated system\nTechnology trend\n" +
		"Knowledge sharing\nCybernetics\nFuture of tech\nSustainable tech\nGreen tech\n" +
		"Innovation\nDecentralized network\nDigital governance\nDigital ecosystems\n" +
		"Tech leadership"
)

// ParseKeywords turns the model's raw text output into the normalized phrase
// list: lowercase, one phrase per line, phrases of two characters or fewer
// discarded as too weak to select anything.
func ParseKeywords(raw string) []string {
	lines := strings.Split(strings.ToLower(raw), "\n")
	phrases := make([]string, 0, len(lines))
	for _, line := range lines {
		phrase := strings.TrimSpace(line)
		if len(phrase) <= 2 {
			continue
		}
		phrases = append(phrases, phrase)
	}
	return phrases
}
