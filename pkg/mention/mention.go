// Package mention scans query text for candidate entity-name spans using
// surface patterns only. It never touches the graph store; resolution of
// spans to stored entities happens in pkg/resolve.
package mention

import (
	"regexp"
	"strings"

	"github.com/soundprediction/graphquery/pkg/types"
)

// MinQueryLength is the shortest query text the engine accepts.
const MinQueryLength = 3

// minSpanLength filters out fragments too short to resolve meaningfully.
const minSpanLength = 3

var (
	capitalizedRun = regexp.MustCompile(`[A-Z][A-Za-z0-9&.'-]*(?:\s+[A-Z][A-Za-z0-9&.'-]*)*`)
	quotedSpan     = regexp.MustCompile(`"([^"]+)"`)

	// Indicator phrases surface a proper noun adjacent to a type word, e.g.
	// "company Acme" or "Acme Corp company".
	indicatorLeading  = regexp.MustCompile(`(?:company|corporation|organization|firm|person|product)\s+([A-Z][A-Za-z0-9&.'-]*(?:\s+[A-Z][A-Za-z0-9&.'-]*)*)`)
	indicatorTrailing = regexp.MustCompile(`([A-Z][A-Za-z0-9&.'-]*(?:\s+[A-Z][A-Za-z0-9&.'-]*)*)\s+(?:company|corporation|organization|firm)`)
)

// stopWords are words that start sentences or questions capitalized without
// being part of an entity name. Runs are stripped of leading stop words so
// "What partnerships exist between Acme Corp..." yields "Acme Corp", not
// "What".
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "can": {}, "could": {},
	"did": {}, "do": {}, "does": {}, "explain": {}, "find": {}, "how": {},
	"i": {}, "in": {}, "is": {}, "it": {}, "list": {}, "of": {}, "on": {},
	"show": {}, "tell": {}, "the": {}, "this": {}, "to": {}, "was": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"why": {}, "will": {}, "would": {},
}

// Extractor detects candidate entity-name spans in free-form query text.
type Extractor struct{}

// NewExtractor creates a new mention extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the deduplicated candidate spans found in query, in
// discovery order. Returns types.ErrInvalidQuery when the text is shorter
// than MinQueryLength. An empty span set is not an error: a syntactically
// valid query may contain no recognizable proper nouns.
func (e *Extractor) Extract(query string) ([]string, error) {
	if len(strings.TrimSpace(query)) < MinQueryLength {
		return nil, types.ErrInvalidQuery
	}

	var spans []string
	seen := make(map[string]struct{})

	add := func(span string) {
		span = strings.TrimSpace(span)
		if len(span) < minSpanLength {
			return
		}
		key := strings.ToLower(span)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		spans = append(spans, span)
	}

	for _, run := range capitalizedRun.FindAllString(query, -1) {
		add(stripLeadingStopWords(run))
	}
	for _, m := range quotedSpan.FindAllStringSubmatch(query, -1) {
		add(m[1])
	}
	for _, m := range indicatorLeading.FindAllStringSubmatch(query, -1) {
		add(stripLeadingStopWords(m[1]))
	}
	for _, m := range indicatorTrailing.FindAllStringSubmatch(query, -1) {
		add(stripLeadingStopWords(m[1]))
	}

	return spans, nil
}

// stripLeadingStopWords drops capitalized function words from the front of a
// run. The remainder keeps its original casing.
func stripLeadingStopWords(run string) string {
	words := strings.Fields(run)
	for len(words) > 0 {
		if _, stop := stopWords[strings.ToLower(words[0])]; !stop {
			break
		}
		words = words[1:]
	}
	return strings.Join(words, " ")
}
