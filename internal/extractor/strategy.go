package extractor

import "github.com/user/listings-service/internal/entity"

// Extractor is one extraction strategy. Extract never fails: a document it
// cannot parse yields no candidates so the next strategy gets a turn.
type Extractor interface {
	Strategy() entity.Strategy
	Kind() entity.DocumentKind
	Extract(doc entity.RawDocument) []entity.ItemCandidate
}

// DefaultExtractors returns the strategies in priority order.
func DefaultExtractors(src Source) []Extractor {
	return []Extractor{
		NewStructuredAPIExtractor(src),
		NewFeedExtractor(src),
		NewAppStateExtractor(src),
		NewStructuredMarkupExtractor(src),
		NewDOMHeuristicExtractor(src),
	}
}
