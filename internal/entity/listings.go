package entity

import "time"

// ListingsSnapshot is what the listings use case returns and caches for an
// organization: the extraction result plus where it came from.
type ListingsSnapshot struct {
	OrgID     string           `json:"org_id"`
	Source    DocumentKind     `json:"source"`
	SourceURL string           `json:"source_url"`
	Result    ExtractionResult `json:"result"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Clone returns a deep copy of the snapshot.
func (s ListingsSnapshot) Clone() ListingsSnapshot {
	out := s
	out.Result = s.Result.Clone()
	return out
}
