package entity

// ErrorKind classifies why an extraction or fetch did not produce items.
type ErrorKind string

const (
	ErrorFetchFailure      ErrorKind = "fetch_failure"
	ErrorNoStrategyMatched ErrorKind = "no_strategy_matched"
	ErrorConfiguration     ErrorKind = "configuration"
)

// ErrorInfo describes a failed extraction. Attempted lists the strategies
// that ran, in the order they ran.
type ErrorInfo struct {
	Kind           ErrorKind  `json:"kind"`
	Message        string     `json:"message"`
	Attempted      []Strategy `json:"attempted,omitempty"`
	UpstreamStatus int        `json:"upstream_status,omitempty"`
}

// ExtractionResult is the read-only outcome of one extraction run.
type ExtractionResult struct {
	OK           bool         `json:"ok"`
	Items        []ItemRecord `json:"items"`
	StrategyUsed *Strategy    `json:"strategy_used"`
	Error        *ErrorInfo   `json:"error"`
}

// Clone returns a deep copy so cached results can be handed out without
// sharing backing arrays.
func (r ExtractionResult) Clone() ExtractionResult {
	out := ExtractionResult{OK: r.OK}
	if r.Items != nil {
		out.Items = make([]ItemRecord, len(r.Items))
		copy(out.Items, r.Items)
	}
	if r.StrategyUsed != nil {
		s := *r.StrategyUsed
		out.StrategyUsed = &s
	}
	if r.Error != nil {
		e := *r.Error
		if r.Error.Attempted != nil {
			e.Attempted = append([]Strategy(nil), r.Error.Attempted...)
		}
		out.Error = &e
	}
	return out
}
