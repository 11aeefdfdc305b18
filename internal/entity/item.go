package entity

// Strategy names one extraction algorithm.
type Strategy string

const (
	StrategyStructuredAPI    Strategy = "structured_api"
	StrategyFeed             Strategy = "feed"
	StrategyAppState         Strategy = "app_state"
	StrategyStructuredMarkup Strategy = "structured_markup"
	StrategyDOMHeuristic     Strategy = "dom_heuristic"
)

// ItemCandidate is an extracted record before deduplication.
type ItemCandidate struct {
	Title          string
	Link           string
	Image          string
	Price          string
	SourceStrategy Strategy
}

// Record drops the strategy tag.
func (c ItemCandidate) Record() ItemRecord {
	return ItemRecord{
		Title: c.Title,
		Link:  c.Link,
		Image: c.Image,
		Price: c.Price,
	}
}

// ItemRecord is the deduplicated output unit.
type ItemRecord struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Image string `json:"image"`
	Price string `json:"price"`
}
