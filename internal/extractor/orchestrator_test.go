package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/listings-service/internal/entity"
)

type stubExtractor struct {
	strategy entity.Strategy
	kind     entity.DocumentKind
	extract  func(entity.RawDocument) []entity.ItemCandidate
}

func (s stubExtractor) Strategy() entity.Strategy { return s.strategy }
func (s stubExtractor) Kind() entity.DocumentKind { return s.kind }
func (s stubExtractor) Extract(doc entity.RawDocument) []entity.ItemCandidate {
	return s.extract(doc)
}

func newTestOrchestrator(t *testing.T, extractors ...Extractor) *Orchestrator {
	return NewOrchestrator(DefaultSource(), zaptest.NewLogger(t), extractors...)
}

func TestDeduplicate_KeepsFirstOccurrence(t *testing.T) {
	a := entity.ItemCandidate{Title: "A", Link: "https://www.finn.no/car/used/ad.html?finnkode=1"}
	b := entity.ItemCandidate{Title: "B", Link: "https://www.finn.no/car/used/ad.html?finnkode=2"}
	aAgain := entity.ItemCandidate{Title: "A (duplicate)", Link: a.Link, Price: "1 kr"}

	got := Deduplicate([]entity.ItemCandidate{a, b, aAgain})
	assert.Equal(t, []entity.ItemRecord{a.Record(), b.Record()}, got)
}

func TestDeduplicate_LinklessByTitleAndImage(t *testing.T) {
	got := Deduplicate([]entity.ItemCandidate{
		{Title: "Golf", Image: "https://img/1.jpg"},
		{Title: "Golf", Image: "https://img/1.jpg", Price: "1 kr"},
		{Title: "Golf", Image: "https://img/2.jpg"},
	})
	require.Len(t, got, 2)
	assert.Empty(t, got[0].Price)
	assert.Equal(t, "https://img/2.jpg", got[1].Image)
}

func TestOrchestrator_JSONWithoutDocsPath(t *testing.T) {
	o := newTestOrchestrator(t)

	res := o.Run(entity.RawDocument{Kind: entity.KindJSON, Body: `{"results": []}`})
	assert.False(t, res.OK)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Nil(t, res.StrategyUsed)
	require.NotNil(t, res.Error)
	assert.Equal(t, entity.ErrorNoStrategyMatched, res.Error.Kind)
	assert.Equal(t, []entity.Strategy{entity.StrategyStructuredAPI}, res.Error.Attempted)
}

func TestOrchestrator_HTMLAttemptsOnlyHTMLStrategies(t *testing.T) {
	o := newTestOrchestrator(t)

	res := o.Run(entity.RawDocument{Kind: entity.KindHTML, Body: `<html><body><p>Ingen treff</p></body></html>`})
	assert.False(t, res.OK)
	require.NotNil(t, res.Error)
	assert.Equal(t, []entity.Strategy{
		entity.StrategyAppState,
		entity.StrategyStructuredMarkup,
		entity.StrategyDOMHeuristic,
	}, res.Error.Attempted)
}

func TestOrchestrator_AnchorsOnlyUsesDOMHeuristic(t *testing.T) {
	o := newTestOrchestrator(t)

	res := o.Run(entity.RawDocument{Kind: entity.KindHTML, Body: searchResultsPage})
	require.True(t, res.OK)
	require.NotNil(t, res.StrategyUsed)
	assert.Equal(t, entity.StrategyDOMHeuristic, *res.StrategyUsed)
	assert.Len(t, res.Items, 3)
	assert.Nil(t, res.Error)
}

func TestOrchestrator_DuplicateAnchorsCollapse(t *testing.T) {
	body := `<html><body>
<article><a href="/car/used/ad.html?finnkode=900"><h3>Volvo XC60</h3></a><span>350 000 kr</span></article>
<article><a href="/car/used/ad.html?finnkode=901">Volvo XC90</a></article>
<article><div><a href="https://www.finn.no/car/used/ad.html?finnkode=900" title="Volvo XC60 (bilde)"><img src="//images.finncdn.no/900.jpg"></a></div></article>
</body></html>`
	o := newTestOrchestrator(t)

	res := o.Run(entity.RawDocument{Kind: entity.KindHTML, Body: body})
	require.True(t, res.OK)
	require.Len(t, res.Items, 2)

	assert.Equal(t, "Volvo XC60", res.Items[0].Title, "first occurrence wins")
	assert.Equal(t, "https://www.finn.no/car/used/ad.html?finnkode=900", res.Items[0].Link)
	assert.Equal(t, "350 000 kr", res.Items[0].Price)
	assert.Empty(t, res.Items[0].Image)
	assert.Equal(t, "Volvo XC90", res.Items[1].Title)

	seen := map[string]bool{}
	for _, it := range res.Items {
		assert.True(t, IsAbsoluteURL(it.Link), it.Link)
		assert.False(t, seen[it.Link], "duplicate link %s", it.Link)
		seen[it.Link] = true
	}
}

func TestOrchestrator_AppStateOutranksDOM(t *testing.T) {
	body := nextDataPage[:len(nextDataPage)-len("</body></html>")] +
		`<a href="/car/used/ad.html?finnkode=999">Annen bil</a></body></html>`
	o := newTestOrchestrator(t)

	res := o.Run(entity.RawDocument{Kind: entity.KindHTML, Body: body})
	require.True(t, res.OK)
	assert.Equal(t, entity.StrategyAppState, *res.StrategyUsed)
	assert.Len(t, res.Items, 2)
}

func TestOrchestrator_AtomFeed(t *testing.T) {
	res := newTestOrchestrator(t).Run(entity.RawDocument{Kind: entity.KindAtomXML, Body: atomFeed})
	require.True(t, res.OK)
	assert.Equal(t, entity.StrategyFeed, *res.StrategyUsed)
	assert.Len(t, res.Items, 2)
}

func TestOrchestrator_PanickingStrategyIsSkipped(t *testing.T) {
	boom := stubExtractor{
		strategy: entity.StrategyAppState,
		kind:     entity.KindHTML,
		extract:  func(entity.RawDocument) []entity.ItemCandidate { panic("bad markup") },
	}
	ok := stubExtractor{
		strategy: entity.StrategyDOMHeuristic,
		kind:     entity.KindHTML,
		extract: func(entity.RawDocument) []entity.ItemCandidate {
			return []entity.ItemCandidate{{Title: "Golf", Link: "/car/used/ad.html?finnkode=5"}}
		},
	}

	res := newTestOrchestrator(t, boom, ok).Run(entity.RawDocument{Kind: entity.KindHTML})
	require.True(t, res.OK)
	assert.Equal(t, entity.StrategyDOMHeuristic, *res.StrategyUsed)
	assert.Equal(t, "https://www.finn.no/car/used/ad.html?finnkode=5", res.Items[0].Link)
}

func TestOrchestrator_RepairsCandidates(t *testing.T) {
	empty := stubExtractor{
		strategy: entity.StrategyStructuredMarkup,
		kind:     entity.KindHTML,
		extract: func(entity.RawDocument) []entity.ItemCandidate {
			return []entity.ItemCandidate{{Title: "   ", Link: "relative.html"}}
		},
	}
	fixable := stubExtractor{
		strategy: entity.StrategyDOMHeuristic,
		kind:     entity.KindHTML,
		extract: func(entity.RawDocument) []entity.ItemCandidate {
			return []entity.ItemCandidate{{
				Title: "  Tesla\n Model Y ",
				Link:  "relative.html",
				Image: "//images.finncdn.no/y.jpg",
			}}
		},
	}

	res := newTestOrchestrator(t, empty, fixable).Run(entity.RawDocument{Kind: entity.KindHTML})
	require.True(t, res.OK)
	assert.Equal(t, entity.StrategyDOMHeuristic, *res.StrategyUsed, "candidate with nothing usable left does not count")
	assert.Equal(t, []entity.ItemRecord{{
		Title: "Tesla Model Y",
		Image: "https://images.finncdn.no/y.jpg",
	}}, res.Items)
}
