package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/listings-service/internal/entity"
)

const searchResultsPage = `<html><body>
<ul>
  <li><article>
    <a href="/car/used/ad.html?finnkode=701"><img src="data:image/gif;base64,R0lGOD" data-src="//images.finncdn.no/701.jpg"></a>
    <h2 data-testid="object-card-title">  Volkswagen
      Golf </h2>
    <span data-testid="price">199 000 kr</span>
  </article></li>
  <li>
    <a href="https://www.finn.no/car/used/ad.html?finnkode=702" title="Peugeot 208">
      <picture><source srcset="//img.finncdn.no/702-small.jpg 1x, //img.finncdn.no/702-large.jpg 2x"><img alt=""></picture>
    </a>
    <div><span>Pris</span><span>89 900 kr</span></div>
  </li>
</ul>
<div><a href="/mobility/item/703">Kia Niro</a></div>
<a href="/about">Om oss</a>
</body></html>`

func TestDOMHeuristicExtractor(t *testing.T) {
	ex := NewDOMHeuristicExtractor(DefaultSource())

	got := ex.Extract(entity.RawDocument{Kind: entity.KindHTML, Body: searchResultsPage})
	require.Len(t, got, 3)

	assert.Equal(t, entity.ItemCandidate{
		Title:          "Volkswagen Golf",
		Link:           "https://www.finn.no/car/used/ad.html?finnkode=701",
		Image:          "https://images.finncdn.no/701.jpg",
		Price:          "199 000 kr",
		SourceStrategy: entity.StrategyDOMHeuristic,
	}, got[0])

	assert.Equal(t, "Peugeot 208", got[1].Title, "title attribute when the card has no heading")
	assert.Equal(t, "https://img.finncdn.no/702-large.jpg", got[1].Image)
	assert.Equal(t, "89 900 kr", got[1].Price, "first leaf carrying a currency marker")

	assert.Equal(t, "Kia Niro", got[2].Title)
	assert.Equal(t, "https://www.finn.no/mobility/item/703", got[2].Link)
	assert.Empty(t, got[2].Image)
	assert.Empty(t, got[2].Price)
}

func TestDOMHeuristicExtractor_TextFallback(t *testing.T) {
	ex := NewDOMHeuristicExtractor(DefaultSource())
	body := `<html><body><script>window.ads = ["https://www.finn.no/car/used/ad.html?finnkode=801"];</script></body></html>`

	got := ex.Extract(entity.RawDocument{Kind: entity.KindHTML, Body: body})
	require.Len(t, got, 1)
	assert.Equal(t, "Se annonse", got[0].Title)
	assert.Equal(t, "https://www.finn.no/car/used/ad.html?finnkode=801", got[0].Link)
	assert.Empty(t, got[0].Image)
}

func TestDOMHeuristicExtractor_NothingMatches(t *testing.T) {
	ex := NewDOMHeuristicExtractor(DefaultSource())
	got := ex.Extract(entity.RawDocument{Kind: entity.KindHTML, Body: `<a href="/about">Om oss</a>`})
	assert.Empty(t, got)
}

func TestDOMHeuristicExtractor_SkipsOffSiteLinks(t *testing.T) {
	ex := NewDOMHeuristicExtractor(DefaultSource())
	body := `<html><body>
<article><a href="https://other.example/car/used/ad.html?finnkode=1"><h2>Mirror</h2></a></article>
<article><a href="https://finn.no/car/used/ad.html?finnkode=2"><h2>Bare host</h2></a></article>
<article><a href="/mobility/item/3"><h2>Relative</h2></a></article>
</body></html>`

	got := ex.Extract(entity.RawDocument{Kind: entity.KindHTML, Body: body})
	require.Len(t, got, 2)
	assert.Equal(t, "https://finn.no/car/used/ad.html?finnkode=2", got[0].Link)
	assert.Equal(t, "https://www.finn.no/mobility/item/3", got[1].Link)
}

func TestDOMHeuristicExtractor_TextFallbackSkipsOffSite(t *testing.T) {
	ex := NewDOMHeuristicExtractor(DefaultSource())
	body := `<script>var a = ["https://other.example/car/used/ad.html?finnkode=1", "/mobility/item/9"];</script>`

	got := ex.Extract(entity.RawDocument{Kind: entity.KindHTML, Body: body})
	require.Len(t, got, 1)
	assert.Equal(t, "https://www.finn.no/mobility/item/9", got[0].Link)
}

func TestSource_OnSite(t *testing.T) {
	src := DefaultSource()
	assert.True(t, src.OnSite("https://www.finn.no/car/used/ad.html?finnkode=1"))
	assert.True(t, src.OnSite("https://FINN.no/mobility/item/2"))
	assert.False(t, src.OnSite("https://other.example/mobility/item/2"))
	assert.False(t, src.OnSite("/mobility/item/2"))
	assert.False(t, src.OnSite(""))
}
