package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/listings-service/internal/entity"
)

const nextDataPage = `<!doctype html>
<html><head>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{
  "seo":{"title":"Bruktbil til salgs"},
  "search":{"docs":[
    {"id":"501","heading":"Audi A4 Avant","canonical_url":"/car/used/ad.html?finnkode=501",
     "image":{"url":"https://images.finncdn.no/501.jpg"},
     "price":{"amount":310000,"currency_code":"NOK"}},
    {"id":"502","heading":"Ford Focus","image_urls":["https://images.finncdn.no/502.jpg"],
     "location":{"title":"Oslo","image":"map.png"}}
  ]}
}}}
</script>
</head><body><div id="__next"></div></body></html>`

func TestAppStateExtractor(t *testing.T) {
	src := DefaultSource()
	ex := NewAppStateExtractor(src)

	got := ex.Extract(entity.RawDocument{Kind: entity.KindHTML, Body: nextDataPage})
	require.Len(t, got, 2, "seo block has no image and nested location is not descended into")

	assert.Equal(t, "Audi A4 Avant", got[0].Title)
	assert.Equal(t, "https://www.finn.no/car/used/ad.html?finnkode=501", got[0].Link)
	assert.Equal(t, "https://images.finncdn.no/501.jpg", got[0].Image)
	assert.Equal(t, src.FormatPrice(ptr(310000), "NOK", ""), got[0].Price)

	assert.Equal(t, "Ford Focus", got[1].Title)
	assert.Equal(t, src.AdURL("502"), got[1].Link)
	assert.Equal(t, "https://images.finncdn.no/502.jpg", got[1].Image)
	assert.Empty(t, got[1].Price)
	assert.Equal(t, entity.StrategyAppState, got[1].SourceStrategy)
}

func TestAppStateExtractor_NoState(t *testing.T) {
	ex := NewAppStateExtractor(DefaultSource())
	for name, body := range map[string]string{
		"no script":    `<html><body><p>hei</p></body></html>`,
		"invalid json": `<script id="__NEXT_DATA__">{"props":</script>`,
		"no listings":  `<script id="__NEXT_DATA__">{"props":{"title":"x"}}</script>`,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, ex.Extract(entity.RawDocument{Kind: entity.KindHTML, Body: body}))
		})
	}
}
