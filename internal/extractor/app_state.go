package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/user/listings-service/internal/entity"
)

// AppStateExtractor reads the serialized application state a client-side
// rendered page embeds in an inline script. The nesting of listings inside
// that state changes between releases, so the whole graph is searched for
// objects that look like a listing.
type AppStateExtractor struct {
	src Source
}

func NewAppStateExtractor(src Source) *AppStateExtractor {
	return &AppStateExtractor{src: src}
}

func (e *AppStateExtractor) Strategy() entity.Strategy { return entity.StrategyAppState }

func (e *AppStateExtractor) Kind() entity.DocumentKind { return entity.KindHTML }

func (e *AppStateExtractor) Extract(doc entity.RawDocument) []entity.ItemCandidate {
	if e.src.AppStateSelector == "" {
		return nil
	}
	page, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Body))
	if err != nil {
		return nil
	}
	script := page.Find(e.src.AppStateSelector).First()
	if script.Length() == 0 {
		return nil
	}
	blob := strings.TrimSpace(script.Text())
	if !gjson.Valid(blob) {
		return nil
	}

	var out []entity.ItemCandidate
	walkObjects(gjson.Parse(blob), func(obj gjson.Result) bool {
		if !looksLikeListing(obj) {
			return true
		}
		if c, ok := e.src.aliasedCandidate(obj, entity.StrategyAppState); ok {
			out = append(out, c)
		}
		// A listing's own children are its image, price and location
		// objects, never further listings.
		return false
	})
	return out
}

// looksLikeListing requires both a non-empty title-like field and an
// image-like field.
func looksLikeListing(obj gjson.Result) bool {
	return firstTitle(obj) != "" && hasAny(obj, imageAliases)
}

func firstTitle(obj gjson.Result) string {
	for _, path := range titleAliases {
		if v := obj.Get(path); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return v.Str
		}
	}
	return ""
}
