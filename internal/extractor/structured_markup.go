package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/user/listings-service/internal/entity"
)

var productTypes = []string{"Product", "Car", "Vehicle", "IndividualProduct", "Offer"}

// StructuredMarkupExtractor reads schema.org JSON-LD blocks: ItemList
// elements and standalone Product-like nodes.
type StructuredMarkupExtractor struct {
	src Source
}

func NewStructuredMarkupExtractor(src Source) *StructuredMarkupExtractor {
	return &StructuredMarkupExtractor{src: src}
}

func (e *StructuredMarkupExtractor) Strategy() entity.Strategy {
	return entity.StrategyStructuredMarkup
}

func (e *StructuredMarkupExtractor) Kind() entity.DocumentKind { return entity.KindHTML }

func (e *StructuredMarkupExtractor) Extract(doc entity.RawDocument) []entity.ItemCandidate {
	page, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Body))
	if err != nil {
		return nil
	}
	var out []entity.ItemCandidate
	page.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		blob := strings.TrimSpace(s.Text())
		if !gjson.Valid(blob) {
			return
		}
		for _, node := range ldNodes(gjson.Parse(blob)) {
			out = append(out, e.fromNode(node)...)
		}
	})
	return out
}

// ldNodes flattens top-level arrays and @graph containers.
func ldNodes(v gjson.Result) []gjson.Result {
	var nodes []gjson.Result
	switch {
	case v.IsArray():
		v.ForEach(func(_, el gjson.Result) bool {
			nodes = append(nodes, ldNodes(el)...)
			return true
		})
	case v.IsObject():
		if graph := v.Get("@graph"); graph.IsArray() {
			nodes = append(nodes, ldNodes(graph)...)
		} else {
			nodes = append(nodes, v)
		}
	}
	return nodes
}

func (e *StructuredMarkupExtractor) fromNode(node gjson.Result) []entity.ItemCandidate {
	switch {
	case hasType(node, "ItemList", "OfferCatalog", "SearchResultsPage"):
		var out []entity.ItemCandidate
		elements := node.Get("itemListElement")
		if !elements.Exists() {
			elements = node.Get("mainEntity.itemListElement")
		}
		elements.ForEach(func(_, el gjson.Result) bool {
			if c, ok := e.fromListElement(el); ok {
				out = append(out, c)
			}
			return true
		})
		return out
	case hasType(node, productTypes...):
		if c, ok := e.fromProduct(node, ""); ok {
			return []entity.ItemCandidate{c}
		}
	}
	return nil
}

// fromListElement handles ListItem wrappers as well as bare products.
func (e *StructuredMarkupExtractor) fromListElement(el gjson.Result) (entity.ItemCandidate, bool) {
	if item := el.Get("item"); item.IsObject() {
		return e.fromProduct(item, ldString(el, "url"))
	}
	if hasType(el, productTypes...) {
		return e.fromProduct(el, "")
	}
	link := ldString(el, "url")
	if link == "" {
		link = ldString(el, "item")
	}
	if link == "" {
		return entity.ItemCandidate{}, false
	}
	return entity.ItemCandidate{
		Title:          ldString(el, "name"),
		Link:           e.src.Absolutize(link),
		SourceStrategy: entity.StrategyStructuredMarkup,
	}, true
}

func (e *StructuredMarkupExtractor) fromProduct(p gjson.Result, fallbackLink string) (entity.ItemCandidate, bool) {
	offer := p.Get("offers")
	if offer.IsArray() {
		offer = offer.Get("0")
	}
	link := ldString(p, "url")
	if link == "" {
		link = ldString(offer, "url")
	}
	if link == "" {
		link = fallbackLink
	}
	if link == "" {
		if id := ldString(p, "@id"); IsAbsoluteURL(id) {
			link = id
		}
	}
	c := entity.ItemCandidate{
		Title:          ldString(p, "name"),
		Link:           e.src.Absolutize(link),
		Image:          e.src.Absolutize(imageValue(p.Get("image"))),
		Price:          e.offerPrice(offer),
		SourceStrategy: entity.StrategyStructuredMarkup,
	}
	if c.Title == "" && c.Link == "" {
		return c, false
	}
	return c, true
}

func (e *StructuredMarkupExtractor) offerPrice(offer gjson.Result) string {
	if !offer.Exists() {
		return ""
	}
	currency := ldString(offer, "priceCurrency")
	price := offer.Get("price")
	if !price.Exists() {
		price = offer.Get("lowPrice")
	}
	switch price.Type {
	case gjson.Number:
		v := price.Float()
		return e.src.FormatPrice(&v, currency, "")
	case gjson.String:
		if isPlainNumber(strings.TrimSpace(price.Str)) {
			if v, ok := parsePriceValue(price.Str); ok {
				return e.src.FormatPrice(&v, currency, "")
			}
		}
		return e.src.FormatPrice(nil, currency, price.Str)
	}
	return ""
}

func ldString(v gjson.Result, path string) string {
	r := v.Get(path)
	if r.Type == gjson.String {
		return strings.TrimSpace(r.Str)
	}
	return ""
}

// hasType matches @type given as a string or a list of strings.
func hasType(node gjson.Result, names ...string) bool {
	t := node.Get("@type")
	match := func(s string) bool {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "http://schema.org/"), "https://schema.org/")
		for _, n := range names {
			if s == n {
				return true
			}
		}
		return false
	}
	if t.IsArray() {
		found := false
		t.ForEach(func(_, el gjson.Result) bool {
			found = match(el.Str)
			return !found
		})
		return found
	}
	return match(t.Str)
}
