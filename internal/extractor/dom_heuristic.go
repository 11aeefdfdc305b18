package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/listings-service/internal/entity"
)

// Title selectors tried inside a card, most specific first.
var cardTitleSelectors = []string{`[data-testid="object-card-title"]`, "h3", "h2"}

// DOMHeuristicExtractor is the last resort for server-rendered search
// pages: listing anchors are located by URL pattern and the surrounding
// card is mined for title, image and price.
type DOMHeuristicExtractor struct {
	src Source
}

func NewDOMHeuristicExtractor(src Source) *DOMHeuristicExtractor {
	return &DOMHeuristicExtractor{src: src}
}

func (e *DOMHeuristicExtractor) Strategy() entity.Strategy { return entity.StrategyDOMHeuristic }

func (e *DOMHeuristicExtractor) Kind() entity.DocumentKind { return entity.KindHTML }

func (e *DOMHeuristicExtractor) Extract(doc entity.RawDocument) []entity.ItemCandidate {
	page, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Body))
	if err == nil {
		if out := e.scanCards(page); len(out) > 0 {
			return out
		}
	}
	return e.scanText(doc.Body)
}

func (e *DOMHeuristicExtractor) scanCards(page *goquery.Document) []entity.ItemCandidate {
	pattern := e.src.listingPattern()
	var out []entity.ItemCandidate
	page.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !pattern.MatchString(href) {
			return
		}
		link := e.src.Absolutize(href)
		if !e.src.OnSite(link) {
			return
		}
		card := closestCard(a)
		out = append(out, entity.ItemCandidate{
			Title:          e.cardTitle(card, a),
			Link:           link,
			Image:          e.src.Absolutize(cardImage(card)),
			Price:          e.cardPrice(card),
			SourceStrategy: entity.StrategyDOMHeuristic,
		})
	})
	return out
}

// scanText finds listing URLs anywhere in the raw document. The result is
// link-only but still usable. Matches inside URLs of other hosts are skipped.
func (e *DOMHeuristicExtractor) scanText(body string) []entity.ItemCandidate {
	var out []entity.ItemCandidate
	for _, loc := range e.src.listingPattern().FindAllStringIndex(body, -1) {
		start := strings.LastIndexAny(body[:loc[0]], textURLDelimiters) + 1
		link := body[start:loc[1]]
		if !strings.Contains(link, "://") && !strings.HasPrefix(link, "//") {
			link = body[loc[0]:loc[1]]
		}
		link = e.src.Absolutize(link)
		if !e.src.OnSite(link) {
			continue
		}
		out = append(out, entity.ItemCandidate{
			Title:          e.src.PlaceholderTitle,
			Link:           link,
			SourceStrategy: entity.StrategyDOMHeuristic,
		})
	}
	return out
}

// Characters that end a URL embedded in markup or script text.
const textURLDelimiters = " \t\r\n\"'<>()[]{},;="

func closestCard(a *goquery.Selection) *goquery.Selection {
	if card := a.Closest("article"); card.Length() > 0 {
		return card
	}
	if card := a.Closest("li"); card.Length() > 0 {
		return card
	}
	return a.Parent()
}

func (e *DOMHeuristicExtractor) cardTitle(card, a *goquery.Selection) string {
	for _, sel := range cardTitleSelectors {
		if t := collapseSpace(card.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	if t := collapseSpace(a.AttrOr("title", "")); t != "" {
		return t
	}
	if t := collapseSpace(a.Text()); t != "" {
		return t
	}
	return e.src.PlaceholderTitle
}

func cardImage(card *goquery.Selection) string {
	img := card.Find("img").First()
	if src := strings.TrimSpace(img.AttrOr("src", "")); src != "" && !strings.HasPrefix(src, "data:") {
		return src
	}
	if src := strings.TrimSpace(img.AttrOr("data-src", "")); src != "" {
		return src
	}
	if srcset := img.AttrOr("srcset", ""); srcset != "" {
		return BestImageFromSrcset(srcset)
	}
	return BestImageFromSrcset(card.Find("source[srcset]").First().AttrOr("srcset", ""))
}

func (e *DOMHeuristicExtractor) cardPrice(card *goquery.Selection) string {
	if p := collapseSpace(card.Find(`[data-testid="price"]`).First().Text()); p != "" {
		return e.src.FormatPrice(nil, "", p)
	}
	leaf := card.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Children().Length() == 0 && hasCurrencyMarker(s.Text())
	}).First()
	return e.src.FormatPrice(nil, "", leaf.Text())
}

func hasCurrencyMarker(s string) bool {
	return strings.Contains(s, "kr") || strings.Contains(s, ",-")
}
