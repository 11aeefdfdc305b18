package extractor

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/user/listings-service/internal/entity"
)

// FeedExtractor reads Atom entries (and plain RSS items). Elements are
// matched by local name so vendor namespace prefixes do not matter.
type FeedExtractor struct {
	src Source
}

func NewFeedExtractor(src Source) *FeedExtractor {
	return &FeedExtractor{src: src}
}

func (e *FeedExtractor) Strategy() entity.Strategy { return entity.StrategyFeed }

func (e *FeedExtractor) Kind() entity.DocumentKind { return entity.KindAtomXML }

func (e *FeedExtractor) Extract(doc entity.RawDocument) []entity.ItemCandidate {
	root, err := xmlquery.Parse(strings.NewReader(doc.Body))
	if err != nil || root == nil {
		return nil
	}
	var out []entity.ItemCandidate
	for _, entry := range xmlquery.Find(root, "//*[local-name()='entry' or local-name()='item']") {
		c := entity.ItemCandidate{
			Title:          collapseSpace(childText(entry, "title")),
			Link:           feedLink(entry),
			Image:          feedImage(entry),
			Price:          e.feedPrice(entry),
			SourceStrategy: entity.StrategyFeed,
		}
		if c.Title == "" && c.Link == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func childText(n *xmlquery.Node, localName string) string {
	child := xmlquery.FindOne(n, "./*[local-name()='"+localName+"']")
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.InnerText())
}

// feedLink prefers the rel="alternate" link and falls back to the first.
func feedLink(entry *xmlquery.Node) string {
	links := xmlquery.Find(entry, "./*[local-name()='link']")
	if len(links) == 0 {
		return ""
	}
	for _, l := range links {
		if l.SelectAttr("rel") == "alternate" {
			return linkHref(l)
		}
	}
	return linkHref(links[0])
}

func linkHref(l *xmlquery.Node) string {
	if href := strings.TrimSpace(l.SelectAttr("href")); href != "" {
		return href
	}
	return strings.TrimSpace(l.InnerText())
}

func feedImage(entry *xmlquery.Node) string {
	if media := xmlquery.FindOne(entry, ".//*[(local-name()='content' or local-name()='thumbnail') and @url]"); media != nil {
		if u := strings.TrimSpace(media.SelectAttr("url")); u != "" {
			return u
		}
	}
	for _, l := range xmlquery.Find(entry, "./*[local-name()='link']") {
		if l.SelectAttr("rel") == "enclosure" {
			return strings.TrimSpace(l.SelectAttr("href"))
		}
	}
	return ""
}

// feedPrice checks the vendor price element first and then scans the
// summary, content and description text.
func (e *FeedExtractor) feedPrice(entry *xmlquery.Node) string {
	price := xmlquery.FindOne(entry, ".//*[local-name()='price' and @name='main']")
	if price == nil {
		price = xmlquery.FindOne(entry, ".//*[local-name()='price']")
	}
	if price != nil {
		raw := price.SelectAttr("value")
		if raw == "" {
			raw = price.InnerText()
		}
		if amount, ok := parsePriceValue(raw); ok {
			return e.src.FormatPrice(&amount, price.SelectAttr("currency"), "")
		}
	}
	for _, field := range []string{"summary", "content", "description"} {
		if p := e.src.ExtractPriceFromFreeText(childText(entry, field)); p != "" {
			return p
		}
	}
	return ""
}
