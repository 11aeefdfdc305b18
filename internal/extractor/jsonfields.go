package extractor

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/user/listings-service/internal/entity"
)

// Field aliases are tried in order; the first present value wins.
var (
	idAliases           = []string{"ad_id", "adId", "finnkode", "id"}
	linkAliases         = []string{"canonical_url", "canonicalUrl", "ad_link", "adUrl", "url", "link", "href"}
	titleAliases        = []string{"heading", "title", "name"}
	imageAliases        = []string{"image", "images", "image_urls", "imageUrls", "image_url", "imageUrl", "thumbnail"}
	amountAliases       = []string{"price.amount", "price.value", "price_amount", "amount", "price"}
	currencyAliases     = []string{"price.currency_code", "price.currency", "price.price_unit", "currency_code", "currency"}
	priceDisplayAliases = []string{"price.display", "price.formatted", "price_display", "formatted_price", "price"}
	imageURLKeys        = []string{"url", "src", "uri", "href", "contentUrl"}
)

const maxWalkDepth = 64

// walkObjects visits every object node of v depth-first. When visit returns
// false the node's children are skipped.
func walkObjects(v gjson.Result, visit func(obj gjson.Result) bool) {
	walkDepth(v, visit, 0)
}

func walkDepth(v gjson.Result, visit func(gjson.Result) bool, depth int) {
	if depth > maxWalkDepth {
		return
	}
	if !v.IsObject() && !v.IsArray() {
		return
	}
	if v.IsObject() && !visit(v) {
		return
	}
	v.ForEach(func(_, child gjson.Result) bool {
		walkDepth(child, visit, depth+1)
		return true
	})
}

// firstString returns the first alias holding a non-empty string or number.
func firstString(obj gjson.Result, aliases []string) string {
	for _, path := range aliases {
		v := obj.Get(path)
		switch v.Type {
		case gjson.String:
			if s := strings.TrimSpace(v.Str); s != "" {
				return s
			}
		case gjson.Number:
			return v.Raw
		}
	}
	return ""
}

func firstNumber(obj gjson.Result, aliases []string) (float64, bool) {
	for _, path := range aliases {
		v := obj.Get(path)
		if v.Type == gjson.Number {
			return v.Float(), true
		}
	}
	return 0, false
}

// firstDisplay returns the first alias holding a non-numeric string.
func firstDisplay(obj gjson.Result, aliases []string) string {
	for _, path := range aliases {
		v := obj.Get(path)
		if v.Type != gjson.String {
			continue
		}
		s := strings.TrimSpace(v.Str)
		if s == "" {
			continue
		}
		if isPlainNumber(s) {
			continue
		}
		return s
	}
	return ""
}

// firstNumericString handles amounts serialized as strings, e.g. "245000".
func firstNumericString(obj gjson.Result, aliases []string) (float64, bool) {
	for _, path := range aliases {
		v := obj.Get(path)
		if v.Type != gjson.String || !isPlainNumber(strings.TrimSpace(v.Str)) {
			continue
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func isPlainNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

// imageValue resolves an image field that may be a URL string, an object
// carrying a URL, or a list of either. Lists yield their first entry.
func imageValue(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return strings.TrimSpace(v.Str)
	case v.IsArray():
		var out string
		v.ForEach(func(_, el gjson.Result) bool {
			out = imageValue(el)
			return out == ""
		})
		return out
	case v.IsObject():
		return firstString(v, imageURLKeys)
	}
	return ""
}

func firstImage(obj gjson.Result, aliases []string) string {
	for _, path := range aliases {
		if img := imageValue(obj.Get(path)); img != "" {
			return img
		}
	}
	return ""
}

// hasAny reports whether obj carries a non-null value under any alias.
func hasAny(obj gjson.Result, aliases []string) bool {
	for _, path := range aliases {
		v := obj.Get(path)
		if v.Exists() && v.Type != gjson.Null {
			return true
		}
	}
	return false
}

// aliasedCandidate maps a JSON object onto a candidate using the shared
// alias tables. Links come from a link field or, failing that, from an
// identifier run through the source's ad URL template.
func (s Source) aliasedCandidate(obj gjson.Result, strategy entity.Strategy) (entity.ItemCandidate, bool) {
	c := entity.ItemCandidate{
		Title:          firstString(obj, titleAliases),
		Image:          firstImage(obj, imageAliases),
		SourceStrategy: strategy,
	}
	if link := firstString(obj, linkAliases); link != "" && looksLikeLink(link) {
		c.Link = s.Absolutize(link)
	} else if id := firstString(obj, idAliases); id != "" {
		c.Link = s.AdURL(id)
	}
	c.Price = s.jsonPrice(obj)
	if c.Title == "" && c.Link == "" {
		return c, false
	}
	return c, true
}

func (s Source) jsonPrice(obj gjson.Result) string {
	display := firstDisplay(obj, priceDisplayAliases)
	var amount *float64
	if v, ok := firstNumber(obj, amountAliases); ok {
		amount = &v
	} else if v, ok := firstNumericString(obj, amountAliases); ok {
		amount = &v
	}
	return s.FormatPrice(amount, firstString(obj, currencyAliases), display)
}

func looksLikeLink(s string) bool {
	return strings.HasPrefix(s, "/") || strings.Contains(s, "://")
}
