package extractor

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Absolutize turns a protocol-relative or root-relative href into an
// absolute URL. Anything else is returned unchanged.
func (s Source) Absolutize(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return s.Origin + href
	}
	return href
}

// IsAbsoluteURL reports whether raw has both a scheme and a host.
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// BestImageFromSrcset picks the last (highest resolution) candidate of a
// srcset attribute and returns its URL without the descriptor.
func BestImageFromSrcset(srcset string) string {
	parts := strings.Split(srcset, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		fields := strings.Fields(parts[i])
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

// FormatPrice returns display verbatim when set. Otherwise a present amount
// is grouped for the source locale and suffixed with the currency. With
// neither, it returns "".
func (s Source) FormatPrice(amount *float64, currency, display string) string {
	if d := collapseSpace(display); d != "" {
		return d
	}
	if amount == nil || math.IsNaN(*amount) || math.IsInf(*amount, 0) {
		return ""
	}
	tag, err := language.Parse(s.Locale)
	if err != nil {
		tag = language.Norwegian
	}
	p := message.NewPrinter(tag)
	n := p.Sprintf("%d", int64(math.Round(*amount)))
	return n + " " + s.currencySuffix(currency)
}

func (s Source) currencySuffix(code string) string {
	code = strings.TrimSpace(code)
	switch strings.ToUpper(strings.TrimSuffix(code, ".")) {
	case "":
		if s.DefaultCurrency != "" {
			return s.DefaultCurrency
		}
		return "kr"
	case "NOK", "KR", "SEK", "DKK":
		return "kr"
	}
	return code
}

// priceTextPattern matches two or more digits, optionally grouped by
// whitespace or dots, followed by a currency marker. A letter marker must
// end its word, so "Kristiansand" or "KR-bil" never count as currency.
var priceTextPattern = regexp.MustCompile(`(?i)(\d(?:[ \t.\x{00A0}\x{202F}]?\d)+)\s*(?:(kr|nok)(?:$|[^\p{L}\p{N}_-])|(,-))`)

// ExtractPriceFromFreeText finds the first currency-marked amount in text
// and reformats it with FormatPrice.
func (s Source) ExtractPriceFromFreeText(text string) string {
	m := priceTextPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	amount, ok := parseAmount(m[1])
	if !ok {
		return ""
	}
	// m[2] is empty for the ",-" marker, which carries no currency.
	return s.FormatPrice(&amount, m[2], "")
}

// parsePriceValue reads a machine-written amount such as "245000.00" as a
// decimal number and falls back to parseAmount for grouped text.
func parsePriceValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if isPlainNumber(s) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, true
		}
	}
	return parseAmount(s)
}

// parseAmount keeps the digits of s and parses them as a whole number.
func parseAmount(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
