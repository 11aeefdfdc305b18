package extractor

import (
	"net/url"
	"regexp"
	"strings"
)

// Source describes the listings site the extractors are tuned for. It is
// passed in explicitly so extraction never depends on process state.
type Source struct {
	// Origin is prefixed to root-relative links, e.g. "https://www.finn.no".
	Origin string
	// ListingPattern matches the path of a single listing page.
	ListingPattern *regexp.Regexp
	// AdURLTemplate builds a listing link from an identifier; "{id}" is
	// replaced with the escaped identifier.
	AdURLTemplate string
	// AppStateSelector locates the inline script carrying the serialized
	// application state.
	AppStateSelector string
	// DocsPaths are gjson paths tried in order to find the result list in
	// a search API payload.
	DocsPaths []string
	// DefaultCurrency is the suffix used when a price has no currency.
	DefaultCurrency string
	// Locale selects thousands grouping for formatted prices.
	Locale string
	// PlaceholderTitle is used for link-only candidates.
	PlaceholderTitle string
}

const defaultOrigin = "https://www.finn.no"

var defaultListingPattern = regexp.MustCompile(`/(?:car/used/ad\.html\?finnkode=\d+|mobility/item/\d+)`)

// DefaultSource returns the settings for finn.no car listings.
func DefaultSource() Source {
	return Source{
		Origin:           defaultOrigin,
		ListingPattern:   defaultListingPattern,
		AdURLTemplate:    defaultOrigin + "/car/used/ad.html?finnkode={id}",
		AppStateSelector: "script#__NEXT_DATA__",
		DocsPaths:        []string{"docs", "data.docs"},
		DefaultCurrency:  "kr",
		Locale:           "nb",
		PlaceholderTitle: "Se annonse",
	}
}

// WithOrigin returns a copy of s using origin for relative links and
// listing links built from identifiers.
func (s Source) WithOrigin(origin string) Source {
	origin = strings.TrimRight(origin, "/")
	if origin == "" {
		return s
	}
	s.AdURLTemplate = strings.Replace(s.AdURLTemplate, s.Origin, origin, 1)
	s.Origin = origin
	return s
}

// AdURL builds a listing link from an identifier.
func (s Source) AdURL(id string) string {
	if id == "" || s.AdURLTemplate == "" {
		return ""
	}
	return strings.ReplaceAll(s.AdURLTemplate, "{id}", url.QueryEscape(id))
}

func (s Source) listingPattern() *regexp.Regexp {
	if s.ListingPattern != nil {
		return s.ListingPattern
	}
	return defaultListingPattern
}

// OnSite reports whether the absolute URL link points at the source's own
// host. A leading "www." is ignored on both sides.
func (s Source) OnSite(link string) bool {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return false
	}
	origin, err := url.Parse(s.Origin)
	if err != nil || origin.Host == "" {
		return false
	}
	return siteHost(u.Host) == siteHost(origin.Host)
}

func siteHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
