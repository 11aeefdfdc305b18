package entity

// DocumentKind is the structural category of a fetched payload. It decides
// which extraction strategies are eligible for a document.
type DocumentKind string

const (
	KindHTML    DocumentKind = "html"
	KindJSON    DocumentKind = "json"
	KindAtomXML DocumentKind = "atom_xml"
)

// ParseDocumentKind maps user-facing names ("html", "json", "atom", "xml")
// onto a DocumentKind.
func ParseDocumentKind(s string) (DocumentKind, bool) {
	switch s {
	case "html", "HTML":
		return KindHTML, true
	case "json", "JSON":
		return KindJSON, true
	case "atom", "xml", "atom_xml", "ATOM_XML":
		return KindAtomXML, true
	}
	return "", false
}

// RawDocument is a fetched payload. It is never modified after the fetch.
type RawDocument struct {
	Kind       DocumentKind
	Body       string
	SourceURL  string
	HTTPStatus int
}
