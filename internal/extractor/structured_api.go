package extractor

import (
	"github.com/tidwall/gjson"

	"github.com/user/listings-service/internal/entity"
)

// StructuredAPIExtractor reads the result list of an upstream search API.
type StructuredAPIExtractor struct {
	src Source
}

func NewStructuredAPIExtractor(src Source) *StructuredAPIExtractor {
	return &StructuredAPIExtractor{src: src}
}

func (e *StructuredAPIExtractor) Strategy() entity.Strategy { return entity.StrategyStructuredAPI }

func (e *StructuredAPIExtractor) Kind() entity.DocumentKind { return entity.KindJSON }

// Extract walks the first configured docs path that holds an array and
// maps each document object through the alias tables.
func (e *StructuredAPIExtractor) Extract(doc entity.RawDocument) []entity.ItemCandidate {
	if !gjson.Valid(doc.Body) {
		return nil
	}
	root := gjson.Parse(doc.Body)
	for _, path := range e.src.DocsPaths {
		list := root.Get(path)
		if !list.IsArray() {
			continue
		}
		var out []entity.ItemCandidate
		list.ForEach(func(_, item gjson.Result) bool {
			if !item.IsObject() {
				return true
			}
			if c, ok := e.src.aliasedCandidate(item, entity.StrategyStructuredAPI); ok {
				out = append(out, c)
			}
			return true
		})
		return out
	}
	return nil
}
