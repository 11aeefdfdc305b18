package extractor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/user/listings-service/internal/entity"
)

// Orchestrator runs the strategies that accept a document's kind in
// priority order and returns the deduplicated output of the first one that
// recovers anything.
type Orchestrator struct {
	src        Source
	extractors []Extractor
	logger     *zap.Logger
}

// NewOrchestrator builds an orchestrator. With no extractors given it uses
// DefaultExtractors(src).
func NewOrchestrator(src Source, logger *zap.Logger, extractors ...Extractor) *Orchestrator {
	if len(extractors) == 0 {
		extractors = DefaultExtractors(src)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{src: src, extractors: extractors, logger: logger}
}

// Source returns the source settings the orchestrator normalizes with.
func (o *Orchestrator) Source() Source { return o.src }

// Run processes one document. It never fails outright: when no strategy
// recovers items the result has OK=false and lists the attempted strategies.
func (o *Orchestrator) Run(doc entity.RawDocument) entity.ExtractionResult {
	var attempted []entity.Strategy
	for _, ex := range o.extractors {
		if ex.Kind() != doc.Kind {
			continue
		}
		strategy := ex.Strategy()
		attempted = append(attempted, strategy)

		candidates := o.repair(o.safeExtract(ex, doc))
		if len(candidates) == 0 {
			o.logger.Debug("strategy recovered no items",
				zap.String("strategy", string(strategy)),
				zap.String("source_url", doc.SourceURL))
			continue
		}

		items := Deduplicate(candidates)
		o.logger.Debug("strategy won",
			zap.String("strategy", string(strategy)),
			zap.Int("candidates", len(candidates)),
			zap.Int("items", len(items)))
		return entity.ExtractionResult{
			OK:           true,
			Items:        items,
			StrategyUsed: &strategy,
		}
	}

	return entity.ExtractionResult{
		OK:    false,
		Items: []entity.ItemRecord{},
		Error: &entity.ErrorInfo{
			Kind:      entity.ErrorNoStrategyMatched,
			Message:   fmt.Sprintf("no strategy recovered any items from %s document (attempted %d)", doc.Kind, len(attempted)),
			Attempted: attempted,
		},
	}
}

// safeExtract turns a panicking strategy into an empty result.
func (o *Orchestrator) safeExtract(ex Extractor, doc entity.RawDocument) (out []entity.ItemCandidate) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("strategy panicked",
				zap.String("strategy", string(ex.Strategy())),
				zap.Any("panic", r))
			out = nil
		}
	}()
	return ex.Extract(doc)
}

// repair absolutizes links and images. Links that still lack a scheme or
// host are cleared; candidates left with nothing identifying are dropped.
func (o *Orchestrator) repair(candidates []entity.ItemCandidate) []entity.ItemCandidate {
	out := candidates[:0]
	for _, c := range candidates {
		c.Title = collapseSpace(c.Title)
		c.Link = o.src.Absolutize(c.Link)
		if c.Link != "" && !IsAbsoluteURL(c.Link) {
			c.Link = ""
		}
		c.Image = o.src.Absolutize(c.Image)
		if c.Image != "" && !IsAbsoluteURL(c.Image) {
			c.Image = ""
		}
		if c.Link == "" && c.Title == "" && c.Image == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Deduplicate keeps the first candidate per key, preserving order. The key
// is the link, or title|image when the link is empty.
func Deduplicate(candidates []entity.ItemCandidate) []entity.ItemRecord {
	seen := make(map[string]struct{}, len(candidates))
	items := make([]entity.ItemRecord, 0, len(candidates))
	for _, c := range candidates {
		key := dedupKey(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, c.Record())
	}
	return items
}

func dedupKey(c entity.ItemCandidate) string {
	if c.Link != "" {
		return "link:" + c.Link
	}
	return "ti:" + c.Title + "|" + c.Image
}
