package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/listings-service/internal/entity"
	"github.com/user/listings-service/internal/repository"
	"github.com/user/listings-service/pkg/config"
	"github.com/user/listings-service/pkg/metrics"
	"github.com/user/listings-service/pkg/utils"
)

var orgIDPattern = regexp.MustCompile(`^\d{1,12}$`)

// Extraction runs the strategy chain over one document.
type Extraction interface {
	Run(doc entity.RawDocument) entity.ExtractionResult
}

// ListingsConfig selects where listings are fetched from. URLs are
// templates with an {orgId} placeholder.
type ListingsConfig struct {
	Mode         string
	DefaultOrgID string
	APIKey       string
	SearchURL    string
	APIURL       string
	FeedURL      string
	CacheTTL     time.Duration
}

// ListingsResult is a snapshot plus whether it came from the cache.
type ListingsResult struct {
	Snapshot entity.ListingsSnapshot
	Cached   bool
}

// ListingsService returns extracted listings for an organization.
type ListingsService interface {
	Listings(ctx context.Context, orgID string) (*ListingsResult, error)
	// Invalidate drops the cached snapshot so the next call fetches again.
	Invalidate(ctx context.Context, orgID string) error
}

type ListingsOption func(*listingsUseCase)

// WithHTMLFetcher routes HTML steps through f, e.g. a headless browser.
func WithHTMLFetcher(f repository.Fetcher) ListingsOption {
	return func(uc *listingsUseCase) { uc.htmlFetcher = f }
}

func WithClock(now func() time.Time) ListingsOption {
	return func(uc *listingsUseCase) { uc.now = now }
}

type listingsUseCase struct {
	cfg         ListingsConfig
	extraction  Extraction
	fetcher     repository.Fetcher
	htmlFetcher repository.Fetcher
	cache       repository.ResultCache
	runs        repository.RunRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewListingsService wires the listings use case. cache and runs may be nil.
func NewListingsService(
	cfg ListingsConfig,
	extraction Extraction,
	fetcher repository.Fetcher,
	cache repository.ResultCache,
	runs repository.RunRepository,
	logger *zap.Logger,
	opts ...ListingsOption,
) ListingsService {
	metrics.Init()
	if cfg.Mode == "" {
		cfg.Mode = config.ModeHTML
	}
	uc := &listingsUseCase{
		cfg:         cfg,
		extraction:  extraction,
		fetcher:     fetcher,
		htmlFetcher: fetcher,
		cache:       cache,
		runs:        runs,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type fetchStep struct {
	kind    entity.DocumentKind
	url     string
	headers map[string]string
}

func cacheKey(orgID string) string { return "listings:" + orgID }

// orgLabel keeps the metric label set bounded: only the configured default
// organization gets its own series.
func (uc *listingsUseCase) orgLabel(orgID string) string {
	if orgID == uc.cfg.DefaultOrgID {
		return orgID
	}
	return otherOrgLabel
}

const otherOrgLabel = "other"

func (uc *listingsUseCase) normalizeOrgID(orgID string) (string, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		orgID = uc.cfg.DefaultOrgID
	}
	if !orgIDPattern.MatchString(orgID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrgID, orgID)
	}
	return orgID, nil
}

func (uc *listingsUseCase) Listings(ctx context.Context, orgID string) (*ListingsResult, error) {
	orgID, err := uc.normalizeOrgID(orgID)
	if err != nil {
		return nil, err
	}

	if snap, ok := uc.cached(ctx, orgID); ok {
		return &ListingsResult{Snapshot: *snap, Cached: true}, nil
	}

	plan, err := uc.plan(orgID)
	if err != nil {
		return nil, err
	}

	start := uc.now()
	doc, fetchErr := uc.fetchFirst(ctx, plan)
	if fetchErr != nil {
		metrics.ExtractionsTotal.WithLabelValues("none", "fetch_failure").Inc()
		uc.record(ctx, &entity.ExtractionRun{
			OrgID:          orgID,
			OK:             false,
			ErrorMessage:   fetchErr.Error(),
			HTTPStatusCode: fetchErr.UpstreamStatus(),
			DurationMS:     int(uc.now().Sub(start).Milliseconds()),
			RunTimestamp:   start,
		})
		uc.logger.Error("listings fetch failed", zap.String("org_id", orgID), zap.Error(fetchErr))
		return nil, fetchErr
	}

	result := uc.extraction.Run(*doc)
	snap := entity.ListingsSnapshot{
		OrgID:     orgID,
		Source:    doc.Kind,
		SourceURL: doc.SourceURL,
		Result:    result,
		FetchedAt: start,
	}

	strategy, outcome := "none", "no_match"
	if result.StrategyUsed != nil {
		strategy, outcome = string(*result.StrategyUsed), "ok"
	}
	metrics.ExtractionsTotal.WithLabelValues(strategy, outcome).Inc()
	metrics.ItemsExtracted.WithLabelValues(uc.orgLabel(orgID)).Set(float64(len(result.Items)))

	run := &entity.ExtractionRun{
		OrgID:          orgID,
		Source:         doc.Kind,
		ItemCount:      len(result.Items),
		OK:             result.OK,
		HTTPStatusCode: doc.HTTPStatus,
		DurationMS:     int(uc.now().Sub(start).Milliseconds()),
		RunTimestamp:   start,
	}
	if result.StrategyUsed != nil {
		run.Strategy = string(*result.StrategyUsed)
	}
	if result.Error != nil {
		run.ErrorMessage = result.Error.Message
	}
	uc.record(ctx, run)

	if result.OK {
		uc.store(ctx, orgID, &snap)
		uc.logger.Info("listings extracted",
			zap.String("org_id", orgID),
			zap.String("source", string(doc.Kind)),
			zap.String("strategy", strategy),
			zap.Int("count", len(result.Items)))
	} else {
		uc.logger.Warn("no strategy recovered listings",
			zap.String("org_id", orgID),
			zap.String("source", string(doc.Kind)),
			zap.String("source_url", doc.SourceURL))
	}

	return &ListingsResult{Snapshot: snap.Clone()}, nil
}

func (uc *listingsUseCase) Invalidate(ctx context.Context, orgID string) error {
	orgID, err := uc.normalizeOrgID(orgID)
	if err != nil {
		return err
	}
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Delete(ctx, cacheKey(orgID))
}

// plan lists the fetch steps for the configured mode, most preferred first.
func (uc *listingsUseCase) plan(orgID string) ([]fetchStep, error) {
	vars := map[string]string{"orgId": orgID}
	html := fetchStep{kind: entity.KindHTML, url: utils.ExpandTemplate(uc.cfg.SearchURL, vars)}
	api := func() []fetchStep {
		return []fetchStep{
			{
				kind: entity.KindJSON,
				url:  utils.ExpandTemplate(uc.cfg.APIURL, vars),
				headers: map[string]string{
					"x-FINN-apikey": uc.cfg.APIKey,
					"Accept":        "application/json",
				},
			},
			{
				kind: entity.KindAtomXML,
				url:  utils.ExpandTemplate(uc.cfg.FeedURL, vars),
				headers: map[string]string{
					"x-FINN-apikey": uc.cfg.APIKey,
					"Accept":        "application/atom+xml",
				},
			},
		}
	}

	switch uc.cfg.Mode {
	case config.ModeAPI:
		if uc.cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: api mode requires FINN_API_KEY", ErrConfiguration)
		}
		return api(), nil
	case config.ModeAuto:
		if uc.cfg.APIKey == "" {
			return []fetchStep{html}, nil
		}
		return append(api(), html), nil
	case config.ModeHTML:
		return []fetchStep{html}, nil
	}
	return nil, fmt.Errorf("%w: unknown mode %q", ErrConfiguration, uc.cfg.Mode)
}

// fetchFirst runs the plan until a step returns a 2xx document.
func (uc *listingsUseCase) fetchFirst(ctx context.Context, plan []fetchStep) (*entity.RawDocument, *FetchError) {
	fe := &FetchError{}
	for _, step := range plan {
		if step.url == "" {
			continue
		}
		fetcher := uc.fetcher
		if step.kind == entity.KindHTML && uc.htmlFetcher != nil {
			fetcher = uc.htmlFetcher
		}

		started := time.Now()
		resp, err := fetcher.Fetch(ctx, repository.FetchRequest{URL: step.url, Headers: step.headers})
		metrics.FetchDuration.WithLabelValues(string(step.kind)).Observe(time.Since(started).Seconds())

		switch {
		case err != nil:
			metrics.FetchesTotal.WithLabelValues(string(step.kind), "error").Inc()
			fe.Attempts = append(fe.Attempts, FetchAttempt{Kind: step.kind, URL: step.url, Err: err})
		case !resp.OK():
			metrics.FetchesTotal.WithLabelValues(string(step.kind), "status").Inc()
			fe.Attempts = append(fe.Attempts, FetchAttempt{Kind: step.kind, URL: step.url, Status: resp.Status})
		default:
			metrics.FetchesTotal.WithLabelValues(string(step.kind), "ok").Inc()
			return &entity.RawDocument{
				Kind:       step.kind,
				Body:       resp.Body,
				SourceURL:  step.url,
				HTTPStatus: resp.Status,
			}, nil
		}
		uc.logger.Warn("fetch step failed",
			zap.String("kind", string(step.kind)),
			zap.String("url", step.url),
			zap.Stringer("attempt", fe.Attempts[len(fe.Attempts)-1]))

		if errors.Is(err, context.Canceled) {
			break
		}
	}
	if len(fe.Attempts) == 0 {
		fe.Attempts = append(fe.Attempts, FetchAttempt{Err: errors.New("no source URL configured")})
	}
	return nil, fe
}

func (uc *listingsUseCase) cached(ctx context.Context, orgID string) (*entity.ListingsSnapshot, bool) {
	if uc.cache == nil {
		return nil, false
	}
	snap, ok, err := uc.cache.Get(ctx, cacheKey(orgID))
	switch {
	case err != nil:
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		uc.logger.Warn("cache lookup failed", zap.String("org_id", orgID), zap.Error(err))
		return nil, false
	case !ok:
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return snap, true
}

func (uc *listingsUseCase) store(ctx context.Context, orgID string, snap *entity.ListingsSnapshot) {
	if uc.cache == nil || uc.cfg.CacheTTL <= 0 {
		return
	}
	if err := uc.cache.Set(ctx, cacheKey(orgID), snap, uc.cfg.CacheTTL); err != nil {
		uc.logger.Warn("cache write failed", zap.String("org_id", orgID), zap.Error(err))
	}
}

// record writes to the run log. Failures are logged only.
func (uc *listingsUseCase) record(ctx context.Context, run *entity.ExtractionRun) {
	if uc.runs == nil {
		return
	}
	if err := uc.runs.Record(ctx, run); err != nil {
		uc.logger.Warn("failed to record extraction run", zap.String("org_id", run.OrgID), zap.Error(err))
	}
}
