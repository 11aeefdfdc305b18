package response

import (
	"time"

	"github.com/user/listings-service/internal/entity"
	"github.com/user/listings-service/internal/usecase"
)

// ListingsResponse is the envelope for /finn, /cars and /api/listings.
type ListingsResponse struct {
	OK             bool                `json:"ok"`
	Items          []entity.ItemRecord `json:"items"`
	Count          int                 `json:"count"`
	OrgID          string              `json:"orgId,omitempty"`
	Source         string              `json:"source,omitempty"`
	Strategy       string              `json:"strategy,omitempty"`
	Cached         bool                `json:"cached"`
	FetchedAt      *time.Time          `json:"fetchedAt,omitempty"`
	Error          string              `json:"error,omitempty"`
	Attempted      []string            `json:"attempted,omitempty"`
	UpstreamStatus int                 `json:"upstreamStatus,omitempty"`
}

// NewListingsResponse flattens a use case result into the envelope.
func NewListingsResponse(res *usecase.ListingsResult) ListingsResponse {
	snap := res.Snapshot
	items := snap.Result.Items
	if items == nil {
		items = []entity.ItemRecord{}
	}
	fetched := snap.FetchedAt
	out := ListingsResponse{
		OK:        snap.Result.OK,
		Items:     items,
		Count:     len(items),
		OrgID:     snap.OrgID,
		Source:    string(snap.Source),
		Cached:    res.Cached,
		FetchedAt: &fetched,
	}
	if snap.Result.StrategyUsed != nil {
		out.Strategy = string(*snap.Result.StrategyUsed)
	}
	if e := snap.Result.Error; e != nil {
		out.Error = e.Message
		for _, s := range e.Attempted {
			out.Attempted = append(out.Attempted, string(s))
		}
	}
	return out
}

// ListingsError is the envelope for a request that produced no result.
func ListingsError(message string, upstreamStatus int) ListingsResponse {
	return ListingsResponse{
		OK:             false,
		Items:          []entity.ItemRecord{},
		Error:          message,
		UpstreamStatus: upstreamStatus,
	}
}

type PingResponse struct {
	OK   bool      `json:"ok"`
	Time time.Time `json:"time"`
}

type ContactResponse struct {
	Success bool `json:"success"`
}

// RunResponse is a DTO for entity.ExtractionRun.
type RunResponse struct {
	ID             int64     `json:"id"`
	OrgID          string    `json:"orgId"`
	Source         string    `json:"source,omitempty"`
	Strategy       string    `json:"strategy,omitempty"`
	ItemCount      int       `json:"itemCount"`
	OK             bool      `json:"ok"`
	Error          string    `json:"error,omitempty"`
	UpstreamStatus int       `json:"upstreamStatus,omitempty"`
	DurationMS     int       `json:"durationMs"`
	RunTimestamp   time.Time `json:"runTimestamp"`
}

func NewRunResponses(runs []*entity.ExtractionRun) []RunResponse {
	out := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, RunResponse{
			ID:             r.ID,
			OrgID:          r.OrgID,
			Source:         string(r.Source),
			Strategy:       r.Strategy,
			ItemCount:      r.ItemCount,
			OK:             r.OK,
			Error:          r.ErrorMessage,
			UpstreamStatus: r.HTTPStatusCode,
			DurationMS:     r.DurationMS,
			RunTimestamp:   r.RunTimestamp,
		})
	}
	return out
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
