package repository

import "context"

// FetchRequest describes one upstream GET.
type FetchRequest struct {
	URL     string
	Headers map[string]string
}

// FetchResponse carries the upstream status and body. Non-2xx statuses are
// returned here rather than as errors so callers can report them.
type FetchResponse struct {
	Status int
	Body   string
	// FinalURL is the URL after redirects, when the fetcher knows it.
	FinalURL string
}

// OK reports whether the upstream answered with a 2xx status.
func (r *FetchResponse) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Fetcher retrieves raw documents from the listings site.
type Fetcher interface {
	// Fetch performs the request. Transport failures are returned as errors.
	Fetch(ctx context.Context, req FetchRequest) (*FetchResponse, error)
}
