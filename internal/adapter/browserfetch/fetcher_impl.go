package browserfetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/listings-service/internal/repository"
)

const browserUserAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36`

// Fetcher renders pages in headless Chrome so client-side rendered search
// results are present in the returned HTML.
type Fetcher struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	tabs        chan struct{}
	timeout     time.Duration
	logger      *zap.Logger
}

// NewFetcher starts an allocator that launches Chrome lazily on first use.
// At most maxTabs pages are rendered at once.
func NewFetcher(maxTabs int, timeout time.Duration, proxy string, logger *zap.Logger) *Fetcher {
	if maxTabs <= 0 {
		maxTabs = 2
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(browserUserAgent),
	)
	if proxy != "" {
		opts = append(opts, chromedp.ProxyServer(proxy))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &Fetcher{
		allocCtx:    allocCtx,
		cancelAlloc: cancel,
		tabs:        make(chan struct{}, maxTabs),
		timeout:     timeout,
		logger:      logger,
	}
}

// Fetch navigates to req.URL and returns the rendered document.
func (f *Fetcher) Fetch(ctx context.Context, req repository.FetchRequest) (*repository.FetchResponse, error) {
	select {
	case f.tabs <- struct{}{}:
		defer func() { <-f.tabs }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	taskCtx, cancel := chromedp.NewContext(f.allocCtx,
		chromedp.WithLogf(f.logger.Sugar().Debugf),
		chromedp.WithErrorf(f.logger.Sugar().Debugf))
	defer cancel()

	// Tie the tab to the caller's context as well as the render timeout.
	taskCtx, cancel = context.WithTimeout(taskCtx, f.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	start := time.Now()
	resp, err := chromedp.RunResponse(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(extraHeaders(req.Headers)),
		chromedp.Navigate(req.URL),
	)
	if err != nil {
		f.logger.Warn("browser navigation failed", zap.String("url", req.URL), zap.Error(err))
		return nil, fmt.Errorf("render %s: %w", req.URL, err)
	}
	if resp == nil {
		return nil, errors.New("render " + req.URL + ": no response")
	}

	var html string
	if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("read rendered html: %w", err)
	}

	f.logger.Debug("page rendered",
		zap.String("url", req.URL),
		zap.Int64("status", resp.Status),
		zap.Duration("duration", time.Since(start)))
	return &repository.FetchResponse{
		Status:   int(resp.Status),
		Body:     html,
		FinalURL: resp.URL,
	}, nil
}

// Close shuts the browser down.
func (f *Fetcher) Close() {
	f.cancelAlloc()
}

// extraHeaders converts request headers for the DevTools protocol. The
// user agent is set on the browser itself.
func extraHeaders(h map[string]string) network.Headers {
	out := network.Headers{
		"Accept-Language": "nb-NO,nb;q=0.9,no;q=0.8,en;q=0.5",
		"Cache-Control":   "no-cache",
	}
	for k, v := range h {
		if k == "User-Agent" {
			continue
		}
		out[k] = v
	}
	return out
}
