package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"
)

// ErrBrowserClosed is returned by fetches issued after the browser was shut down
var ErrBrowserClosed = errors.New("browser is closed")

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// PageResult is what a fetch of one product page produced. A failed fetch
// carries Err and whatever status was observed before the failure.
type PageResult struct {
	URL        string
	StatusCode int
	Content    string
	Text       string
	Err        error
}

// PageFetcher loads a product page and returns its rendered markup
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) PageResult
}

// FetcherOptions configures the headless browser
type FetcherOptions struct {
	BrowserBin string
	Timeout    time.Duration
	Settle     time.Duration
	UserAgent  string
}

// RodFetcher renders pages in a headless Chromium
type RodFetcher struct {
	browser *rod.Browser
	opts    FetcherOptions
	mu      sync.Mutex
}

// NewRodFetcher launches the browser; use the system Chromium when one is installed
func NewRodFetcher(opts FetcherOptions) (*RodFetcher, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false)

	bin := opts.BrowserBin
	if bin == "" {
		if _, err := os.Stat("/usr/bin/chromium-browser"); err == nil {
			bin = "/usr/bin/chromium-browser"
		}
	}
	if bin != "" {
		l = l.Bin(bin)
		log.Info().Str("bin", bin).Msg("using system chromium")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	log.Info().Str("control_url", controlURL).Msg("browser connected")

	return &RodFetcher{browser: browser, opts: opts}, nil
}

// FetchPage navigates to url, waits for the DOM plus a settle delay and returns
// the markup and visible text
func (f *RodFetcher) FetchPage(ctx context.Context, url string) PageResult {
	result := PageResult{URL: url}

	f.mu.Lock()
	browser := f.browser
	f.mu.Unlock()
	if browser == nil {
		result.Err = ErrBrowserClosed
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		result.Err = fmt.Errorf("failed to open page: %w", err)
		return result
	}
	defer page.Close()

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.opts.UserAgent}); err != nil {
		result.Err = fmt.Errorf("failed to set user agent: %w", err)
		return result
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{Width: 1280, Height: 720, DeviceScaleFactor: 1}); err != nil {
		result.Err = fmt.Errorf("failed to set viewport: %w", err)
		return result
	}

	var status int
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})
	waitDOM := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)

	if err := page.Navigate(url); err != nil {
		result.Err = fmt.Errorf("failed to navigate: %w", err)
		return result
	}
	waitDOM()
	waitResponse()
	result.StatusCode = status

	select {
	case <-time.After(f.opts.Settle):
	case <-ctx.Done():
		result.Err = ctx.Err()
		return result
	}

	content, err := page.HTML()
	if err != nil {
		result.Err = fmt.Errorf("failed to read page: %w", err)
		return result
	}
	result.Content = content

	if body, err := page.Element("body"); err == nil {
		if text, err := body.Text(); err == nil {
			result.Text = text
		}
	}
	if result.Text == "" {
		result.Text = VisibleText(content)
	}

	return result
}

// Close shuts the browser down
func (f *RodFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser == nil {
		return nil
	}
	err := f.browser.Close()
	f.browser = nil
	return err
}

// LazyFetcher launches the browser on first use so that the service starts
// without one; a failed launch is retried on the next fetch
type LazyFetcher struct {
	opts    FetcherOptions
	mu      sync.Mutex
	fetcher *RodFetcher
}

// NewLazyFetcher creates a fetcher that defers browser startup
func NewLazyFetcher(opts FetcherOptions) *LazyFetcher {
	return &LazyFetcher{opts: opts}
}

// FetchPage launches the browser if needed and delegates to it
func (l *LazyFetcher) FetchPage(ctx context.Context, url string) PageResult {
	l.mu.Lock()
	if l.fetcher == nil {
		f, err := NewRodFetcher(l.opts)
		if err != nil {
			l.mu.Unlock()
			log.Error().Err(err).Msg("browser unavailable")
			return PageResult{URL: url, Err: err}
		}
		l.fetcher = f
	}
	f := l.fetcher
	l.mu.Unlock()

	return f.FetchPage(ctx, url)
}

// Close shuts the browser down if it was started
func (l *LazyFetcher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fetcher == nil {
		return nil
	}
	err := l.fetcher.Close()
	l.fetcher = nil
	return err
}
