package scraper

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RetryPolicy configures how often a blocked fetch is repeated
type RetryPolicy struct {
	MaxAttempts int           // total attempts, including the first
	Backoff     time.Duration // multiplied by the attempt number
}

// DefaultRetryPolicy returns default retry options
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     800 * time.Millisecond,
	}
}

// Delay returns the pause after a failed attempt (1-based)
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.Backoff * time.Duration(attempt)
}

// RegionFetch holds the latest page of each locale after retries finished
type RegionFetch struct {
	Primary   PageResult
	Secondary PageResult
	Attempts  int
}

// FetchRegions fetches both locale pages, repeating the pair while either comes
// back empty or blocked. The last attempt is returned even when still blocked.
func FetchRegions(ctx context.Context, fetcher PageFetcher, detector *BotDetector, policy RetryPolicy, primaryURL, secondaryURL string) RegionFetch {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var out RegionFetch
	for attempt := 1; attempt <= attempts; attempt++ {
		out.Attempts = attempt
		out.Primary = fetcher.FetchPage(ctx, primaryURL)
		out.Secondary = fetcher.FetchPage(ctx, secondaryURL)

		primaryBlocked := detector.Unusable(out.Primary.Content)
		secondaryBlocked := detector.Unusable(out.Secondary.Content)
		log.Info().
			Int("attempt", attempt).
			Int("primary_status", out.Primary.StatusCode).
			Int("secondary_status", out.Secondary.StatusCode).
			Bool("primary_blocked", primaryBlocked).
			Bool("secondary_blocked", secondaryBlocked).
			Msg("fetched region pages")

		if !primaryBlocked && !secondaryBlocked {
			break
		}
		if attempt == attempts {
			break
		}

		select {
		case <-time.After(policy.Delay(attempt)):
		case <-ctx.Done():
			return out
		}
	}
	return out
}
