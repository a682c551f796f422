package goodreturns

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"openfuel-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("openfuel.lib.scrapers.goodreturns")

const PetrolURL = "https://www.goodreturns.in/petrol-price.html"
const DieselURL = "https://www.goodreturns.in/diesel-price.html"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// FetchError wraps the last underlying cause after retries are
// exhausted. One source failing to fetch must not abort the others, so
// callers classify against this type instead of bailing out.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type ClientOptions struct {
	// zero means the 30s default, goodreturns sits behind Cloudflare
	// and challenge resolution is slow
	Timeout time.Duration
	// additional attempts after the first, zero means 2 (3 attempts total)
	RetryCount int
	// base delay, doubled by resty on each retry. zero means 1s.
	RetryWaitTime time.Duration
}

type Client struct {
	http *resty.Client
}

func NewClient(opts ClientOptions) Client {
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.RetryCount == 0 {
		opts.RetryCount = 2
	}
	if opts.RetryWaitTime == 0 {
		opts.RetryWaitTime = time.Second
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.RetryCount)
	client.SetRetryWaitTime(opts.RetryWaitTime)
	client.SetRetryMaxWaitTime(opts.RetryWaitTime * 8)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return res.StatusCode() >= 500 || res.StatusCode() == http.StatusTooManyRequests
	})
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)

	telemetry.InstrumentResty(client, "scrapers/goodreturns/http")

	return Client{http: client}
}

// Fetch retrieves the raw page body for the given price listing url.
func (c Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, &FetchError{URL: url, Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad status")
		return nil, &FetchError{URL: url, Err: err}
	}

	body := res.Body()
	if isChallengePage(body) {
		err := fmt.Errorf("received a cloudflare challenge page instead of content")
		span.RecordError(err)
		span.SetStatus(codes.Error, "cloudflare challenge")
		return nil, &FetchError{URL: url, Err: err}
	}

	return body, nil
}

func isChallengePage(body []byte) bool {
	lower := bytes.ToLower(body)
	return bytes.Contains(lower, []byte("cloudflare")) &&
		bytes.Contains(lower, []byte("ray id"))
}
