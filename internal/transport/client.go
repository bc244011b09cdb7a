package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/asterix/internal/infrastructure/config"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/logging"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/resilience"
)

// Client wraps resty with retries, rate limiting and per-host circuit breakers
type Client struct {
	resty    *resty.Client
	limiter  *rate.Limiter
	breakers *resilience.HostSet
	maxBody  int64
	log      *logging.Logger
}

// NewClient builds the production transport from cfg
func NewClient(cfg config.TransportConfig, log *logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NewNop()
	}
	log = log.Named("transport")

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	// Redirects and cookies live on the inner client so every hop sees them
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = newRetryLogger(log)
	retryClient.CheckRetry = checkRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Jar = jar
	retryClient.HTTPClient.CheckRedirect = redirectPolicy(cfg.MaxRedirects)

	restyClient := resty.NewWithClient(retryClient.StandardClient())
	restyClient.
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetHeader("Accept-Encoding", acceptEncoding)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimitRPS > 0 {
		burst := int(cfg.RateLimitRPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	failures := uint32(cfg.BreakerFailures)
	breakers := resilience.NewHostSet(resilience.Settings{
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return failures > 0 && counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(host string, from, to resilience.State) {
			log.Info("Circuit breaker state changed",
				zap.String("host", host),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		resty:    restyClient,
		limiter:  limiter,
		breakers: breakers,
		maxBody:  cfg.MaxBodyBytes,
		log:      log,
	}, nil
}

// Fetch performs a GET for rawURL and returns the decoded body
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	var resp *resty.Response
	err = c.breakers.For(target.Host).Do(ctx, func() error {
		var reqErr error
		resp, reqErr = c.resty.R().
			SetContext(ctx).
			SetDoNotParseResponse(true).
			Get(target.String())
		return reqErr
	})
	if err != nil {
		if resp != nil && resp.RawResponse != nil {
			resp.RawResponse.Body.Close()
		}
		return nil, err
	}

	raw := resp.RawBody()
	defer raw.Close()

	body, err := readLimited(raw, c.maxBody)
	if err != nil {
		return nil, err
	}

	header := resp.Header().Clone()
	body, err = decodeBody(header.Get("Content-Encoding"), body, c.maxBody)
	if err != nil {
		return nil, err
	}
	header.Del("Content-Encoding")

	finalURL := target.String()
	if resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		finalURL = resp.RawResponse.Request.URL.String()
	}

	c.log.Debug("Fetched document",
		logging.URL(finalURL),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(body)))

	return &Response{
		URL:        finalURL,
		StatusCode: resp.StatusCode(),
		Header:     header,
		Body:       body,
	}, nil
}

// BreakerStates reports circuit state per host
func (c *Client) BreakerStates() map[string]resilience.State {
	return c.breakers.States()
}

func redirectPolicy(max int) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) > max {
			return fmt.Errorf("%w: stopped after %d redirects", ErrTooManyRedirects, max)
		}
		return nil
	}
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if errors.Is(err, ErrTooManyRedirects) {
		return false, err
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}
