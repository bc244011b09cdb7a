package document

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/asterix/internal/infrastructure/logging"
	"github.com/GriffinCanCode/asterix/internal/shared/types"
	"github.com/GriffinCanCode/asterix/internal/transport"
)

// Fetcher produces a page response for a URL
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) types.PageResponse
}

// Options configures a Pipeline
type Options struct {
	Logger    *logging.Logger
	Extractor Extractor
	Now       func() time.Time
}

// Pipeline fetches documents and normalizes them into page responses
type Pipeline struct {
	transport transport.Transport
	extractor Extractor
	log       *logging.Logger
	now       func() time.Time
}

// NewPipeline creates a pipeline over tr
func NewPipeline(tr transport.Transport, opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Extractor == nil {
		opts.Extractor = NewTextExtractor()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		transport: tr,
		extractor: opts.Extractor,
		log:       opts.Logger.Named("document"),
		now:       opts.Now,
	}
}

// FetchDocument fetches url and never fails: every outcome, including
// cancellation, is a PageResponse variant.
func (p *Pipeline) FetchDocument(ctx context.Context, url string) types.PageResponse {
	started := p.now()

	if resp, done := p.interrupted(ctx, url, started); done {
		return resp
	}

	raw, err := p.transport.Fetch(ctx, url)
	if err != nil {
		if resp, done := p.interrupted(ctx, url, started); done {
			return resp
		}
		status, kind := Classify(err)
		p.log.Debug("Fetch failed",
			logging.URL(url),
			zap.String("kind", string(kind)),
			zap.Error(err))
		if status == types.StatusCancelled {
			return types.Cancelled(url, started, p.now())
		}
		return types.NetworkFailure(url, kind, started, p.now())
	}

	if resp, done := p.interrupted(ctx, url, started); done {
		return resp
	}
	if raw == nil {
		p.log.Warn("Transport returned no response", logging.URL(url))
		return types.NetworkFailure(url, types.KindOther, started, p.now())
	}

	return p.build(raw, started)
}

// interrupted reports a context that ended before or around the round trip
func (p *Pipeline) interrupted(ctx context.Context, url string, started time.Time) (types.PageResponse, bool) {
	err := ctx.Err()
	switch {
	case err == nil:
		return types.PageResponse{}, false
	case errors.Is(err, context.DeadlineExceeded):
		return types.NetworkFailure(url, types.KindTimeout, started, p.now()), true
	default:
		return types.Cancelled(url, started, p.now()), true
	}
}

func (p *Pipeline) build(raw *transport.Response, started time.Time) types.PageResponse {
	finalURL := raw.URL
	contentType := raw.Header.Get("Content-Type")

	resp := types.PageResponse{
		Code:      raw.StatusCode,
		URL:       finalURL,
		BodyBytes: int64(len(raw.Body)),
		Headers: types.HeaderSummary{
			ContentType:   contentType,
			ContentLength: contentLength(raw.Header),
			Server:        raw.Header.Get("Server"),
			LastModified:  raw.Header.Get("Last-Modified"),
		},
	}

	extraction := p.extract(Document{
		URL:         finalURL,
		ContentType: contentType,
		Body:        raw.Body,
	})
	resp.MimeType = extraction.MimeType
	resp.Title = extraction.Title

	if raw.StatusCode >= 200 && raw.StatusCode < 300 {
		resp.Status = types.StatusOK
		resp.Body = types.StringPtr(extraction.Text)
	} else {
		resp.Status = types.StatusHTTPError
		if extraction.Text != "" {
			resp.Body = types.StringPtr(extraction.Text)
		}
	}

	resp.FetchedAt = p.now()
	resp.Duration = resp.FetchedAt.Sub(started)
	return resp
}

// contentLength reads the declared Content-Length, -1 when absent or invalid
func contentLength(h http.Header) int64 {
	n, err := strconv.ParseInt(h.Get("Content-Length"), 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// extract runs the extractor, degrading to a markup strip on failure
func (p *Pipeline) extract(doc Document) *Extraction {
	extraction, err := p.extractor.Extract(doc)
	if err == nil && extraction != nil {
		return extraction
	}

	p.log.Debug("Extraction failed, stripping markup",
		logging.URL(doc.URL),
		zap.Error(err))

	return &Extraction{
		Text:     StripMarkup(doc.Body),
		MimeType: MediaType(doc.ContentType, doc.Body),
	}
}
