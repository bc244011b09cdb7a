package types

import "time"

// PageRequest is one navigation of one tab
type PageRequest struct {
	Tab        TabID      `json:"tab"`
	URL        string     `json:"url"`
	Generation Generation `json:"generation"`
}

// Status is the outcome class of a page fetch
type Status string

const (
	StatusOK           Status = "ok"
	StatusHTTPError    Status = "http_error"
	StatusNetworkError Status = "network_error"
	StatusCancelled    Status = "cancelled"
)

// NetworkErrorKind keeps the diagnostic class of a transport failure
type NetworkErrorKind string

const (
	KindTimeout           NetworkErrorKind = "timeout"
	KindDNS               NetworkErrorKind = "dns"
	KindConnectionReset   NetworkErrorKind = "connection_reset"
	KindConnectionRefused NetworkErrorKind = "connection_refused"
	KindTLS               NetworkErrorKind = "tls"
	KindTooManyRedirects  NetworkErrorKind = "too_many_redirects"
	KindCircuitOpen       NetworkErrorKind = "circuit_open"
	KindInvalidURL        NetworkErrorKind = "invalid_url"
	KindBodyTooLarge      NetworkErrorKind = "body_too_large"
	KindInternal          NetworkErrorKind = "internal"
	KindOther             NetworkErrorKind = "other"
)

// HeaderSummary holds the response headers worth showing. ContentLength is
// the declared length, -1 when the server sent none.
type HeaderSummary struct {
	ContentType   string `json:"content_type,omitempty"`
	ContentLength int64  `json:"content_length"`
	Server        string `json:"server,omitempty"`
	LastModified  string `json:"last_modified,omitempty"`
}

// PageResponse is the normalized result of fetching a document.
// OK always carries Body; HTTPError may carry the error page text;
// NetworkError and Cancelled never do. BodyBytes is the decoded body size.
type PageResponse struct {
	Status    Status           `json:"status"`
	Code      int              `json:"code,omitempty"`
	Kind      NetworkErrorKind `json:"kind,omitempty"`
	Body      *string          `json:"body,omitempty"`
	Title     *string          `json:"title,omitempty"`
	URL       string           `json:"url"`
	MimeType  string           `json:"mime_type,omitempty"`
	Headers   HeaderSummary    `json:"headers"`
	BodyBytes int64            `json:"body_bytes"`
	FetchedAt time.Time        `json:"fetched_at"`
	Duration  time.Duration    `json:"duration"`
}

// Clone returns a deep copy
func (r PageResponse) Clone() PageResponse {
	out := r
	if r.Body != nil {
		body := *r.Body
		out.Body = &body
	}
	if r.Title != nil {
		title := *r.Title
		out.Title = &title
	}
	return out
}

// OK reports whether the fetch succeeded
func (r PageResponse) OK() bool {
	return r.Status == StatusOK
}

// BodyText returns the body or an empty string
func (r PageResponse) BodyText() string {
	if r.Body == nil {
		return ""
	}
	return *r.Body
}

// Cancelled builds a cancelled response
func Cancelled(url string, started, now time.Time) PageResponse {
	return PageResponse{
		Status:    StatusCancelled,
		URL:       url,
		FetchedAt: now,
		Duration:  now.Sub(started),
	}
}

// NetworkFailure builds a network error response
func NetworkFailure(url string, kind NetworkErrorKind, started, now time.Time) PageResponse {
	return PageResponse{
		Status:    StatusNetworkError,
		Kind:      kind,
		URL:       url,
		FetchedAt: now,
		Duration:  now.Sub(started),
	}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
