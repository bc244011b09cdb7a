/*
Package transport fetches raw document bytes over HTTP.

The browser core sees only the Transport interface. Client is the production
implementation: resty on top of a go-retryablehttp client, with a cookie jar,
a redirect limit, a global token bucket, per-host circuit breakers, a body
size cap and Content-Encoding decoding (gzip, deflate, zstd).

Failures come back as plain errors. Callers classify them with errors.Is and
errors.As against ErrTooManyRedirects, ErrBodyTooLarge, ErrInvalidURL,
resilience.ErrCircuitOpen, context errors and the net package error types.
*/
package transport
