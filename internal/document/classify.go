package document

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/GriffinCanCode/asterix/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/asterix/internal/shared/types"
	"github.com/GriffinCanCode/asterix/internal/transport"
)

// Classify maps a transport error to a response status and, for network
// errors, the kind of failure. A nil error classifies as StatusOK.
func Classify(err error) (types.Status, types.NetworkErrorKind) {
	if err == nil {
		return types.StatusOK, ""
	}
	if errors.Is(err, context.Canceled) {
		return types.StatusCancelled, ""
	}
	return types.StatusNetworkError, classifyKind(err)
}

func classifyKind(err error) types.NetworkErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return types.KindTimeout
	case errors.Is(err, transport.ErrTooManyRedirects):
		return types.KindTooManyRedirects
	case errors.Is(err, transport.ErrBodyTooLarge):
		return types.KindBodyTooLarge
	case errors.Is(err, transport.ErrInvalidURL):
		return types.KindInvalidURL
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		return types.KindCircuitOpen
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return types.KindDNS
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return types.KindConnectionRefused
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE),
		errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return types.KindConnectionReset
	}

	if isTLSError(err) {
		return types.KindTLS
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return types.KindTimeout
	}

	return types.KindOther
}

func isTLSError(err error) bool {
	var (
		recordErr    tls.RecordHeaderError
		verifyErr    *tls.CertificateVerificationError
		alertErr     tls.AlertError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	return errors.As(err, &recordErr) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}
