package platform

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"

	"github.com/lukman83/vitrine/internal/schema"
)

// ErrorKind tells which boundary check a FetchError came from.
type ErrorKind int

const (
	KindHTTP ErrorKind = iota + 1
	KindValidation
	KindNetwork
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// FetchError is the single error type callers of a Source handle. Message is meant for
// display; Err keeps the underlying cause.
type FetchError struct {
	Kind       ErrorKind
	Op         string
	ProductID  int
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string { return e.Message }

func (e *FetchError) Unwrap() error { return e.Err }

// Operations named in error messages.
const (
	OpList   = "list products"
	OpGet    = "fetch product"
	OpCreate = "create product"
	OpUpdate = "update product"
	OpDelete = "delete product"
)

// target renders the operation with the product id when one applies,
// e.g. "fetch product 7".
func target(op string, id int) string {
	if id > 0 {
		return fmt.Sprintf("%s %d", op, id)
	}
	return op
}

// HTTPError builds the error for a non-2xx response.
func HTTPError(op string, id, status int) *FetchError {
	return &FetchError{
		Kind:       KindHTTP,
		Op:         op,
		ProductID:  id,
		StatusCode: status,
		Message:    fmt.Sprintf("%s failed: %d %s", target(op, id), status, http.StatusText(status)),
	}
}

// ValidationError builds the error for a payload that failed schema validation.
func ValidationError(op string, id int, err error) *FetchError {
	return &FetchError{
		Kind:      KindValidation,
		Op:        op,
		ProductID: id,
		Message:   "invalid product data: " + schema.FormatValidationErrors(err),
		Err:       err,
	}
}

// Normalize folds any error raised while performing op into a *FetchError. Existing
// FetchErrors pass through. The error is returned untouched only when ctx itself is done;
// a client timeout with a live ctx is a network failure.
func Normalize(ctx context.Context, op string, id int, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if ctx.Err() != nil {
		return err
	}
	if isConnectionError(err) {
		return &FetchError{
			Kind:      KindNetwork,
			Op:        op,
			ProductID: id,
			Message:   "connection error: check your network and try again",
			Err:       err,
		}
	}
	return &FetchError{
		Kind:      KindUnexpected,
		Op:        op,
		ProductID: id,
		Message:   fmt.Sprintf("unexpected error while trying to %s", target(op, id)),
		Err:       err,
	}
}

func isConnectionError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

// IsNotFound reports whether err is an HTTP 404 from the product source.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindHTTP && fe.StatusCode == http.StatusNotFound
}

// Retryable reports whether offering a retry makes sense for err.
func Retryable(err error) bool {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return false
	}
	switch fe.Kind {
	case KindNetwork:
		return true
	case KindHTTP:
		return fe.StatusCode >= 500 || fe.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}
