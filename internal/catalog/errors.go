package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnreachable wraps transport failures: DNS, refused connections, timeouts.
var ErrUnreachable = errors.New("catalog api unreachable")

// APIError reports a non-2xx response from the catalog API.
type APIError struct {
	Method  string
	URL     string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api %s %s returned status %d", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.URL, e.Status, e.Message)
}

// StatusText is the short form shown to users, e.g. "404 Not Found".
func (e *APIError) StatusText() string {
	text := http.StatusText(e.Status)
	if text == "" {
		return fmt.Sprintf("%d", e.Status)
	}
	return fmt.Sprintf("%d %s", e.Status, text)
}

// ErrorKind groups failures by where they are recovered.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindHTTP
	KindValidation
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Kinded lets errors defined in other packages report their kind.
type Kinded interface {
	Kind() ErrorKind
}

// Classify maps an error onto the error taxonomy. Nil yields KindUnknown.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var kinded Kinded
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return KindHTTP
	}
	if errors.Is(err, ErrUnreachable) {
		return KindNetwork
	}
	return KindUnknown
}
