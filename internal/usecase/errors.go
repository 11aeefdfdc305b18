package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/user/listings-service/internal/entity"
)

var (
	// ErrInvalidOrgID is returned for organization ids that are not numeric.
	ErrInvalidOrgID = errors.New("invalid organization id")
	// ErrConfiguration means the service is missing settings it needs for the request.
	ErrConfiguration = errors.New("service is not configured for this request")
	// ErrMissingFields is returned when a submission lacks required fields.
	ErrMissingFields = errors.New("missing required fields")
)

// FetchAttempt records one failed step of a source plan.
type FetchAttempt struct {
	Kind   entity.DocumentKind
	URL    string
	Status int
	Err    error
}

func (a FetchAttempt) String() string {
	if a.Err != nil {
		return fmt.Sprintf("%s %s: %v", a.Kind, a.URL, a.Err)
	}
	return fmt.Sprintf("%s %s: status %d", a.Kind, a.URL, a.Status)
}

// FetchError is returned when no step of the source plan produced a document.
type FetchError struct {
	Attempts []FetchAttempt
}

func (e *FetchError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.String()
	}
	return "upstream fetch failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the transport errors so errors.Is can see context
// cancellation and timeouts.
func (e *FetchError) Unwrap() []error {
	var errs []error
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// UpstreamStatus is the last non-zero HTTP status seen, or 0.
func (e *FetchError) UpstreamStatus() int {
	for i := len(e.Attempts) - 1; i >= 0; i-- {
		if e.Attempts[i].Status != 0 {
			return e.Attempts[i].Status
		}
	}
	return 0
}
