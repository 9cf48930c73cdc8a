package gmail

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	// ErrMessageNotFound is returned when the provider reports that a
	// message id does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrInvalidArgument is returned for malformed request shapes, before
	// any provider call is made.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ProviderError wraps any Gmail API failure that has no more specific
// translation. The provider's message is embedded, which is acceptable for an
// internal tool surface.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gmail api error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// translateError maps Gmail API errors into the gateway's taxonomy.
func translateError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return ErrMessageNotFound
	}
	return &ProviderError{Err: err}
}
