package share

import (
	"context"
	"errors"
)

// IsContextClosedError reports whether err is, anywhere in its chain, a
// context cancellation or an exceeded deadline. Wrappers like *url.Error
// and pkg/errors stacks unwrap transparently.
func IsContextClosedError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
