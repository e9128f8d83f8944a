package share

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/pkg/errors"
)

func TestIsContextClosedError(t *testing.T) {
	for _, c := range []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped canceled", fmt.Errorf("call: %w", context.Canceled), true},
		{"url error", &url.Error{Op: "Post", URL: "https://x", Err: context.Canceled}, true},
		{"stacked deadline", errors.WithStack(context.DeadlineExceeded), true},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
		{"url non-cancel", &url.Error{Op: "Post", URL: "https://x", Err: errors.New("refused")}, false},
	} {
		if got := IsContextClosedError(c.err); got != c.want {
			t.Errorf("%s: IsContextClosedError = %v, want %v", c.name, got, c.want)
		}
	}
}
