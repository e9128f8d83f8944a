// Package wcl is the Warcraft Logs GraphQL v2 client. Queries are rendered
// from text templates and posted with a client-credentials bearer token.
package wcl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"text/template"
	"time"

	"luminisbot/share"
	"luminisbot/wcl/oauth"

	"github.com/getsentry/sentry-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const (
	defaultEndpoint = "https://www.warcraftlogs.com/api/v2/client"

	maxRetries  = 3
	callTimeout = 30 * time.Second
)

var (
	sbPool = sync.Pool{
		New: func() interface{} {
			sb := new(strings.Builder)
			sb.Grow(4 * 1024)
			return sb
		},
	}
	bufPool = sync.Pool{
		New: func() interface{} {
			buf := new(bytes.Buffer)
			buf.Grow(4 * 1024)
			return buf
		},
	}
)

type Client struct {
	auth     *oauth.Client
	endpoint string
}

func New(clientID string, clientSecret string) *Client {
	return &Client{
		auth:     oauth.New(clientID, clientSecret),
		endpoint: defaultEndpoint,
	}
}

// NewWithAuth builds a client against an alternate endpoint. Used by tests.
func NewWithAuth(auth *oauth.Client, endpoint string) *Client {
	return &Client{
		auth:     auth,
		endpoint: endpoint,
	}
}

func (c *Client) call(ctx context.Context, tmpl *template.Template, tmplData interface{}, respData interface{}) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = c.callInner(ctx, tmpl, tmplData, respData)

		if err == nil {
			break
		}
		if share.IsContextClosedError(err) {
			return err
		}
		if i+1 < maxRetries {
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}

func (c *Client) callInner(ctx context.Context, tmpl *template.Template, tmplData interface{}, respData interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	sb := sbPool.Get().(*strings.Builder)
	defer sbPool.Put(sb)

	sb.Reset()
	err := tmpl.Execute(sb, tmplData)
	if err != nil {
		sentry.CaptureException(err)
		fmt.Printf("%+v\n", errors.WithStack(err))
		return err
	}

	queryData := struct {
		Query string `json:"query"`
	}{
		Query: sb.String(),
	}

	buf := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(buf)

	buf.Reset()
	err = jsoniter.NewEncoder(buf).Encode(&queryData)
	if err != nil {
		sentry.CaptureException(err)
		return err
	}

	req, ok := c.auth.NewRequest(ctx, "POST", c.endpoint, buf)
	if !ok {
		return errors.New("wcl: authorization failed")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if !share.IsContextClosedError(err) {
			sentry.CaptureException(err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.auth.Reset()
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("wcl: unexpected status %d", resp.StatusCode)
	}

	err = jsoniter.NewDecoder(resp.Body).Decode(respData)
	if err != io.EOF && err != nil {
		sentry.CaptureException(err)
		return err
	}

	return nil
}
