// Package drive lists the most recently modified files of a Drive account.
package drive

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/matheuskafuri/recentdrive/internal/cache"
)

const (
	DefaultEndpoint = "https://www.googleapis.com/drive/v3/"

	PageSize = 20
	OrderBy  = "modifiedTime desc"
	Fields   = "files(id,name,mimeType,modifiedTime,viewedByMeTime)"
)

// Lister fetches the recent-files listing with a bearer token.
type Lister interface {
	ListRecent(ctx context.Context, token string) ([]cache.FileRecord, error)
}

// FetchError is any transport, status or decoding failure of the listing call.
// Status is the HTTP status when the endpoint answered, zero otherwise.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("listing files: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("listing files: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Client struct {
	endpoint string
	base     *http.Client
}

func NewClient(endpoint string, base *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if base == nil {
		base = http.DefaultClient
	}
	return &Client{endpoint: endpoint, base: base}
}

func (c *Client) ListRecent(ctx context.Context, token string) ([]cache.FileRecord, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	hc := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.base), ts)

	srv, err := drivev3.NewService(ctx, option.WithHTTPClient(hc), option.WithEndpoint(c.endpoint))
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	resp, err := srv.Files.List().
		OrderBy(OrderBy).
		PageSize(PageSize).
		Fields(Fields).
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, &FetchError{Status: gerr.Code, Err: err}
		}
		return nil, &FetchError{Err: err}
	}

	files := make([]cache.FileRecord, 0, len(resp.Files))
	for _, f := range resp.Files {
		if f == nil {
			continue
		}
		files = append(files, cache.FileRecord{
			ID:             f.Id,
			Name:           f.Name,
			MimeType:       f.MimeType,
			ModifiedTime:   f.ModifiedTime,
			ViewedByMeTime: f.ViewedByMeTime,
		})
	}
	return files, nil
}
