// Package airtable provides the HTTP client for the remote record store:
// paginated listing, batch create and update, single-record deletion, and
// lookup of linked records by identifier.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/campgroundfyi/airsync/pkg/constants"
	"github.com/campgroundfyi/airsync/pkg/errors"
	"github.com/campgroundfyi/airsync/pkg/logging"
	"github.com/campgroundfyi/airsync/pkg/reconcile"
	"github.com/campgroundfyi/airsync/pkg/records"
)

// DefaultBaseURL is the root of the record store REST API.
const DefaultBaseURL = "https://api.airtable.com/v0"

// Client talks to one base of the record store.
type Client struct {
	http    *http.Client
	auth    Authenticator
	baseURL string
	apiKey  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// WithAuthenticator overrides the request authentication scheme. The default
// is bearer-token auth; NoAuth suits local fixtures that check no credentials.
func WithAuthenticator(a Authenticator) ClientOption {
	return func(c *Client) {
		c.auth = a
	}
}

// NewClient creates a client for the given base.
func NewClient(apiKey, baseID string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.NewConfigError("airtable", "API key not set", errors.ErrAPIKeyRequired)
	}
	if baseID == "" {
		return nil, errors.NewConfigError("airtable", "base ID not set", nil)
	}

	c := &Client{
		http:    &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth:    &BearerAuth{},
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = c.baseURL + "/" + baseID
	return c, nil
}

// tableURL returns the endpoint for a table, with path segments escaped so
// table names with spaces survive.
func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + url.PathEscape(table)
}

// do issues a request with authentication and common headers applied.
func (c *Client) do(ctx context.Context, method, rawURL string, body any) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapParse("json", "request body", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, errors.WrapIO("create", method+" "+rawURL, err)
	}

	c.auth.Apply(req, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if method == http.MethodPost || method == http.MethodPatch || method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// List fetches every record in a table, following pagination offsets until
// the store reports no more pages.
func (c *Client) List(ctx context.Context, table string) ([]records.Record, error) {
	log := logging.Ctx(ctx)
	var all []records.Record
	offset := ""

	for {
		u, err := url.Parse(c.tableURL(table))
		if err != nil {
			return nil, errors.WrapValidation("table", err)
		}
		q := u.Query()
		q.Set("pageSize", fmt.Sprintf("%d", constants.MaxPageSize))
		if offset != "" {
			q.Set("offset", offset)
		}
		u.RawQuery = q.Encode()

		resp, err := c.do(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, errors.WrapAPI(table, 0, err)
		}

		var page listResponse
		if err := decodeResponse(resp, table, &page); err != nil {
			return nil, err
		}

		all = append(all, page.Records...)
		log.Debug().
			Str("table", table).
			Int("page_count", len(page.Records)).
			Int("total", len(all)).
			Msg("Fetched page of records")

		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	log.Info().
		Str("table", table).
		Int("count", len(all)).
		Msg("Fetched all records")
	return all, nil
}

// BatchUpdate overwrites fields on up to MaxBatchSize existing records in one
// call.
func (c *Client) BatchUpdate(ctx context.Context, table string, updates []reconcile.Update) error {
	if len(updates) == 0 {
		return nil
	}
	if len(updates) > constants.MaxBatchSize {
		return errors.NewValidationError("updates", len(updates),
			fmt.Sprintf("batch exceeds the per-call cap of %d", constants.MaxBatchSize))
	}

	resp, err := c.do(ctx, http.MethodPatch, c.tableURL(table), newUpdatePayload(updates))
	if err != nil {
		return errors.WrapAPI(table, 0, err)
	}
	return decodeResponse(resp, table, nil)
}

// BatchCreate inserts up to MaxBatchSize new records in one call.
func (c *Client) BatchCreate(ctx context.Context, table string, fields []map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if len(fields) > constants.MaxBatchSize {
		return errors.NewValidationError("records", len(fields),
			fmt.Sprintf("batch exceeds the per-call cap of %d", constants.MaxBatchSize))
	}

	resp, err := c.do(ctx, http.MethodPost, c.tableURL(table), newCreatePayload(fields))
	if err != nil {
		return errors.WrapAPI(table, 0, err)
	}
	return decodeResponse(resp, table, nil)
}

// Delete removes one record. A missing record surfaces as a not-found error.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.tableURL(table)+"/"+url.PathEscape(id), nil)
	if err != nil {
		return errors.WrapAPI(table, 0, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close response body")
		}
		return errors.NewNotFoundError("record", id)
	}
	return decodeResponse(resp, table, nil)
}

// Lookup fetches one record and returns the value of a single field as a
// string. Missing records surface as not-found; a missing field is an empty
// string.
func (c *Client) Lookup(ctx context.Context, table, id, field string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, c.tableURL(table)+"/"+url.PathEscape(id), nil)
	if err != nil {
		return "", errors.WrapAPI(table, 0, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close response body")
		}
		return "", errors.NewNotFoundError("record", id)
	}

	var rec recordResponse
	if err := decodeResponse(resp, table, &rec); err != nil {
		return "", err
	}

	value, _ := rec.Fields[field].(string)
	return value, nil
}

// TableInfo describes a table at a glance.
type TableInfo struct {
	Table       string
	RecordCount int
	FieldNames  []string
}

// Info fetches a single record and reports the table's field names. Useful
// for validating table structure before a run.
func (c *Client) Info(ctx context.Context, table string) (*TableInfo, error) {
	u, err := url.Parse(c.tableURL(table))
	if err != nil {
		return nil, errors.WrapValidation("table", err)
	}
	q := u.Query()
	q.Set("maxRecords", "1")
	u.RawQuery = q.Encode()

	resp, err := c.do(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.WrapAPI(table, 0, err)
	}

	var page listResponse
	if err := decodeResponse(resp, table, &page); err != nil {
		return nil, err
	}

	info := &TableInfo{Table: table, RecordCount: len(page.Records)}
	if len(page.Records) > 0 {
		for name := range page.Records[0].Fields {
			info.FieldNames = append(info.FieldNames, name)
		}
	}
	return info, nil
}
