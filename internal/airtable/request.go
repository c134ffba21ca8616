package airtable

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/campgroundfyi/airsync/pkg/errors"
	"github.com/campgroundfyi/airsync/pkg/logging"
	"github.com/campgroundfyi/airsync/pkg/reconcile"
	"github.com/campgroundfyi/airsync/pkg/records"
)

// listResponse is one page of the paginated list endpoint. Offset is present
// only when more pages remain.
type listResponse struct {
	Records []records.Record `json:"records"`
	Offset  string           `json:"offset,omitempty"`
}

// recordResponse is a single record returned by lookup calls.
type recordResponse struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// updatePayload is the body of a batch update or create call.
type updatePayload struct {
	Records []updateEntry `json:"records"`
}

type updateEntry struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

// newUpdatePayload wraps pending updates into the wire shape.
func newUpdatePayload(updates []reconcile.Update) updatePayload {
	entries := make([]updateEntry, 0, len(updates))
	for _, u := range updates {
		entries = append(entries, updateEntry{ID: u.ID, Fields: u.Fields})
	}
	return updatePayload{Records: entries}
}

// newCreatePayload wraps field mappings for a batch create call.
func newCreatePayload(fields []map[string]any) updatePayload {
	entries := make([]updateEntry, 0, len(fields))
	for _, f := range fields {
		entries = append(entries, updateEntry{Fields: f})
	}
	return updatePayload{Records: entries}
}

// decodeResponse decodes a JSON response into target, mapping non-2xx status
// codes onto the error taxonomy.
func decodeResponse(resp *http.Response, table string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &errors.APIError{
			Table:      table,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}
