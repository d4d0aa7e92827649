// Package feed fetches suggested items from a remote JSON list and maps them
// into payloads the grocery store can bulk-insert.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/basket/internal/model"
)

const DefaultURL = "https://jsonplaceholder.typicode.com/todos?_limit=15"

// ImportError reports a feed that could not be fetched or decoded.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import: %s: %v", e.Reason, e.Err)
	}
	return "import: " + e.Reason
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Record is one entry of the external list.
type Record struct {
	ID        int64   `json:"id"`
	Title     *string `json:"title"`
	Completed bool    `json:"completed"`
}

// Decode reads a JSON array of records. Anything other than an array of
// objects is an ImportError.
func Decode(r io.Reader) ([]Record, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, &ImportError{Reason: "read response", Err: err}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ImportError{Reason: "response is not a list"}
	}

	var records []Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, &ImportError{Reason: "decode response", Err: err}
	}
	return records, nil
}

// MapRecords turns feed records into insert payloads. Records without a
// usable title are named "Suggestion N" by their 1-based position.
func MapRecords(records []Record) []model.InsertPayload {
	payloads := make([]model.InsertPayload, 0, len(records))
	for i, rec := range records {
		name := ""
		if rec.Title != nil {
			name = strings.TrimSpace(*rec.Title)
		}
		if name == "" {
			name = fmt.Sprintf("Suggestion %d", i+1)
		}

		quantity := int(rec.ID%5) + 1
		if quantity < 1 {
			quantity = 1
		}

		category := "Suggested"
		if rec.Completed {
			category = "Bought"
		}

		payloads = append(payloads, model.InsertPayload{
			Name:     name,
			Quantity: quantity,
			Category: category,
			Bought:   rec.Completed,
		})
	}
	return payloads
}

// Client fetches records from a feed URL.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a client for url. An empty url uses DefaultURL and a
// zero timeout uses 10 seconds.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads and decodes the feed.
func (c *Client) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &ImportError{Reason: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ImportError{Reason: "feed request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ImportError{Reason: fmt.Sprintf("feed returned status %d", resp.StatusCode)}
	}

	return Decode(resp.Body)
}
