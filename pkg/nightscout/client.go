// Package nightscout fetches glucose entries from a Nightscout site and
// feeds them onto the reading bus.
package nightscout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/dribbe/glucomon/pkg/glucose"
)

// Entry is one record from /api/v1/entries. SGV entries carry the sensor
// glucose value in mg/dL, MBG entries a manually entered blood glucose.
type Entry struct {
	ID        string `json:"_id"`
	Type      string `json:"type"`
	SGV       int    `json:"sgv"`
	MBG       int    `json:"mbg"`
	Date      int64  `json:"date"`
	DateStr   string `json:"dateString"`
	Direction string `json:"direction"`
	Device    string `json:"device"`
}

func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Date)
}

// Reading converts the entry to the domain reading. Entries without a
// value (sensor error records) yield a reading with a nil value.
func (e Entry) Reading() glucose.Reading {
	r := glucose.Reading{
		Timestamp: e.Time(),
		Trend:     glucose.TrendFromString(e.Direction),
	}
	switch {
	case e.Type == "mbg" && e.MBG > 0:
		v := e.MBG
		r.Value = &v
		r.Kind = glucose.KindManual
	case e.SGV > 0:
		v := e.SGV
		r.Value = &v
	}
	return r
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Entries returns the latest count entries, newest first.
func (c *Client) Entries(ctx context.Context, count int) ([]Entry, error) {
	u, err := url.Parse(c.baseURL + "/api/v1/entries/sgv.json")
	if err != nil {
		return nil, fmt.Errorf("nightscout url: %w", err)
	}
	q := u.Query()
	q.Set("count", strconv.Itoa(count))
	if c.token != "" {
		q.Set("token", c.token)
	}
	u.RawQuery = q.Encode()

	return retry.DoWithData(
		func() ([]Entry, error) {
			return c.fetch(ctx, u.String())
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
	)
}

func (c *Client) fetch(ctx context.Context, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("nightscout: %s", resp.Status)
	}
	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("nightscout decode: %w", err)
	}
	return entries, nil
}
