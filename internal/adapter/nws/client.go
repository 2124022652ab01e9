// Package nws fetches the live NWS hydrograph feed for the Indian River
// gauge. The feed is an XML document with observed and forecast stage
// readings; only the observed block is used.
package nws

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
)

// Client fetches observed gauge readings from the NWS hydrograph service.
type Client struct {
	url        string
	httpClient *http.Client
	cachePath  string
	logger     *slog.Logger
}

// NewClient creates a hydrograph client. cachePath, when non-empty, names a
// file the raw feed is mirrored to on success and read back from when the
// service is unreachable.
func NewClient(url string, timeout time.Duration, cachePath string, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cachePath: cachePath,
		logger:    logger,
	}
}

// FetchObserved returns the feed's observed readings in chronological order.
// A fetch failure falls back to the cached copy when one exists.
func (c *Client) FetchObserved(ctx context.Context) ([]domain.Reading, error) {
	raw, err := c.fetch(ctx)
	if err != nil {
		if c.cachePath == "" {
			return nil, err
		}
		cached, readErr := os.ReadFile(c.cachePath)
		if readErr != nil {
			return nil, fmt.Errorf("fetch hydrograph: %w (no cached copy)", err)
		}
		c.logger.Warn("hydrograph fetch failed, using cached feed",
			"error", err,
			"cache", c.cachePath)
		raw = cached
	} else if c.cachePath != "" {
		if writeErr := os.WriteFile(c.cachePath, raw, 0o644); writeErr != nil {
			c.logger.Warn("could not cache hydrograph feed", "error", writeErr)
		}
	}

	return decodeObserved(raw)
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hydrograph request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("hydrograph service error: status %d: %s", resp.StatusCode, body)
	}

	return io.ReadAll(resp.Body)
}

// decodeObserved parses the hydrograph XML. The feed lists observed datums
// newest-first; the result is flipped to chronological.
func decodeObserved(raw []byte) ([]domain.Reading, error) {
	var doc site
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode hydrograph feed: %w", err)
	}
	if len(doc.Observed.Datums) == 0 {
		return nil, fmt.Errorf("hydrograph feed has no observed readings")
	}

	readings := make([]domain.Reading, 0, len(doc.Observed.Datums))
	for _, d := range doc.Observed.Datums {
		ts, err := time.Parse(time.RFC3339, d.Valid.Value)
		if err != nil {
			return nil, fmt.Errorf("decode observed time %q: %w", d.Valid.Value, err)
		}
		height, err := strconv.ParseFloat(strings.TrimSpace(d.Primary.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("decode observed height %q: %w", d.Primary.Value, err)
		}
		readings = append(readings, domain.Reading{
			Timestamp: ts.UTC(),
			Height:    height,
		})
	}

	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
	return readings, nil
}

// Hydrograph feed types.

type site struct {
	XMLName  xml.Name `xml:"site"`
	Observed observed `xml:"observed"`
}

type observed struct {
	Datums []datum `xml:"datum"`
}

type datum struct {
	Valid   validTime `xml:"valid"`
	Primary primary   `xml:"primary"`
}

type validTime struct {
	Timezone string `xml:"timezone,attr"`
	Value    string `xml:",chardata"`
}

type primary struct {
	Name  string `xml:"name,attr"`
	Units string `xml:"units,attr"`
	Value string `xml:",chardata"`
}
