// Package trends is a small client for the Google Trends web API: the
// explore call that hands out a widget token, and the multiline widget call
// that returns the interest-over-time timeline.
package trends

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/dtnitsch/trendreport/pkg/fetcher"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	explorePath   = "/trends/api/explore"
	multilinePath = "/trends/api/widgetdata/multiline"
	bootstrapPath = "/trends/explore"

	timeseriesWidgetID = "TIMESERIES"
)

// Client fetches interest over time for up to five keywords.
type Client interface {
	InterestOverTime(ctx context.Context, keywords []string, timeframe string) (*Frame, error)
}

// Options configures an HTTPClient.
type Options struct {
	BaseURL string
	HL      string
	TZ      int
	Geo     string
	Logger  *slog.Logger
}

// HTTPClient talks to trends.google.com (or any server speaking the same protocol).
type HTTPClient struct {
	fetcher      *fetcher.Fetcher
	opts         Options
	logger       *slog.Logger
	bootstrapped bool
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client on top of f.
func NewHTTPClient(f *fetcher.Fetcher, opts Options) *HTTPClient {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &HTTPClient{fetcher: f, opts: opts, logger: logger}
}

type comparisonItem struct {
	Keyword string `json:"keyword"`
	Time    string `json:"time"`
	Geo     string `json:"geo"`
}

type exploreRequest struct {
	ComparisonItem []comparisonItem `json:"comparisonItem"`
	Category       int              `json:"category"`
	Property       string           `json:"property"`
}

type exploreResponse struct {
	Widgets []widget `json:"widgets"`
}

type widget struct {
	ID      string              `json:"id"`
	Token   string              `json:"token"`
	Request jsoniter.RawMessage `json:"request"`
}

type multilineResponse struct {
	Default struct {
		TimelineData []timelinePoint `json:"timelineData"`
	} `json:"default"`
}

type timelinePoint struct {
	Time      string    `json:"time"`
	Value     []float64 `json:"value"`
	IsPartial bool      `json:"isPartial"`
}

// InterestOverTime builds the explore payload for keywords and timeframe,
// then fetches the TIMESERIES widget. An empty timeline yields an empty
// frame and no error; the caller decides what empty means.
func (c *HTTPClient) InterestOverTime(ctx context.Context, keywords []string, timeframe string) (*Frame, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("trends: no keywords")
	}
	c.bootstrap(ctx)

	w, err := c.timeseriesWidget(ctx, keywords, timeframe)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("hl", c.opts.HL)
	q.Set("tz", strconv.Itoa(c.opts.TZ))
	q.Set("req", string(w.Request))
	q.Set("token", w.Token)

	body, err := c.fetcher.GetBytes(ctx, c.opts.BaseURL+multilinePath+"?"+q.Encode())
	if err != nil {
		return nil, classify("multiline", err)
	}

	var resp multilineResponse
	if err := json.Unmarshal(stripGuard(body), &resp); err != nil {
		return nil, fmt.Errorf("multiline: failed to decode response: %w", err)
	}
	return toFrame(keywords, resp.Default.TimelineData)
}

// bootstrap performs the cookie-seeding page load once per client. Failures
// are logged and otherwise ignored: the API calls report their own errors.
func (c *HTTPClient) bootstrap(ctx context.Context) {
	if c.bootstrapped {
		return
	}
	c.bootstrapped = true
	q := url.Values{}
	q.Set("geo", c.opts.Geo)
	if _, err := c.fetcher.GetBytes(ctx, c.opts.BaseURL+bootstrapPath+"?"+q.Encode()); err != nil {
		c.logger.Debug("cookie bootstrap failed", "error", err)
	}
}

func (c *HTTPClient) timeseriesWidget(ctx context.Context, keywords []string, timeframe string) (*widget, error) {
	payload := exploreRequest{Category: 0, Property: ""}
	for _, kw := range keywords {
		payload.ComparisonItem = append(payload.ComparisonItem, comparisonItem{
			Keyword: kw,
			Time:    timeframe,
			Geo:     c.opts.Geo,
		})
	}
	reqJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("explore: failed to encode payload: %w", err)
	}

	q := url.Values{}
	q.Set("hl", c.opts.HL)
	q.Set("tz", strconv.Itoa(c.opts.TZ))
	q.Set("req", string(reqJSON))

	body, err := c.fetcher.GetBytes(ctx, c.opts.BaseURL+explorePath+"?"+q.Encode())
	if err != nil {
		return nil, classify("explore", err)
	}

	var resp exploreResponse
	if err := json.Unmarshal(stripGuard(body), &resp); err != nil {
		return nil, fmt.Errorf("explore: failed to decode response: %w", err)
	}
	for i := range resp.Widgets {
		if resp.Widgets[i].ID == timeseriesWidgetID {
			return &resp.Widgets[i], nil
		}
	}
	return nil, ErrNoTimeseriesWidget
}

// stripGuard removes the anti-JSON-hijacking prefix (")]}'" or ")]}',\n")
// the Trends API puts in front of every body.
func stripGuard(body []byte) []byte {
	if i := bytes.IndexByte(body, '{'); i > 0 {
		return body[i:]
	}
	return body
}

func toFrame(keywords []string, points []timelinePoint) (*Frame, error) {
	frame := &Frame{Keywords: keywords}
	for _, p := range points {
		secs, err := strconv.ParseInt(p.Time, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("multiline: invalid timestamp %q: %w", p.Time, err)
		}
		if len(p.Value) != len(keywords) {
			return nil, fmt.Errorf("multiline: got %d values for %d keywords", len(p.Value), len(keywords))
		}
		frame.Rows = append(frame.Rows, Row{
			Time:    time.Unix(secs, 0).UTC(),
			Values:  p.Value,
			Partial: p.IsPartial,
		})
	}
	return frame, nil
}
