package trends

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/trendreport/pkg/fetcher"
)

const exploreBody = `)]}'
{"widgets":[{"id":"GEO_MAP","token":"geo"},{"id":"TIMESERIES","token":"tok-123","request":{"time":"today 1-m","resolution":"DAY"}}]}`

const multilineBody = `)]}',
{"default":{"timelineData":[
{"time":"1700000000","formattedTime":"Nov 14","value":[10,20,30],"hasData":[true,true,true]},
{"time":"1700086400","formattedTime":"Nov 15","value":[40,50,60],"hasData":[true,true,true],"isPartial":true}
]}}`

// newTestServer fakes the three Trends endpoints. multiline lets a test
// override the timeline body or status.
func newTestServer(t *testing.T, multiline func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]url.Values) {
	t.Helper()
	var exploreQueries []url.Values

	mux := http.NewServeMux()
	mux.HandleFunc(bootstrapPath, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "NID", Value: "cookie"})
	})
	mux.HandleFunc(explorePath, func(w http.ResponseWriter, r *http.Request) {
		exploreQueries = append(exploreQueries, r.URL.Query())
		_, _ = w.Write([]byte(exploreBody))
	})
	mux.HandleFunc(multilinePath, func(w http.ResponseWriter, r *http.Request) {
		if multiline != nil {
			multiline(w, r)
			return
		}
		_, _ = w.Write([]byte(multilineBody))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &exploreQueries
}

func newTestClient(srv *httptest.Server) *HTTPClient {
	return NewHTTPClient(fetcher.NewFetcherWithClient(srv.Client()), Options{
		BaseURL: srv.URL,
		HL:      "ko",
		TZ:      540,
		Geo:     "KR",
	})
}

func TestInterestOverTime(t *testing.T) {
	var gotToken, gotReq string
	srv, queries := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		gotReq = r.URL.Query().Get("req")
		_, _ = w.Write([]byte(multilineBody))
	})
	c := newTestClient(srv)

	frame, err := c.InterestOverTime(context.Background(), []string{"a", "b", "c"}, "today 1-m")
	require.NoError(t, err)
	require.Len(t, frame.Rows, 2)

	assert.Equal(t, "tok-123", gotToken)
	assert.JSONEq(t, `{"time":"today 1-m","resolution":"DAY"}`, gotReq)

	require.Len(t, *queries, 1)
	q := (*queries)[0]
	assert.Equal(t, "ko", q.Get("hl"))
	assert.Equal(t, "540", q.Get("tz"))
	assert.Contains(t, q.Get("req"), `"keyword":"b"`)
	assert.Contains(t, q.Get("req"), `"time":"today 1-m"`)
	assert.Contains(t, q.Get("req"), `"geo":"KR"`)

	assert.Equal(t, time.Unix(1700000000, 0).UTC(), frame.Rows[0].Time)
	assert.Equal(t, []float64{10, 20, 30}, frame.Rows[0].Values)
	assert.False(t, frame.Rows[0].Partial)
	assert.True(t, frame.Rows[1].Partial)

	points := frame.Average()
	require.Len(t, points, 2)
	assert.InDelta(t, 20.0, points[0].Value, 1e-9)
	assert.InDelta(t, 50.0, points[1].Value, 1e-9)
}

func TestInterestOverTime_EmptyTimeline(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(")]}',\n{\"default\":{\"timelineData\":[]}}"))
	})
	c := newTestClient(srv)

	frame, err := c.InterestOverTime(context.Background(), []string{"a"}, "today 3-m")
	require.NoError(t, err)
	assert.True(t, frame.Empty())
	assert.Nil(t, frame.Average())
}

func TestInterestOverTime_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantLimited bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantLimited: true},
		{name: "server error", status: http.StatusInternalServerError, wantLimited: false},
		{name: "bad request", status: http.StatusBadRequest, wantLimited: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			c := newTestClient(srv)

			_, err := c.InterestOverTime(context.Background(), []string{"a"}, "today 1-m")
			require.Error(t, err)
			assert.Equal(t, tt.wantLimited, errors.Is(err, ErrRateLimited))
			assert.Equal(t, tt.wantLimited, IsRateLimited(err))

			if !tt.wantLimited {
				var se *fetcher.StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, tt.status, se.StatusCode)
				assert.ErrorIs(t, err, ErrUnexpectedStatus)
			}
		})
	}
}

func TestInterestOverTime_NoTimeseriesWidget(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(explorePath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`)]}'{"widgets":[{"id":"RELATED_QUERIES","token":"x"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := newTestClient(srv).InterestOverTime(context.Background(), []string{"a"}, "today 1-m")
	assert.ErrorIs(t, err, ErrNoTimeseriesWidget)
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "sentinel", err: ErrRateLimited, want: true},
		{name: "wrapped sentinel", err: errors.New("outer: " + ErrRateLimited.Error()), want: true},
		{name: "status error", err: &fetcher.StatusError{URL: "u", StatusCode: 429}, want: true},
		{name: "429 only in url", err: classify("multiline", &fetcher.StatusError{URL: "https://x/multiline?token=APP6_UEAAAAAZ429abc", StatusCode: 500}), want: false},
		{name: "text only", err: errors.New("The request failed: Google returned a response with code 429"), want: true},
		{name: "other", err: errors.New("connection reset by peer"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimited(tt.err))
		})
	}
}

func TestStripGuard(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(stripGuard([]byte(")]}'\n{\"a\":1}"))))
	assert.Equal(t, `{"a":1}`, string(stripGuard([]byte(`{"a":1}`))))
	assert.True(t, strings.HasPrefix(string(stripGuard([]byte(multilineBody))), "{"))
}
