package trends

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dtnitsch/trendreport/pkg/fetcher"
)

var (
	// ErrRateLimited marks an HTTP 429 from any Trends endpoint.
	ErrRateLimited = errors.New("trends: rate limited (429)")
	// ErrNoData is returned when the API answers with an empty timeline.
	ErrNoData = errors.New("trends: no data")
	// ErrNoTimeseriesWidget is returned when the explore response carries no TIMESERIES widget.
	ErrNoTimeseriesWidget = errors.New("trends: explore response has no TIMESERIES widget")
	// ErrUnexpectedStatus wraps every non-200 answer other than a rate limit.
	ErrUnexpectedStatus = fetcher.ErrUnexpectedStatus
)

// IsRateLimited reports whether err is a rate-limit error. Errors from other
// layers that only carry the status in their text are recognized as well; a
// *fetcher.StatusError is judged by its code alone since its text holds the URL.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var se *fetcher.StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests
	}
	return strings.Contains(err.Error(), "429")
}

// classify maps transport errors onto the package sentinels.
func classify(endpoint string, err error) error {
	var se *fetcher.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w", endpoint, ErrRateLimited)
	}
	return fmt.Errorf("%s: %w", endpoint, err)
}
