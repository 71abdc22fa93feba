package trends

import (
	"time"

	"github.com/dtnitsch/trendreport/models"
)

// Frame is the tabular interest-over-time response: a timestamp index, one
// value column per keyword and the partial-period flag.
type Frame struct {
	Keywords []string
	Rows     []Row
}

// Row is one timestamp of a Frame. Values are in keyword order.
type Row struct {
	Time    time.Time
	Values  []float64
	Partial bool
}

// Empty reports whether the frame has no rows.
func (f *Frame) Empty() bool {
	return f == nil || len(f.Rows) == 0
}

// Average drops the partial flag and averages the keyword columns row-wise
// into a single series.
func (f *Frame) Average() []models.SeriesPoint {
	if f.Empty() {
		return nil
	}
	points := make([]models.SeriesPoint, 0, len(f.Rows))
	for _, r := range f.Rows {
		if len(r.Values) == 0 {
			continue
		}
		var sum float64
		for _, v := range r.Values {
			sum += v
		}
		points = append(points, models.SeriesPoint{
			Time:  r.Time,
			Value: sum / float64(len(r.Values)),
		})
	}
	return points
}
