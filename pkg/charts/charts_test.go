package charts

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/trendreport/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRanking(t *testing.T) {
	rows := []models.StatRow{
		{Rank: 1, Label: "A", Mean: 80},
		{Rank: 2, Label: "B", Mean: 50},
		{Rank: 3, Label: "C", Mean: 20},
	}
	png, err := Ranking("Genre ranking - 1m", rows)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	_, err = Ranking("empty", nil)
	assert.Error(t, err)
}

func TestTimeSeries(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	table := models.NewSeriesTable("1m", []string{"A", "B"})
	table.Set("A", []models.SeriesPoint{{Time: day, Value: 10}, {Time: day.AddDate(0, 0, 7), Value: 30}})
	table.Set("B", []models.SeriesPoint{{Time: day, Value: 50}, {Time: day.AddDate(0, 0, 7), Value: 45}})

	png, err := TimeSeries("Genre trends - 1m", table)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	_, err = TimeSeries("empty", models.NewSeriesTable("1m", nil))
	assert.Error(t, err)
}

func TestComparison(t *testing.T) {
	windows := []string{"1m", "3m", "12m"}

	tests := []struct {
		name     string
		byWindow map[string][]models.StatRow
		wantPNG  bool
	}{
		{
			name:     "single window",
			byWindow: map[string][]models.StatRow{"3m": {{Label: "A", Mean: 10}}},
			wantPNG:  false,
		},
		{
			name: "label missing in later window",
			byWindow: map[string][]models.StatRow{
				"1m":  {{Label: "A", Mean: 10}, {Label: "B", Mean: 5}},
				"12m": {{Label: "A", Mean: 12}},
			},
			wantPNG: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			png, err := Comparison("Period comparison", windows, tt.byWindow, 8)
			require.NoError(t, err)
			if tt.wantPNG {
				assert.True(t, bytes.HasPrefix(png, pngMagic))
			} else {
				assert.Nil(t, png)
			}
		})
	}
}

func TestUseFont_InvalidData(t *testing.T) {
	err := UseFont([]byte("not a font"), "Broken")
	assert.Error(t, err)
}
