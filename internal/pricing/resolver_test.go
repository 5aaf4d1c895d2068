package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kjannette/newsimpact-backend/internal/models"
)

func holidaySeries() models.TimeSeries {
	return models.TimeSeries{
		"2025-12-26": {Close: "478.55"},
		"2025-12-24": {Close: "474.10"},
		"2025-12-23": {Close: "469.90"},
	}
}

func TestResolveClose_GapDayFallsBackToPriorSession(t *testing.T) {
	r := ResolveClose(holidaySeries(), "2025-12-25")
	assert.True(t, r.OK())
	assert.Equal(t, "2025-12-24", r.Date)
	assert.Equal(t, 474.10, r.Close)
}

func TestResolveClose_ExactDay(t *testing.T) {
	r := ResolveClose(holidaySeries(), "2025-12-26")
	assert.Equal(t, models.Resolved("2025-12-26", 478.55), r)

	r = ResolveClose(holidaySeries(), "2025-12-23")
	assert.Equal(t, models.Resolved("2025-12-23", 469.90), r)
}

func TestResolveClose_OutOfRange(t *testing.T) {
	assert.Equal(t, models.ErrOutOfRange, ResolveClose(holidaySeries(), "2025-12-22").Error)
	assert.Equal(t, models.ErrOutOfRange, ResolveClose(holidaySeries(), "2025-12-27").Error)
	assert.Equal(t, models.ErrOutOfRange, ResolveClose(models.TimeSeries{}, "2025-12-25").Error)
}

func TestResolveClose_InvalidPrice(t *testing.T) {
	s := holidaySeries()
	s["2025-12-24"] = models.Bar{Close: "n/a"}
	assert.Equal(t, models.ErrInvalidPrice, ResolveClose(s, "2025-12-25").Error)

	s["2025-12-24"] = models.Bar{Close: "NaN"}
	assert.Equal(t, models.ErrInvalidPrice, ResolveClose(s, "2025-12-24").Error)
}

func TestResolveClose_InvalidPriceOnlyForChosenDay(t *testing.T) {
	s := holidaySeries()
	s["2025-12-23"] = models.Bar{Close: ""}
	r := ResolveClose(s, "2025-12-25")
	assert.True(t, r.OK())
	assert.Equal(t, "2025-12-24", r.Date)
}
