package pricing

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/kjannette/newsimpact-backend/internal/models"
)

// ResolveClose returns the close of the most recent trading day on or before
// target (ISO YYYY-MM-DD). ISO dates order lexicographically, so string
// comparison is chronological.
func ResolveClose(series models.TimeSeries, target string) models.PriceLookupResult {
	if len(series) == 0 {
		return models.Failed(models.ErrOutOfRange)
	}

	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	newest, oldest := dates[0], dates[len(dates)-1]
	if target > newest || target < oldest {
		return models.Failed(models.ErrOutOfRange)
	}

	for _, d := range dates {
		if d > target {
			continue
		}
		close, err := strconv.ParseFloat(strings.TrimSpace(series[d].Close), 64)
		if err != nil || math.IsNaN(close) || math.IsInf(close, 0) {
			return models.Failed(models.ErrInvalidPrice)
		}
		return models.Resolved(d, close)
	}

	return models.Failed(models.ErrNoMatch)
}
