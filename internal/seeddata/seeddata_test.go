package seeddata

import (
	"testing"

	"sharespot/internal/pkg/dates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookings_AreConsistentWithCatalog(t *testing.T) {
	items := map[string]bool{}
	for _, it := range Items() {
		items[it.ID] = true
		for _, w := range it.AvailableDates {
			assert.NoError(t, w.Validate(), it.ID)
		}
	}

	seen := map[string][]dates.Range{}
	for _, b := range Bookings() {
		require.True(t, items[b.ItemID], b.ID)
		assert.NotEqual(t, b.OwnerID, b.BorrowerID, b.ID)
		assert.NotEmpty(t, b.ItemTitle, b.ID)
		assert.NoError(t, b.Range().Validate(), b.ID)
		for _, other := range seen[b.ItemID] {
			assert.False(t, other.Overlaps(b.Range()), b.ID)
		}
		seen[b.ItemID] = append(seen[b.ItemID], b.Range())
	}
}

func TestBookings_PriceIsDailyRateTimesDays(t *testing.T) {
	rates := map[string]float64{}
	for _, it := range Items() {
		rates[it.ID] = it.PricePerDay
	}
	for _, b := range Bookings() {
		assert.Equal(t, rates[b.ItemID]*float64(b.Range().Days()), b.TotalPrice, b.ID)
	}
}
