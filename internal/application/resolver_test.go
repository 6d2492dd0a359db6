package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibitops/floorwatch/internal/application"
	"github.com/exhibitops/floorwatch/internal/domain/model"
)

// threeBands is the canonical green/yellow/red security configuration:
// up to 50 green without alert, up to 150 yellow with alert, unbounded red
// with alert.
func threeBands() []model.Threshold {
	return []model.Threshold{
		{ID: model.PersistedID(1), Band: model.BandSecurity, Upper: model.Bounded(50), Color: "green"},
		{ID: model.PersistedID(2), Band: model.BandSecurity, Upper: model.Bounded(150), Color: "yellow", Alert: true, AlertMessageEnabled: true},
		{ID: model.PersistedID(3), Band: model.BandSecurity, Upper: model.Unbounded(), Color: "red", Alert: true, AlertMessageEnabled: true},
	}
}

func TestResolveActiveBand(t *testing.T) {
	ths := threeBands()

	tests := []struct {
		name      string
		count     int
		wantColor string
	}{
		{"below first bound", 40, "green"},
		{"exactly on first bound", 50, "green"},
		{"one above first bound", 51, "yellow"},
		{"inside middle band", 120, "yellow"},
		{"above all finite bounds", 500, "red"},
		{"zero count", 0, "green"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := application.ResolveActiveBand(tt.count, ths)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantColor, got.Color)
		})
	}
}

func TestResolveActiveBand_NoMatch(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		assert.Nil(t, application.ResolveActiveBand(10, nil))
	})

	t.Run("count above every finite bound, no unbounded band", func(t *testing.T) {
		ths := []model.Threshold{
			{Upper: model.Bounded(50), Color: "green"},
			{Upper: model.Bounded(150), Color: "yellow"},
		}
		assert.Nil(t, application.ResolveActiveBand(151, ths))
	})
}

func TestResolveActiveBand_MinimalityProperty(t *testing.T) {
	// The chosen band's bound covers the count and no other band has a
	// smaller effective bound that also covers it.
	ths := threeBands()
	for count := 0; count <= 300; count += 7 {
		got := application.ResolveActiveBand(count, ths)
		require.NotNil(t, got, "count %d", count)
		assert.True(t, got.Upper.AtLeast(count), "count %d", count)
		for _, other := range ths {
			if other.Upper.AtLeast(count) {
				assert.False(t, other.Upper.Less(got.Upper),
					"count %d: band %s covers the count with a smaller bound than %s", count, other.Upper, got.Upper)
			}
		}
	}
}

func TestResolveActiveBand_DuplicateBoundTieBreak(t *testing.T) {
	// Malformed input the editor is supposed to prevent: the resolver must
	// pick the first-supplied band deterministically rather than fail.
	ths := []model.Threshold{
		{ID: model.PersistedID(1), Upper: model.Bounded(100), Color: "first"},
		{ID: model.PersistedID(2), Upper: model.Bounded(100), Color: "second"},
	}

	got := application.ResolveActiveBand(80, ths)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Color)

	// The tie-break follows the supplied order, so swapping the input
	// swaps the winner.
	swapped := []model.Threshold{ths[1], ths[0]}
	got = application.ResolveActiveBand(80, swapped)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.Color)
}

func TestResolveActiveBand_Idempotent(t *testing.T) {
	ths := threeBands()
	first := application.ResolveActiveBand(120, ths)
	second := application.ResolveActiveBand(120, ths)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	// The input slice order is not disturbed by resolution.
	assert.Equal(t, threeBands(), ths)
}

func TestResolveAlertBand(t *testing.T) {
	ths := threeBands()

	t.Run("count in non-alert band", func(t *testing.T) {
		assert.Nil(t, application.ResolveAlertBand(40, ths))
	})

	t.Run("count crossed into middle alert band", func(t *testing.T) {
		got := application.ResolveAlertBand(120, ths)
		require.NotNil(t, got)
		assert.Equal(t, "yellow", got.Color)
	})

	t.Run("count crossed into top band", func(t *testing.T) {
		got := application.ResolveAlertBand(500, ths)
		require.NotNil(t, got)
		assert.Equal(t, "red", got.Color)
	})

	t.Run("alert only on a lower band than the active one", func(t *testing.T) {
		// Top band changes color but never blinks; the walk still finds
		// the highest alert band whose floor the crowd has crossed.
		ths := []model.Threshold{
			{Upper: model.Bounded(100), Color: "yellow", Alert: true},
			{Upper: model.Unbounded(), Color: "red"},
		}
		got := application.ResolveAlertBand(5000, ths)
		require.NotNil(t, got)
		assert.Equal(t, "yellow", got.Color)
	})

	t.Run("lone unbounded alert band blinks unconditionally", func(t *testing.T) {
		ths := []model.Threshold{
			{Upper: model.Unbounded(), Color: "red", Alert: true},
		}
		assert.NotNil(t, application.ResolveAlertBand(0, ths))
		assert.NotNil(t, application.ResolveAlertBand(1, ths))
	})

	t.Run("empty set", func(t *testing.T) {
		assert.Nil(t, application.ResolveAlertBand(100, nil))
	})
}

func TestResolveWarningMessage(t *testing.T) {
	t.Run("configured message returned verbatim", func(t *testing.T) {
		ths := threeBands()
		ths[1].AlertMessage = "Bereich Halle B räumen."

		msg, ok := application.ResolveWarningMessage(120, ths)
		require.True(t, ok)
		assert.Equal(t, "Bereich Halle B räumen.", msg)
	})

	t.Run("empty message falls back to generated text", func(t *testing.T) {
		msg, ok := application.ResolveWarningMessage(120, threeBands())
		require.True(t, ok)
		assert.Equal(t, "Warning: visitor count 120 exceeds the threshold of 50.", msg)
	})

	t.Run("single unbounded band with empty message", func(t *testing.T) {
		ths := []model.Threshold{
			{Upper: model.Unbounded(), Color: "red", Alert: true, AlertMessageEnabled: true},
		}
		msg, ok := application.ResolveWarningMessage(1, ths)
		require.True(t, ok)
		assert.Equal(t, "Warning: visitor count 1 exceeds the threshold of 0.", msg)
	})

	t.Run("no message-enabled band reached", func(t *testing.T) {
		msg, ok := application.ResolveWarningMessage(40, threeBands())
		assert.False(t, ok)
		assert.Empty(t, msg)
	})

	t.Run("no alert-capable bands at all", func(t *testing.T) {
		ths := []model.Threshold{{Upper: model.Bounded(100), Color: "green"}}
		_, ok := application.ResolveWarningMessage(50, ths)
		assert.False(t, ok)
	})
}

func TestResolveBandStatus(t *testing.T) {
	area := model.Area{VisitorCount: 120, Capacity: 200}

	t.Run("scenario walk across the three bands", func(t *testing.T) {
		ths := threeBands()

		low := area
		low.VisitorCount = 40
		status := application.ResolveBandStatus(low, ths)
		assert.Equal(t, "green", status.ActiveColor)
		assert.Equal(t, 1, status.Level)
		assert.False(t, status.Blinking)
		assert.False(t, status.HasWarning())

		mid := area // 120 visitors
		status = application.ResolveBandStatus(mid, ths)
		assert.Equal(t, "yellow", status.ActiveColor)
		assert.Equal(t, 2, status.Level)
		assert.True(t, status.Blinking)
		assert.True(t, status.HasWarning())
		assert.Equal(t, 60, status.OccupancyPercent)

		high := area
		high.VisitorCount = 500
		status = application.ResolveBandStatus(high, ths)
		assert.Equal(t, "red", status.ActiveColor)
		assert.Equal(t, 3, status.Level)
		assert.True(t, status.Blinking)
	})

	t.Run("empty threshold list renders neutral", func(t *testing.T) {
		status := application.ResolveBandStatus(area, nil)
		assert.Equal(t, model.NeutralColor, status.ActiveColor)
		assert.False(t, status.Blinking)
		assert.False(t, status.HasWarning())
	})

	t.Run("highlight override wins over band color", func(t *testing.T) {
		highlighted := area
		highlighted.Highlight = "#0ea5e9"
		status := application.ResolveBandStatus(highlighted, threeBands())
		assert.Equal(t, "#0ea5e9", status.ActiveColor)
	})

	t.Run("percent is not clamped above 100", func(t *testing.T) {
		crowded := model.Area{VisitorCount: 300, Capacity: 200}
		status := application.ResolveBandStatus(crowded, nil)
		assert.Equal(t, 150, status.OccupancyPercent)
	})
}

func TestFilterBand(t *testing.T) {
	mixed := []model.Threshold{
		{ID: model.PersistedID(1), Band: model.BandManagement, Upper: model.Bounded(100)},
		{ID: model.PersistedID(2), Band: model.BandSecurity, Upper: model.Bounded(80)},
		{ID: model.PersistedID(3), Band: model.BandSecurity, Upper: model.Unbounded()},
	}

	security := application.FilterBand(mixed, model.BandSecurity)
	require.Len(t, security, 2)
	assert.Equal(t, model.PersistedID(2), security[0].ID)

	management := application.FilterBand(mixed, model.BandManagement)
	require.Len(t, management, 1)

	// Filtering away every threshold behaves like an empty set downstream.
	assert.Nil(t, application.ResolveActiveBand(200, application.FilterBand(management, model.BandSecurity)))
}
