package visualizer

import (
	"testing"

	"github.com/gabapcia/blockpulse/internal/txfeed"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_Update(t *testing.T) {
	t.Run("one point per block with its total", func(t *testing.T) {
		s := NewSeries(20)

		added := s.Update([]txfeed.Transaction{tx("0x1", 42, "0.5"), tx("0x2", 42, "15")})
		require.Len(t, added, 1)

		p := added[0]
		assert.Equal(t, uint64(42), p.Block)
		assert.Equal(t, "Block 42", p.Label)
		assert.True(t, decimal.RequireFromString("15.5").Equal(p.Total))
		assert.Equal(t, BucketMedium, p.Bucket)
		assert.True(t, s.Processed(42))
	})

	t.Run("block totals use the block scale", func(t *testing.T) {
		s := NewSeries(20)

		added := s.Update([]txfeed.Transaction{
			tx("0x1", 1, "9.99"),
			tx("0x2", 2, "100"),
			tx("0x3", 3, "600"), tx("0x4", 3, "400"),
		})
		require.Len(t, added, 3)
		assert.Equal(t, BucketLow, added[0].Bucket)
		assert.Equal(t, BucketHigh, added[1].Bucket)
		assert.Equal(t, BucketVeryHigh, added[2].Bucket)
	})

	t.Run("processed blocks are not counted twice", func(t *testing.T) {
		s := NewSeries(20)
		s.Update([]txfeed.Transaction{tx("0x1", 42, "1")})

		added := s.Update([]txfeed.Transaction{tx("0x9", 42, "100")})
		assert.Empty(t, added)
		require.Len(t, s.Points(), 1)
		assert.True(t, decimal.NewFromInt(1).Equal(s.Total()))
	})

	t.Run("appends blocks in ascending order", func(t *testing.T) {
		s := NewSeries(20)

		added := s.Update([]txfeed.Transaction{tx("0x1", 8, "1"), tx("0x2", 6, "2"), tx("0x3", 7, "3")})
		require.Len(t, added, 3)
		assert.Equal(t, []uint64{6, 7, 8}, []uint64{added[0].Block, added[1].Block, added[2].Block})
	})

	t.Run("shifts past the window", func(t *testing.T) {
		s := NewSeries(10)
		for block := uint64(1); block <= 12; block++ {
			s.Update([]txfeed.Transaction{tx("0x"+BlockLabel(block), block, "1")})
		}

		points := s.Points()
		require.Len(t, points, 10)
		assert.Equal(t, uint64(3), points[0].Block)
		assert.Equal(t, uint64(12), points[9].Block)
		assert.True(t, decimal.NewFromInt(10).Equal(s.Total()))
	})

	t.Run("window is clamped", func(t *testing.T) {
		assert.Equal(t, MinChartWindow, NewSeries(2).Window())
		assert.Equal(t, MaxChartWindow, NewSeries(50).Window())
	})

	t.Run("shrinking the window drops the oldest points", func(t *testing.T) {
		s := NewSeries(20)
		for block := uint64(1); block <= 15; block++ {
			s.Update([]txfeed.Transaction{tx("0x"+BlockLabel(block), block, "1")})
		}

		s.SetWindow(10)
		points := s.Points()
		require.Len(t, points, 10)
		assert.Equal(t, uint64(6), points[0].Block)
	})
}
