package visualizer

import (
	"strconv"

	"github.com/gabapcia/blockpulse/internal/pkg/types"
	"github.com/gabapcia/blockpulse/internal/txfeed"
	"github.com/shopspring/decimal"
)

// Bounds of the chart window across viewport profiles.
const (
	MinChartWindow = 8
	MaxChartWindow = 20
)

// Point is one bar of the per-block total chart.
type Point struct {
	Block  uint64          `json:"block"`
	Label  string          `json:"label"`
	Total  decimal.Decimal `json:"total"`
	Bucket Bucket          `json:"bucket"`
}

// Series is the per-block total chart. Each block contributes a point once;
// later batches touching an already processed block are ignored.
type Series struct {
	window    int
	points    []Point
	processed types.Set[uint64]
}

// NewSeries creates a series keeping at most window points. The window is
// clamped to [MinChartWindow, MaxChartWindow].
func NewSeries(window int) *Series {
	return &Series{
		window:    clampWindow(window),
		processed: types.NewSet[uint64](),
	}
}

func clampWindow(window int) int {
	return min(max(window, MinChartWindow), MaxChartWindow)
}

// BlockLabel is the chart label of a block.
func BlockLabel(height uint64) string {
	return "Block " + strconv.FormatUint(height, 10)
}

// Update folds newly seen transactions into the chart and returns the points
// it appended, in ascending block order.
func (s *Series) Update(txs []txfeed.Transaction) []Point {
	totals := types.NewDefaultMap[uint64](func() decimal.Decimal { return decimal.Zero })
	blocks := types.NewSet[uint64]()

	for _, tx := range txs {
		if s.processed.Has(tx.BlockNumber) {
			continue
		}

		blocks.Add(tx.BlockNumber)
		totals.Set(tx.BlockNumber, totals.Get(tx.BlockNumber).Add(tx.Value.Decimal))
	}

	if blocks.Len() == 0 {
		return nil
	}

	added := make([]Point, 0, blocks.Len())
	for _, height := range types.Sorted(blocks) {
		s.processed.Add(height)

		total := totals.Get(height)
		added = append(added, Point{
			Block:  height,
			Label:  BlockLabel(height),
			Total:  total,
			Bucket: BlockTotalThresholds.Classify(total),
		})
	}

	s.points = append(s.points, added...)
	s.trim()

	return added
}

// SetWindow changes the window size, dropping the oldest points if needed.
func (s *Series) SetWindow(window int) {
	s.window = clampWindow(window)
	s.trim()
}

func (s *Series) trim() {
	if over := len(s.points) - s.window; over > 0 {
		s.points = append(s.points[:0:0], s.points[over:]...)
	}
}

// Window returns the maximum number of points kept.
func (s *Series) Window() int {
	return s.window
}

// Points returns a copy of the visible points, oldest first.
func (s *Series) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Total is the running volume: the sum of the visible points.
func (s *Series) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.points {
		total = total.Add(p.Total)
	}
	return total
}

// Processed reports whether a block has already contributed a point.
func (s *Series) Processed(height uint64) bool {
	return s.processed.Has(height)
}
