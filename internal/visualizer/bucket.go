package visualizer

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bucket is a value tier used for colors and labels.
type Bucket int

const (
	BucketLow Bucket = iota
	BucketMedium
	BucketHigh
	BucketVeryHigh
)

// RGB is an opaque color.
type RGB struct {
	R, G, B uint8
}

// RGBA formats the color as a CSS rgba() value.
func (c RGB) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, alpha)
}

var bucketColors = [...]RGB{
	BucketLow:      {R: 0, G: 255, B: 65},
	BucketMedium:   {R: 255, G: 255, B: 0},
	BucketHigh:     {R: 255, G: 165, B: 0},
	BucketVeryHigh: {R: 255, G: 0, B: 0},
}

var bucketLabels = [...]string{
	BucketLow:      "Low",
	BucketMedium:   "Medium",
	BucketHigh:     "High",
	BucketVeryHigh: "Very High",
}

// Color returns the bucket color: green, yellow, orange, red.
func (b Bucket) Color() RGB {
	if b < BucketLow || b > BucketVeryHigh {
		return bucketColors[BucketLow]
	}
	return bucketColors[b]
}

func (b Bucket) String() string {
	if b < BucketLow || b > BucketVeryHigh {
		return fmt.Sprintf("Bucket(%d)", int(b))
	}
	return bucketLabels[b]
}

// Thresholds are the lower bounds of the medium, high and very high tiers.
// A value equal to a bound belongs to the upper tier.
type Thresholds [3]decimal.Decimal

var (
	// TransactionThresholds tier single transactions: <1, <10, <100, >=100 ETH.
	TransactionThresholds = Thresholds{decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.NewFromInt(100)}

	// BlockTotalThresholds tier per-block totals on the chart.
	BlockTotalThresholds = Thresholds{decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(1000)}

	// VolumeThresholds tier the running volume across the chart window.
	VolumeThresholds = Thresholds{decimal.NewFromInt(100), decimal.NewFromInt(1000), decimal.NewFromInt(10000)}
)

// Classify returns the tier of v. Tiers are monotonic in v.
func (t Thresholds) Classify(v decimal.Decimal) Bucket {
	switch {
	case v.GreaterThanOrEqual(t[2]):
		return BucketVeryHigh
	case v.GreaterThanOrEqual(t[1]):
		return BucketHigh
	case v.GreaterThanOrEqual(t[0]):
		return BucketMedium
	default:
		return BucketLow
	}
}

// BucketFor tiers a single transaction value.
func BucketFor(v decimal.Decimal) Bucket {
	return TransactionThresholds.Classify(v)
}
