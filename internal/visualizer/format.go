package visualizer

import (
	"strings"

	"github.com/gabapcia/blockpulse/internal/txfeed"
	"github.com/shopspring/decimal"
)

const (
	// ExplorerTxURL is the block explorer page for a transaction hash.
	ExplorerTxURL = "https://etherscan.io/tx/"

	truncateKeep = 12
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// FormatVolume renders an ether amount compactly: 1.23M, 4.56K or 7.89.
func FormatVolume(v decimal.Decimal) string {
	switch {
	case v.GreaterThanOrEqual(million):
		return groupThousands(v.Div(million).StringFixed(2)) + "M"
	case v.GreaterThanOrEqual(thousand):
		return v.Div(thousand).StringFixed(2) + "K"
	default:
		return v.StringFixed(2)
	}
}

// FormatValue renders a transaction value with up to six decimals and
// grouped thousands.
func FormatValue(v decimal.Decimal) string {
	return groupThousands(v.Round(6).String())
}

// groupThousands inserts commas in the integer part of a decimal string.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return sign + s
	}

	var b strings.Builder
	head := len(intPart) % 3
	if head > 0 {
		b.WriteString(intPart[:head])
	}
	for i := head; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}

	return sign + b.String()
}

// TruncateAddress keeps the first and last twelve characters of long
// values when truncate is set.
func TruncateAddress(s string, truncate bool) string {
	if !truncate || len(s) <= 2*truncateKeep {
		return s
	}
	return s[:truncateKeep] + "..." + s[len(s)-truncateKeep:]
}

// ExplorerURL links a transaction hash to the block explorer.
func ExplorerURL(hash string) string {
	return ExplorerTxURL + hash
}

// Detail is the information panel of the selected transaction.
type Detail struct {
	Block       uint64 `json:"block"`
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	Category    string `json:"category"`
	Color       RGB    `json:"color"`
	ExplorerURL string `json:"explorerUrl"`
}

// Describe builds the detail panel of tx for a profile.
func Describe(tx txfeed.Transaction, profile Profile) Detail {
	bucket := BucketFor(tx.Value.Decimal)

	return Detail{
		Block:       tx.BlockNumber,
		Hash:        TruncateAddress(tx.Hash, profile.TruncateAddresses),
		From:        TruncateAddress(tx.From, profile.TruncateAddresses),
		To:          TruncateAddress(tx.To, profile.TruncateAddresses),
		Value:       FormatValue(tx.Value.Decimal) + " ETH",
		Category:    bucket.String(),
		Color:       bucket.Color(),
		ExplorerURL: ExplorerURL(tx.Hash),
	}
}
