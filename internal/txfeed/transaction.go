package txfeed

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

// ContractCreation replaces the recipient of transactions that deploy a contract.
const ContractCreation = "Contract Creation"

// weiExponent converts wei to ether: 1 ether = 10^18 wei.
const weiExponent = -18

// ErrInvalidValue is returned when a transaction value is not a hex wei quantity.
var ErrInvalidValue = errors.New("invalid transaction value")

// Ether is an exact ether amount. It is encoded in JSON as a bare number.
type Ether struct {
	decimal.Decimal
}

// EtherFromWei converts a wei amount into ether.
func EtherFromWei(wei *big.Int) Ether {
	return Ether{decimal.NewFromBigInt(wei, weiExponent)}
}

// ParseWei decodes a 0x-prefixed wei quantity into ether.
func ParseWei(s string) (Ether, error) {
	wei, err := hexutil.DecodeBig(s)
	if err != nil {
		return Ether{}, fmt.Errorf("%w: %q: %w", ErrInvalidValue, s, err)
	}

	return EtherFromWei(wei), nil
}

// MustEther parses a decimal string. It panics on malformed input and is meant
// for constants and tests.
func MustEther(s string) Ether {
	return Ether{decimal.RequireFromString(s)}
}

// MarshalJSON writes the amount as a JSON number.
func (e Ether) MarshalJSON() ([]byte, error) {
	return []byte(e.Decimal.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (e *Ether) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)

	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	e.Decimal = d
	return nil
}

// Transaction is a normalized transaction as delivered to clients.
type Transaction struct {
	Hash        string    `json:"hash"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Value       Ether     `json:"value"`
	BlockNumber uint64    `json:"blockNumber"`
	Timestamp   time.Time `json:"timestamp"`
}

// IsContractCreation reports whether the transaction deployed a contract.
func (t Transaction) IsContractCreation() bool {
	return t.To == ContractCreation
}

// normalize converts an upstream transaction into a Transaction stamped at fetchedAt.
func normalize(raw RawTransaction, height uint64, fetchedAt time.Time) (Transaction, error) {
	value, err := ParseWei(raw.Value)
	if err != nil {
		return Transaction{}, err
	}

	to := raw.To
	if to == "" {
		to = ContractCreation
	}

	return Transaction{
		Hash:        raw.Hash,
		From:        raw.From,
		To:          to,
		Value:       value,
		BlockNumber: height,
		Timestamp:   fetchedAt,
	}, nil
}
