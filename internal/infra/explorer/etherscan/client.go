// Package etherscan is a txfeed.Source backed by the Etherscan proxy API,
// which relays eth_blockNumber and eth_getBlockByNumber to a hosted node.
package etherscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gabapcia/blockpulse/internal/infra/blockchain/ethereum"
	transporthttp "github.com/gabapcia/blockpulse/internal/pkg/transport/http"
	"github.com/gabapcia/blockpulse/internal/pkg/types"
	"github.com/gabapcia/blockpulse/internal/txfeed"

	"github.com/hashicorp/go-retryablehttp"
)

var (
	// ErrMissingAPIKey is returned by NewClient when no API key is given.
	ErrMissingAPIKey = errors.New("etherscan api key is required")

	// ErrExplorerReturnedError is returned when the explorer answers with an
	// error payload instead of a result.
	ErrExplorerReturnedError = errors.New("explorer error")
)

// response covers both the proxy's JSON-RPC envelope and the explorer's own
// {"status":"0","message":"NOTOK","result":"..."} error shape.
type response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (r response) Err() error {
	if r.Error != nil {
		return fmt.Errorf("%w: [%d] - %s", ErrExplorerReturnedError, r.Error.Code, r.Error.Message)
	}

	if r.Status == "0" {
		var detail string
		_ = json.Unmarshal(r.Result, &detail)
		return fmt.Errorf("%w: %s: %s", ErrExplorerReturnedError, r.Message, detail)
	}

	return nil
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient *retryablehttp.Client
}

var _ txfeed.Source = (*client)(nil)

func (c *client) call(ctx context.Context, action string, params url.Values) (json.RawMessage, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}

	query := u.Query()
	for k, v := range params {
		query[k] = v
	}
	query.Set("module", "proxy")
	query.Set("action", action)
	query.Set("apikey", c.apiKey)
	u.RawQuery = query.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if err := transporthttp.ExpectStatus(res); err != nil {
		return nil, err
	}

	var data response
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, err
	}

	if err := data.Err(); err != nil {
		return nil, err
	}

	return data.Result, nil
}

// LatestBlockNumber calls action=eth_blockNumber.
func (c *client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	data, err := c.call(ctx, "eth_blockNumber", nil)
	if err != nil {
		return 0, err
	}

	return ethereum.DecodeBlockNumber(data)
}

// BlockByNumber calls action=eth_getBlockByNumber with full transaction objects.
func (c *client) BlockByNumber(ctx context.Context, height uint64) (txfeed.Block, error) {
	data, err := c.call(ctx, "eth_getBlockByNumber", url.Values{
		"tag":     {string(types.HexFromUint64(height))},
		"boolean": {"true"},
	})
	if err != nil {
		return txfeed.Block{}, err
	}

	return ethereum.DecodeBlock(data)
}

// NewClient returns an explorer-backed source. baseURL is the API endpoint,
// e.g. https://api.etherscan.io/api.
func NewClient(httpClient *retryablehttp.Client, baseURL, apiKey string) (*client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	return &client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}, nil
}
