package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"

	"github.com/snowgift/snow-gift/http"
)

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// RPCClient talks JSON-RPC 2.0 to a Solana node.
type RPCClient struct {
	endpoint   string
	httpClient *http.Client
	requestID  atomic.Uint64
}

func NewRPCClient(endpoint string, httpClient *http.Client) *RPCClient {
	return &RPCClient{endpoint: endpoint, httpClient: httpClient}
}

// GetBalance returns the balance of address in lamports.
func (c *RPCClient) GetBalance(ctx context.Context, address string) (uint64, error) {
	result, err := c.call(ctx, "getBalance", []interface{}{address, map[string]string{"commitment": "confirmed"}})
	if err != nil {
		return 0, errors.Wrapf(err, "get balance of %s", address)
	}
	lamports, err := jsonparser.GetInt(result, "value")
	if err != nil {
		return 0, errors.Wrapf(err, "parse balance of %s", address)
	}
	if lamports < 0 {
		return 0, errors.Errorf("negative balance %d for %s", lamports, address)
	}
	return uint64(lamports), nil
}

func (c *RPCClient) call(ctx context.Context, method string, params []interface{}) ([]byte, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	}
	body, err := c.httpClient.PostJSON(ctx, c.endpoint, req)
	if err != nil {
		return nil, err
	}

	if raw, dataType, _, err := jsonparser.Get(body, "error"); err == nil && dataType == jsonparser.Object {
		var rpcErr rpcError
		if err := json.Unmarshal(raw, &rpcErr); err != nil {
			return nil, errors.Wrap(err, "decode rpc error")
		}
		return nil, &rpcErr
	}
	result, _, _, err := jsonparser.Get(body, "result")
	if err != nil {
		return nil, errors.Wrap(err, "missing rpc result")
	}
	return result, nil
}
