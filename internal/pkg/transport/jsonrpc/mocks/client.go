// Package mocks holds testify mocks for the jsonrpc package.
package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// Client is a mock jsonrpc.Client.
type Client struct {
	mock.Mock
}

// Fetch records the call and returns the configured result.
func (m *Client) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	args := m.Called(ctx, method, params)

	var result json.RawMessage
	switch v := args.Get(0).(type) {
	case json.RawMessage:
		result = v
	case string:
		result = json.RawMessage(v)
	}

	return result, args.Error(1)
}

// NewClient creates a mock registered for assertion at test cleanup.
func NewClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *Client {
	m := &Client{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
