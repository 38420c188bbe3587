// Package wallet bridges to a single injected wallet provider.
//
// A Provider speaks the EIP-1193 request/response protocol. KeyedProvider
// is a Go-native provider holding one key and one RPC backend per chain;
// Session keeps the connection state a widget would: connected flag,
// account, and the active network.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
)

// EIP-1193 provider error codes.
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupportedMethod = 4200
	CodeDisconnected      = 4900
	CodeUnrecognizedChain = 4902

	// CodeInvalidParams is the JSON-RPC invalid params code.
	CodeInvalidParams = -32602
)

// Provider is an EIP-1193 wallet provider.
type Provider interface {
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// Backend is what contract bindings need from a chain connection.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Signer is implemented by providers that can hand out a transaction
// signer and the backend of the active chain.
type Signer interface {
	Transactor(ctx context.Context) (*bind.TransactOpts, error)
	Backend() (Backend, error)
}

// ProviderError is an error returned by a provider request.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("wallet: provider error %d: %s", e.Code, e.Message)
}

// IsCode reports whether err carries a ProviderError with the given code.
func IsCode(err error, code int) bool {
	var perr *ProviderError
	return errors.As(err, &perr) && perr.Code == code
}

// IsUserRejected reports whether the user rejected the request.
func IsUserRejected(err error) bool {
	return IsCode(err, CodeUserRejected)
}

func providerError(code int, msg string) *ProviderError {
	return &ProviderError{Code: code, Message: msg}
}

// decodeParam re-decodes params[i] into out through JSON, so callers may
// pass structs, maps or raw JSON.
func decodeParam(params []any, i int, out any) error {
	if i >= len(params) {
		return providerError(CodeInvalidParams, fmt.Sprintf("missing parameter %d", i))
	}

	var data []byte
	switch p := params[i].(type) {
	case json.RawMessage:
		data = p
	case []byte:
		data = p
	default:
		var err error
		if data, err = json.Marshal(p); err != nil {
			return providerError(CodeInvalidParams, err.Error())
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return providerError(CodeInvalidParams, err.Error())
	}
	return nil
}
