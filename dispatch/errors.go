package dispatch

import (
	"errors"
	"fmt"

	"github.com/branched-services/go-superfluid"
	"github.com/branched-services/go-superfluid/wallet"
)

var (
	// ErrNotConnected indicates an operation ran before the wallet connected.
	ErrNotConnected = errors.New("dispatch: wallet not connected")

	// ErrNoFactory indicates the registry has no factory for the active chain.
	ErrNoFactory = errors.New("dispatch: no factory for chain")

	// ErrNoContract indicates no target contract address was given.
	ErrNoContract = errors.New("dispatch: no contract address")

	// ErrReverted indicates the transaction was mined but failed.
	ErrReverted = errors.New("dispatch: transaction reverted")
)

// Kind classifies a failed operation.
type Kind uint8

const (
	// KindNoWallet means no wallet provider or no connected session.
	KindNoWallet Kind = iota + 1

	// KindRejected means the wallet rejected or failed the request.
	KindRejected

	// KindReverted means the contract call reverted or failed.
	KindReverted

	// KindMalformed means the inputs or upstream data could not be used.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNoWallet:
		return "no_wallet"
	case KindRejected:
		return "rejected"
	case KindReverted:
		return "reverted"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is returned by every failed operation.
type Error struct {
	Op   Op
	Kind Kind
	Err  error

	message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("dispatch: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the human-readable text to show the user.
func (e *Error) Message() string {
	if e.message != "" {
		return e.message
	}
	if e.Kind == KindNoWallet {
		if e.Op == OpDeploy {
			return "Wallet not connected. Please connect your wallet."
		}
		return "Please connect your wallet first."
	}
	return e.Op.failureMessage()
}

// classify maps an error to its Kind.
func classify(err error) Kind {
	var (
		argErr  *superfluid.ArgumentError
		encErr  *superfluid.EncodingError
		provErr *wallet.ProviderError
	)

	switch {
	case errors.Is(err, ErrNotConnected),
		errors.Is(err, wallet.ErrNotConnected),
		errors.Is(err, wallet.ErrNoProvider),
		errors.Is(err, wallet.ErrNoSigner),
		wallet.IsCode(err, wallet.CodeDisconnected),
		wallet.IsCode(err, wallet.CodeUnauthorized):
		return KindNoWallet
	case errors.As(err, &provErr):
		return KindRejected
	case errors.As(err, &argErr),
		errors.As(err, &encErr),
		errors.Is(err, superfluid.ErrEmptyBatch),
		errors.Is(err, ErrNoFactory),
		errors.Is(err, ErrNoContract),
		errors.Is(err, errBadArtifact):
		return KindMalformed
	default:
		return KindReverted
	}
}
