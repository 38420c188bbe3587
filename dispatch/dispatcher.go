// Package dispatch sends Superfluid operations through a connected wallet
// session and waits for their confirmation.
//
// Every operation returns a *Result on success and an *Error on failure.
// Error.Message gives the text to show the user; Error.Kind classifies the
// failure. Operations on one Dispatcher run one at a time.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/branched-services/go-superfluid"
	"github.com/branched-services/go-superfluid/chains"
	"github.com/branched-services/go-superfluid/wallet"
)

// Result describes a completed operation.
type Result struct {
	ID      uuid.UUID
	Op      Op
	Message string

	// Set for transactions.
	TxHash  common.Hash
	Receipt *types.Receipt

	// Set when the operation produces an address (deploys, wrappers).
	Address common.Address

	// Set by flow rate reads.
	FlowRate *big.Int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithCFAv1Forwarder overrides the CFAv1Forwarder address.
func WithCFAv1Forwarder(addr common.Address) Option {
	return func(d *Dispatcher) {
		d.cfaForwarder = addr
	}
}

// WithGDAv1Forwarder overrides the GDAv1Forwarder address.
func WithGDAv1Forwarder(addr common.Address) Option {
	return func(d *Dispatcher) {
		d.gdaForwarder = addr
	}
}

// WithMacroForwarder overrides the MacroForwarder address.
func WithMacroForwarder(addr common.Address) Option {
	return func(d *Dispatcher) {
		d.macroForwarder = addr
	}
}

// Dispatcher runs operations against a wallet session.
type Dispatcher struct {
	session  *wallet.Session
	registry *chains.Registry
	logger   *zap.Logger

	cfaForwarder   common.Address
	gdaForwarder   common.Address
	macroForwarder common.Address

	mu sync.Mutex
}

// New creates a Dispatcher. registry supplies the per-chain factory
// addresses; nil means chains.Default().
func New(session *wallet.Session, registry *chains.Registry, opts ...Option) *Dispatcher {
	if registry == nil {
		registry = chains.Default()
	}
	d := &Dispatcher{
		session:        session,
		registry:       registry,
		logger:         zap.NewNop(),
		cfaForwarder:   chains.CFAv1Forwarder,
		gdaForwarder:   chains.GDAv1Forwarder,
		macroForwarder: chains.MacroForwarder,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Session returns the wallet session.
func (d *Dispatcher) Session() *wallet.Session {
	return d.session
}

// run holds the operation lock for the duration of fn and converts its
// error into an *Error.
func (d *Dispatcher) run(ctx context.Context, op Op, fn func(context.Context, *zap.Logger, *Result) error) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res := &Result{ID: uuid.New(), Op: op}
	log := d.logger.With(zap.String("op", string(op)), zap.Stringer("id", res.ID))

	if d.session == nil || !d.session.Connected() {
		return nil, d.fail(log, op, ErrNotConnected)
	}

	if err := fn(ctx, log, res); err != nil {
		return nil, d.fail(log, op, err)
	}
	if res.Message == "" {
		res.Message = op.successMessage()
	}
	log.Info("operation complete", zap.String("message", res.Message))
	return res, nil
}

func (d *Dispatcher) fail(log *zap.Logger, op Op, err error) *Error {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Op: op, Kind: classify(err), Err: err}
	}
	log.Error("operation failed", zap.String("kind", e.Kind.String()), zap.Error(err))
	return e
}

// transact sends calldata for method on contract and waits for the receipt.
func (d *Dispatcher) transact(ctx context.Context, log *zap.Logger, res *Result, contract *superfluid.Contract, value *big.Int, method string, args ...any) error {
	call, err := contract.Invoke(method, args...)
	if err != nil {
		return err
	}
	data, err := call.Calldata()
	if err != nil {
		return err
	}

	backend, err := d.session.Backend()
	if err != nil {
		return err
	}
	opts, err := d.session.Transactor(ctx)
	if err != nil {
		return err
	}
	opts.Value = value

	bound := bind.NewBoundContract(contract.Address(), contract.ABI(), backend, backend, backend)
	tx, err := bound.RawTransact(opts, data)
	if err != nil {
		return err
	}
	log.Debug("transaction sent", zap.String("tx", tx.Hash().Hex()), zap.String("to", contract.Address().Hex()))

	return d.confirm(ctx, log, res, tx)
}

// confirm waits for one confirmation of tx.
func (d *Dispatcher) confirm(ctx context.Context, log *zap.Logger, res *Result, tx *types.Transaction) error {
	backend, err := d.session.Backend()
	if err != nil {
		return err
	}

	res.TxHash = tx.Hash()
	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", tx.Hash().Hex(), err)
	}
	res.Receipt = receipt

	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: %s", ErrReverted, tx.Hash().Hex())
	}
	log.Debug("transaction confirmed",
		zap.String("tx", tx.Hash().Hex()),
		zap.Uint64("block", receipt.BlockNumber.Uint64()),
		zap.Uint64("gas_used", receipt.GasUsed),
	)
	return nil
}

// read performs a view call and returns the unpacked outputs.
func (d *Dispatcher) read(ctx context.Context, contract *superfluid.Contract, method string, args ...any) ([]any, error) {
	call, err := contract.Invoke(method, args...)
	if err != nil {
		return nil, err
	}

	backend, err := d.session.Backend()
	if err != nil {
		return nil, err
	}

	bound := bind.NewBoundContract(contract.Address(), contract.ABI(), backend, backend, backend)
	var out []any
	if err := bound.Call(&bind.CallOpts{Context: ctx, From: d.session.Account()}, &out, method, call.Args()...); err != nil {
		return nil, err
	}
	return out, nil
}

// factory returns the registry factory for the session's active chain.
func (d *Dispatcher) factory(ctx context.Context) (common.Address, error) {
	id, err := d.session.ChainID(ctx)
	if err != nil {
		return common.Address{}, err
	}
	addr := d.registry.FactoryAddress(id)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w %d", ErrNoFactory, id)
	}
	return addr, nil
}

func external(addr common.Address, a abi.ABI) *superfluid.Contract {
	return superfluid.NewContract(addr, a)
}
