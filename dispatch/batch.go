package dispatch

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/branched-services/go-superfluid"
)

// ExecuteBatch sends a compiled batch to the host's batchCall. The batch's
// native value is attached to the transaction.
func (d *Dispatcher) ExecuteBatch(ctx context.Context, host common.Address, batch *superfluid.CompiledBatch) (*Result, error) {
	return d.run(ctx, OpBatch, func(ctx context.Context, log *zap.Logger, res *Result) error {
		if batch == nil || batch.Len() == 0 {
			return superfluid.ErrEmptyBatch
		}
		log.Debug("executing batch", zap.Int("operations", batch.Len()))

		h := external(host, superfluid.HostABI())
		return d.transact(ctx, log, res, h, batch.Value, "batchCall", batch.Operations)
	})
}

// RunMacro calls runMacro on the MacroForwarder with a deployed macro and
// its encoded params (see superfluid.Params.Encode).
func (d *Dispatcher) RunMacro(ctx context.Context, macro common.Address, params []byte) (*Result, error) {
	return d.run(ctx, OpRunMacro, func(ctx context.Context, log *zap.Logger, res *Result) error {
		log.Debug("running macro", zap.String("macro", macro.Hex()), zap.Int("params_len", len(params)))

		mf := external(d.macroForwarder, macroForwarderABI())
		return d.transact(ctx, log, res, mf, nil, "runMacro", macro, params)
	})
}

// AgreementAddress resolves an agreement class on the host, for example
// superfluid.CFAv1Type.
func (d *Dispatcher) AgreementAddress(ctx context.Context, host common.Address, agreementType common.Hash) (common.Address, error) {
	var addr common.Address
	_, err := d.run(ctx, OpAgreementLookup, func(ctx context.Context, _ *zap.Logger, res *Result) error {
		out, err := d.read(ctx, external(host, superfluid.HostABI()), "getAgreementClass", [32]byte(agreementType))
		if err != nil {
			return err
		}
		if len(out) != 1 {
			return fmt.Errorf("unexpected output count %d", len(out))
		}
		a, ok := out[0].(common.Address)
		if !ok {
			return fmt.Errorf("unexpected output type %T", out[0])
		}
		addr = a
		res.Address = a
		res.Message = a.Hex()
		return nil
	})
	return addr, err
}
