package dispatch

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"
)

// CreateFlow opens a stream from the connected account to receiver through
// the CFAv1Forwarder. flowRate is in wei per second; token, receiver and
// flowRate may be Go values or raw strings.
func (d *Dispatcher) CreateFlow(ctx context.Context, token, receiver, flowRate any) (*Result, error) {
	return d.run(ctx, OpCreateFlow, func(ctx context.Context, log *zap.Logger, res *Result) error {
		cfa := external(d.cfaForwarder, cfaForwarderABI())
		return d.transact(ctx, log, res, cfa, nil, "createFlow", token, d.session.Account(), receiver, flowRate, []byte{})
	})
}

// UpdateFlow changes the rate of an existing stream.
func (d *Dispatcher) UpdateFlow(ctx context.Context, token, receiver, flowRate any) (*Result, error) {
	return d.run(ctx, OpUpdateFlow, func(ctx context.Context, log *zap.Logger, res *Result) error {
		cfa := external(d.cfaForwarder, cfaForwarderABI())
		return d.transact(ctx, log, res, cfa, nil, "updateFlow", token, d.session.Account(), receiver, flowRate, []byte{})
	})
}

// DeleteFlow closes the stream from the connected account to receiver.
func (d *Dispatcher) DeleteFlow(ctx context.Context, token, receiver any) (*Result, error) {
	return d.run(ctx, OpDeleteFlow, func(ctx context.Context, log *zap.Logger, res *Result) error {
		cfa := external(d.cfaForwarder, cfaForwarderABI())
		return d.transact(ctx, log, res, cfa, nil, "deleteFlow", token, d.session.Account(), receiver, []byte{})
	})
}

// ReadFlowRate returns the current rate from sender to receiver.
func (d *Dispatcher) ReadFlowRate(ctx context.Context, token, sender, receiver any) (*Result, error) {
	return d.run(ctx, OpReadFlowRate, func(ctx context.Context, _ *zap.Logger, res *Result) error {
		out, err := d.read(ctx, external(d.cfaForwarder, cfaForwarderABI()), "getFlowrate", token, sender, receiver)
		if err != nil {
			return err
		}
		return setFlowRate(res, OpReadFlowRate, out)
	})
}

func setFlowRate(res *Result, op Op, out []any) error {
	if len(out) != 1 {
		return fmt.Errorf("unexpected output count %d", len(out))
	}
	rate, ok := out[0].(*big.Int)
	if !ok {
		return fmt.Errorf("unexpected flow rate type %T", out[0])
	}
	res.FlowRate = rate
	res.Message = fmt.Sprintf(op.successMessage(), rate.String())
	return nil
}
