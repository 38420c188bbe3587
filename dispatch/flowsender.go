package dispatch

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// FlowSender drives a deployed FlowSender demo contract, which holds DAIx
// and streams it to receivers.
type FlowSender struct {
	d       *Dispatcher
	address common.Address
}

// FlowSender binds the FlowSender contract at address.
func (d *Dispatcher) FlowSender(address common.Address) *FlowSender {
	return &FlowSender{d: d, address: address}
}

// Address returns the contract address.
func (f *FlowSender) Address() common.Address {
	return f.address
}

// GainDaiX mints test DAI to the contract and upgrades it to DAIx.
func (f *FlowSender) GainDaiX(ctx context.Context) (*Result, error) {
	return f.send(ctx, OpGainDaiX, "gainDaiX")
}

// CreateStream opens a stream from the contract to receiver.
func (f *FlowSender) CreateStream(ctx context.Context, flowRate, receiver any) (*Result, error) {
	return f.send(ctx, OpCreateStream, "createStream", flowRate, receiver)
}

// UpdateStream changes the contract's stream to receiver.
func (f *FlowSender) UpdateStream(ctx context.Context, flowRate, receiver any) (*Result, error) {
	return f.send(ctx, OpUpdateStream, "updateStream", flowRate, receiver)
}

// DeleteStream closes the contract's stream to receiver.
func (f *FlowSender) DeleteStream(ctx context.Context, receiver any) (*Result, error) {
	return f.send(ctx, OpDeleteStream, "deleteStream", receiver)
}

// ReadFlowRate returns the contract's current rate to receiver.
func (f *FlowSender) ReadFlowRate(ctx context.Context, receiver any) (*Result, error) {
	return f.d.run(ctx, OpReadStream, func(ctx context.Context, _ *zap.Logger, res *Result) error {
		out, err := f.d.read(ctx, external(f.address, flowSenderABI()), "readFlowRate", receiver)
		if err != nil {
			return err
		}
		return setFlowRate(res, OpReadStream, out)
	})
}

func (f *FlowSender) send(ctx context.Context, op Op, method string, args ...any) (*Result, error) {
	return f.d.run(ctx, op, func(ctx context.Context, log *zap.Logger, res *Result) error {
		return f.d.transact(ctx, log, res, external(f.address, flowSenderABI()), nil, method, args...)
	})
}
