package dispatch

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ConnectPool connects the account to a GDA pool through the GDAv1Forwarder.
func (d *Dispatcher) ConnectPool(ctx context.Context, pool any) (*Result, error) {
	return d.run(ctx, OpConnectPool, func(ctx context.Context, log *zap.Logger, res *Result) error {
		gda := external(d.gdaForwarder, gdaForwarderABI())
		return d.transact(ctx, log, res, gda, nil, "connectPool", pool, []byte{})
	})
}

// ClaimAll claims member's balance from a GDA pool. A nil, empty or zero
// address member claims for the connected account.
func (d *Dispatcher) ClaimAll(ctx context.Context, pool, member any) (*Result, error) {
	return d.run(ctx, OpClaimAll, func(ctx context.Context, log *zap.Logger, res *Result) error {
		if isZeroMember(member) {
			member = d.session.Account()
		}
		gda := external(d.gdaForwarder, gdaForwarderABI())
		return d.transact(ctx, log, res, gda, nil, "claimAll", pool, member, []byte{})
	})
}

func isZeroMember(member any) bool {
	switch m := member.(type) {
	case nil:
		return true
	case string:
		return m == "" || (common.IsHexAddress(m) && common.HexToAddress(m) == common.Address{})
	case common.Address:
		return m == common.Address{}
	case *common.Address:
		return m == nil || *m == common.Address{}
	}
	return false
}
