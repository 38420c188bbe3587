package subgraph

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/branched-services/go-superfluid"
)

const (
	// DefaultRPC is the RPC endpoint used for the latest block timestamp.
	DefaultRPC = "https://polygon-testnet.public.blastapi.io"
)

// DefaultToken is fDAIx on Mumbai.
var DefaultToken = common.HexToAddress("0x5D8B4C2554aeB7e86F387B4d6c00Ac33499Ed01f")

// Chain is the RPC access the tracker needs. *ethclient.Client satisfies it.
type Chain interface {
	bind.ContractCaller
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// Balance is a real-time balance computed from a subgraph snapshot.
type Balance struct {
	Snapshot  Snapshot
	Timestamp uint64
	Wei       *big.Int
}

// Comparison holds the subgraph and on-chain balances of one token.
type Comparison struct {
	RealTime *Balance
	OnChain  *big.Int
}

// Drift returns the on-chain balance minus the real-time balance.
func (c *Comparison) Drift() *big.Int {
	return new(big.Int).Sub(c.OnChain, c.RealTime.Wei)
}

// Tracker computes real-time balances.
type Tracker struct {
	client *Client
	chain  Chain
	logger *zap.Logger
}

// NewTracker creates a tracker. logger may be nil.
func NewTracker(client *Client, chain Chain, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{client: client, chain: chain, logger: logger}
}

// RealTime returns the streamed balance of token at the latest block.
func (t *Tracker) RealTime(ctx context.Context, account, token common.Address) (*Balance, error) {
	snap, err := t.client.Snapshot(ctx, account, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch real-time balance: %w", err)
	}

	head, err := t.chain.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch real-time balance: latest block: %w", err)
	}

	b := &Balance{
		Snapshot:  snap,
		Timestamp: head.Time,
		Wei:       snap.BalanceAt(head.Time),
	}
	t.logger.Debug("real-time balance",
		zap.String("account", account.Hex()),
		zap.String("token", snap.Token.Hex()),
		zap.String("balance", b.Wei.String()),
		zap.Uint64("timestamp", b.Timestamp),
	)
	return b, nil
}

// OnChain returns balanceOf(account) on token.
func (t *Tracker) OnChain(ctx context.Context, account, token common.Address) (*big.Int, error) {
	st := bind.NewBoundContract(token, superfluid.SuperTokenABI(), t.chain, nil, nil)

	var out []any
	if err := st.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", account); err != nil {
		return nil, fmt.Errorf("failed to fetch blockchain balance: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("failed to fetch blockchain balance: unexpected output count %d", len(out))
	}
	bal, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("failed to fetch blockchain balance: unexpected type %T", out[0])
	}
	return bal, nil
}

// Compare fetches the real-time and on-chain balances concurrently.
func (t *Tracker) Compare(ctx context.Context, account, token common.Address) (*Comparison, error) {
	var cmp Comparison

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := t.RealTime(gctx, account, token)
		cmp.RealTime = b
		return err
	})
	g.Go(func() error {
		b, err := t.OnChain(gctx, account, token)
		cmp.OnChain = b
		return err
	})
	if err := g.Wait(); err != nil {
		t.logger.Error("balance comparison failed", zap.String("account", account.Hex()), zap.Error(err))
		return nil, err
	}
	return &cmp, nil
}
