package dispatch

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/branched-services/go-superfluid"
)

// DefaultUpgradability is the factory upgradability level for new wrappers
// (SEMI_UPGRADABLE).
const DefaultUpgradability uint8 = 1

// TokenInfo describes an ERC-20 and the suggested Super Token wrapper
// naming.
type TokenInfo struct {
	Address  common.Address
	Name     string
	Symbol   string
	Decimals uint8

	WrapperName   string
	WrapperSymbol string
}

// Upgrade wraps amount (base units) of the underlying token into token.
// The underlying must already be approved for the Super Token.
func (d *Dispatcher) Upgrade(ctx context.Context, token common.Address, amount any) (*Result, error) {
	return d.run(ctx, OpUpgrade, func(ctx context.Context, log *zap.Logger, res *Result) error {
		return d.transact(ctx, log, res, superfluid.NewSuperToken(token), nil, "upgrade", amount)
	})
}

// Downgrade unwraps amount (base units) of token.
func (d *Dispatcher) Downgrade(ctx context.Context, token common.Address, amount any) (*Result, error) {
	return d.run(ctx, OpDowngrade, func(ctx context.Context, log *zap.Logger, res *Result) error {
		return d.transact(ctx, log, res, superfluid.NewSuperToken(token), nil, "downgrade", amount)
	})
}

// Approve lets spender move amount of an ERC-20 on behalf of the connected
// account.
func (d *Dispatcher) Approve(ctx context.Context, token common.Address, spender, amount any) (*Result, error) {
	return d.run(ctx, OpApprove, func(ctx context.Context, log *zap.Logger, res *Result) error {
		return d.transact(ctx, log, res, external(token, erc20ABI()), nil, "approve", spender, amount)
	})
}

// TokenInfo reads name, symbol and decimals of an ERC-20. On failure the
// error message asks the user to enter the wrapper naming by hand.
func (d *Dispatcher) TokenInfo(ctx context.Context, token common.Address) (*TokenInfo, error) {
	var info *TokenInfo
	_, err := d.run(ctx, OpTokenInfo, func(ctx context.Context, _ *zap.Logger, res *Result) error {
		erc20 := external(token, erc20ABI())

		name, err := d.readString(ctx, erc20, "name")
		if err != nil {
			return err
		}
		symbol, err := d.readString(ctx, erc20, "symbol")
		if err != nil {
			return err
		}

		info = &TokenInfo{
			Address:       token,
			Name:          name,
			Symbol:        symbol,
			WrapperName:   "Super " + name,
			WrapperSymbol: symbol + "x",
		}
		// decimals is optional in ERC-20
		if out, err := d.read(ctx, erc20, "decimals"); err == nil && len(out) == 1 {
			if dec, ok := out[0].(uint8); ok {
				info.Decimals = dec
			}
		}

		res.Address = token
		res.Message = fmt.Sprintf("%s (%s)", info.Name, info.Symbol)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (d *Dispatcher) readString(ctx context.Context, c *superfluid.Contract, method string) (string, error) {
	out, err := d.read(ctx, c, method)
	if err != nil {
		return "", err
	}
	if len(out) != 1 {
		return "", fmt.Errorf("%s: unexpected output count %d", method, len(out))
	}
	s, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("%s: unexpected output type %T", method, out[0])
	}
	return s, nil
}

// CreateWrapper creates a Super Token wrapper for underlying through the
// factory registered for the session's chain. The new token address is
// taken from the factory's SuperTokenCreated event when present.
func (d *Dispatcher) CreateWrapper(ctx context.Context, underlying common.Address, upgradability uint8, name, symbol string) (*Result, error) {
	return d.run(ctx, OpCreateWrapper, func(ctx context.Context, log *zap.Logger, res *Result) error {
		factory, err := d.factory(ctx)
		if err != nil {
			return err
		}

		err = d.transact(ctx, log, res, external(factory, factoryABI()), nil,
			"createERC20Wrapper", underlying, upgradability, name, symbol)
		if err != nil {
			return err
		}

		created := factoryABI().Events["SuperTokenCreated"].ID
		for _, l := range res.Receipt.Logs {
			if l.Address == factory && len(l.Topics) == 2 && l.Topics[0] == created {
				res.Address = common.BytesToAddress(l.Topics[1].Bytes())
				log.Info("wrapper created", zap.String("token", res.Address.Hex()))
				break
			}
		}
		return nil
	})
}
