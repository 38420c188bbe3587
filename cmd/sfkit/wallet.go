package main

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/branched-services/go-superfluid/dispatch"
	"github.com/branched-services/go-superfluid/wallet"
)

// errReported marks an error whose message was already printed.
var errReported = errors.New("reported")

// signingKey loads the configured private key or keystore.
func (a *app) signingKey() (*ecdsa.PrivateKey, error) {
	switch {
	case a.cfg.PrivateKey != "":
		return wallet.LoadKey(a.cfg.PrivateKey)
	case a.cfg.Keystore != "":
		pass := os.Getenv("SFKIT_KEYSTORE_PASSPHRASE")
		if pass == "" {
			var err error
			if pass, err = wallet.PromptPassphrase(os.Stderr, "Keystore passphrase: "); err != nil {
				return nil, err
			}
		}
		return wallet.LoadKeystore(a.cfg.Keystore, pass)
	default:
		return nil, errors.New("no signing key: set private_key or keystore in the config, or SFKIT_PRIVATE_KEY")
	}
}

// rpcEndpoint returns the configured endpoint, falling back to the first RPC of
// the configured chain.
func (a *app) rpcEndpoint() (string, error) {
	if a.cfg.RPCURL != "" {
		return a.cfg.RPCURL, nil
	}
	if a.cfg.Chain != 0 {
		reg, err := a.registry()
		if err != nil {
			return "", err
		}
		if entry, ok := reg.Lookup(a.cfg.Chain); ok && entry.Params != nil && len(entry.Params.RPCURLs) > 0 {
			return entry.Params.RPCURLs[0], nil
		}
	}
	return "", errors.New("no RPC endpoint: set rpc_url, --rpc or a chain with public RPCs")
}

// dispatcher connects a keyed wallet and returns a dispatcher bound to it.
// The returned func releases the RPC connections.
func (a *app) dispatcher(ctx context.Context) (*dispatch.Dispatcher, func(), error) {
	key, err := a.signingKey()
	if err != nil {
		return nil, nil, err
	}
	reg, err := a.registry()
	if err != nil {
		return nil, nil, err
	}
	endpoint, err := a.rpcEndpoint()
	if err != nil {
		return nil, nil, err
	}

	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("dialing %s: %w", endpoint, err)
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("reading chain id: %w", err)
	}

	provider := wallet.NewKeyedProvider(key,
		wallet.WithBackend(id.Uint64(), client),
		wallet.WithLogger(a.logger),
	)
	session := wallet.NewSession(provider, wallet.WithSessionLogger(a.logger))

	if _, err := session.Connect(ctx); err != nil {
		provider.Close()
		return nil, nil, err
	}

	if a.cfg.Chain != 0 && a.cfg.Chain != id.Uint64() {
		entry, ok := reg.Lookup(a.cfg.Chain)
		if !ok {
			provider.Close()
			return nil, nil, fmt.Errorf("chain %d is not in the registry", a.cfg.Chain)
		}
		if err := session.SwitchNetwork(ctx, entry); err != nil {
			provider.Close()
			return nil, nil, err
		}
	}

	a.logger.Debug("wallet ready",
		zap.String("account", session.Account().Hex()),
		zap.Uint64("rpc_chain_id", id.Uint64()),
	)
	return dispatch.New(session, reg, dispatch.WithLogger(a.logger)), provider.Close, nil
}

// withDispatcher runs fn with a connected dispatcher and prints its result.
func (a *app) withDispatcher(cmd *cobra.Command, fn func(context.Context, *dispatch.Dispatcher) (*dispatch.Result, error)) error {
	ctx := cmd.Context()
	d, closeFn, err := a.dispatcher(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := fn(ctx, d)
	return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, err)
}

// report prints a dispatch result, or the readable message of a dispatch
// error.
func report(out, errOut io.Writer, res *dispatch.Result, err error) error {
	if err != nil {
		var derr *dispatch.Error
		if errors.As(err, &derr) {
			_, _ = fmt.Fprintln(errOut, derr.Message())
			return fmt.Errorf("%w: %w", errReported, err)
		}
		return err
	}

	_, _ = fmt.Fprintln(out, res.Message)
	if res.TxHash != (common.Hash{}) {
		_, _ = fmt.Fprintf(out, "tx:      %s\n", res.TxHash.Hex())
	}
	if res.Receipt != nil {
		_, _ = fmt.Fprintf(out, "block:   %d\n", res.Receipt.BlockNumber.Uint64())
	}
	if res.Address != (common.Address{}) {
		_, _ = fmt.Fprintf(out, "address: %s\n", res.Address.Hex())
	}
	return nil
}

// parseAddress parses a hex address flag.
func parseAddress(name, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("--%s: invalid address %q", name, s)
	}
	return common.HexToAddress(s), nil
}
