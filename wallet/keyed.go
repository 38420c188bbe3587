package wallet

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/branched-services/go-superfluid/chains"
)

// Dialer opens a backend for an RPC URL.
type Dialer func(ctx context.Context, url string) (Backend, error)

// ApprovalFunc decides whether the user approves a request.
// Returning an error rejects it with code 4001.
type ApprovalFunc func(ctx context.Context, method string) error

// KeyedOption configures a KeyedProvider.
type KeyedOption func(*KeyedProvider)

// WithBackend registers a backend for a chain. The first registered chain
// becomes the active one.
func WithBackend(chainID uint64, b Backend) KeyedOption {
	return func(p *KeyedProvider) {
		p.backends[chainID] = b
		if p.active == 0 {
			p.active = chainID
		}
	}
}

// WithApproval sets the approval hook for account, switch and add requests.
// Default approves everything.
func WithApproval(fn ApprovalFunc) KeyedOption {
	return func(p *KeyedProvider) {
		p.approve = fn
	}
}

// WithDialer sets how wallet_addEthereumChain connects to a new chain.
// Default is ethclient.DialContext.
func WithDialer(d Dialer) KeyedOption {
	return func(p *KeyedProvider) {
		p.dial = d
	}
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) KeyedOption {
	return func(p *KeyedProvider) {
		p.logger = logger
	}
}

// KeyedProvider is a Provider backed by a local private key.
type KeyedProvider struct {
	key     *ecdsa.PrivateKey
	address common.Address
	approve ApprovalFunc
	dial    Dialer
	logger  *zap.Logger

	mu         sync.Mutex
	backends   map[uint64]Backend
	active     uint64
	authorized bool
}

// NewKeyedProvider creates a provider for key.
func NewKeyedProvider(key *ecdsa.PrivateKey, opts ...KeyedOption) *KeyedProvider {
	p := &KeyedProvider{
		key:      key,
		address:  crypto.PubkeyToAddress(key.PublicKey),
		approve:  func(context.Context, string) error { return nil },
		dial:     dialEthclient,
		logger:   zap.NewNop(),
		backends: make(map[uint64]Backend),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func dialEthclient(ctx context.Context, url string) (Backend, error) {
	return ethclient.DialContext(ctx, url)
}

// Address returns the account controlled by the provider.
func (p *KeyedProvider) Address() common.Address {
	return p.address
}

// Request implements Provider.
func (p *KeyedProvider) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	p.logger.Debug("provider request", zap.String("method", method))

	switch method {
	case "eth_requestAccounts":
		if err := p.approval(ctx, method); err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.authorized = true
		p.mu.Unlock()
		return json.Marshal([]common.Address{p.address})

	case "eth_accounts":
		p.mu.Lock()
		defer p.mu.Unlock()
		if !p.authorized {
			return json.Marshal([]common.Address{})
		}
		return json.Marshal([]common.Address{p.address})

	case "eth_chainId":
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.active == 0 {
			return nil, providerError(CodeDisconnected, "no chain connected")
		}
		return json.Marshal(hexutil.Uint64(p.active))

	case "wallet_switchEthereumChain":
		return p.switchChain(ctx, params)

	case "wallet_addEthereumChain":
		return p.addChain(ctx, params)

	default:
		return nil, providerError(CodeUnsupportedMethod, fmt.Sprintf("method %s is not supported", method))
	}
}

func (p *KeyedProvider) approval(ctx context.Context, method string) error {
	if err := p.approve(ctx, method); err != nil {
		p.logger.Info("request rejected", zap.String("method", method), zap.Error(err))
		return providerError(CodeUserRejected, "User rejected the request.")
	}
	return nil
}

func (p *KeyedProvider) switchChain(ctx context.Context, params []any) (json.RawMessage, error) {
	var req struct {
		ChainID hexutil.Uint64 `json:"chainId"`
	}
	if err := decodeParam(params, 0, &req); err != nil {
		return nil, err
	}

	p.mu.Lock()
	_, known := p.backends[uint64(req.ChainID)]
	p.mu.Unlock()
	if !known {
		return nil, providerError(CodeUnrecognizedChain,
			fmt.Sprintf("Unrecognized chain ID %q. Try adding the chain using wallet_addEthereumChain first.", req.ChainID.String()))
	}

	if err := p.approval(ctx, "wallet_switchEthereumChain"); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.active = uint64(req.ChainID)
	p.mu.Unlock()

	p.logger.Info("switched chain", zap.Uint64("chain_id", uint64(req.ChainID)))
	return json.RawMessage("null"), nil
}

func (p *KeyedProvider) addChain(ctx context.Context, params []any) (json.RawMessage, error) {
	var req chains.AddChainParameter
	if err := decodeParam(params, 0, &req); err != nil {
		return nil, err
	}
	if len(req.RPCURLs) == 0 {
		return nil, providerError(CodeInvalidParams, "rpcUrls must not be empty")
	}

	p.mu.Lock()
	_, known := p.backends[uint64(req.ChainID)]
	p.mu.Unlock()
	if known {
		return json.RawMessage("null"), nil
	}

	if err := p.approval(ctx, "wallet_addEthereumChain"); err != nil {
		return nil, err
	}

	b, err := p.dial(ctx, req.RPCURLs[0])
	if err != nil {
		return nil, providerError(CodeInvalidParams, fmt.Sprintf("could not reach %s: %v", req.RPCURLs[0], err))
	}

	got, err := b.ChainID(ctx)
	if err != nil || got.Uint64() != uint64(req.ChainID) {
		closeBackend(b)
		return nil, providerError(CodeInvalidParams,
			fmt.Sprintf("chain ID returned by RPC endpoint does not match %d", uint64(req.ChainID)))
	}

	p.mu.Lock()
	p.backends[uint64(req.ChainID)] = b
	if p.active == 0 {
		p.active = uint64(req.ChainID)
	}
	p.mu.Unlock()

	p.logger.Info("added chain",
		zap.Uint64("chain_id", uint64(req.ChainID)),
		zap.String("name", req.ChainName),
		zap.String("rpc", req.RPCURLs[0]),
	)
	return json.RawMessage("null"), nil
}

// Backend returns the backend of the active chain.
func (p *KeyedProvider) Backend() (Backend, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.backends[p.active]
	if !ok {
		return nil, providerError(CodeDisconnected, "no chain connected")
	}
	return b, nil
}

// Transactor returns a signer for the active chain with EIP-1559 fees
// when the chain supports them, legacy gas price otherwise.
func (p *KeyedProvider) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	p.mu.Lock()
	b, ok := p.backends[p.active]
	chainID := new(big.Int).SetUint64(p.active)
	p.mu.Unlock()
	if !ok {
		return nil, providerError(CodeDisconnected, "no chain connected")
	}

	opts, err := bind.NewKeyedTransactorWithChainID(p.key, chainID)
	if err != nil {
		return nil, fmt.Errorf("wallet: transactor: %w", err)
	}

	tip, tipErr := b.SuggestGasTipCap(ctx)
	hdr, hdrErr := b.HeaderByNumber(ctx, nil)

	if tipErr == nil && hdrErr == nil && hdr.BaseFee != nil {
		feeCap := new(big.Int).Mul(hdr.BaseFee, big.NewInt(2))
		feeCap.Add(feeCap, tip)
		opts.GasTipCap = tip
		opts.GasFeeCap = feeCap
	} else {
		gp, err := b.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("wallet: suggest gas price: %w", err)
		}
		opts.GasPrice = gp
	}

	opts.Context = ctx
	return opts, nil
}

// Close closes every dialed backend.
func (p *KeyedProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, b := range p.backends {
		closeBackend(b)
		delete(p.backends, id)
	}
	p.active = 0
}

func closeBackend(b Backend) {
	if c, ok := b.(interface{ Close() }); ok {
		c.Close()
	}
}
