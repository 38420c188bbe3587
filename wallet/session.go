package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/branched-services/go-superfluid/chains"
)

var (
	// ErrNoProvider indicates no wallet provider is available.
	ErrNoProvider = errors.New("wallet: no wallet provider found")

	// ErrNoAccounts indicates the provider returned no accounts.
	ErrNoAccounts = errors.New("wallet: provider returned no accounts")

	// ErrNotConnected indicates an action needs a connected session.
	ErrNotConnected = errors.New("wallet: not connected")

	// ErrSwitchFailed indicates the wallet could not be moved to the requested network.
	ErrSwitchFailed = errors.New("wallet: failed to switch network")

	// ErrNoSigner indicates the provider cannot sign transactions.
	ErrNoSigner = errors.New("wallet: provider cannot sign transactions")
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the session logger. Default is a no-op logger.
func WithSessionLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session is the connection state for one provider.
// It is safe for concurrent use.
type Session struct {
	provider Provider
	logger   *zap.Logger

	mu        sync.RWMutex
	connected bool
	account   common.Address
}

// NewSession creates an inactive session. provider may be nil, in which
// case Connect fails with ErrNoProvider.
func NewSession(provider Provider, opts ...SessionOption) *Session {
	s := &Session{
		provider: provider,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect requests account access. On failure the session stays inactive
// and the error is returned. It is not retried.
func (s *Session) Connect(ctx context.Context) (common.Address, error) {
	if s.provider == nil {
		s.logger.Error("connect failed", zap.Error(ErrNoProvider))
		return common.Address{}, ErrNoProvider
	}

	raw, err := s.provider.Request(ctx, "eth_requestAccounts")
	if err != nil {
		s.logger.Error("connect failed", zap.Error(err))
		return common.Address{}, err
	}

	var accounts []common.Address
	if err := json.Unmarshal(raw, &accounts); err != nil {
		err = fmt.Errorf("wallet: decoding accounts: %w", err)
		s.logger.Error("connect failed", zap.Error(err))
		return common.Address{}, err
	}
	if len(accounts) == 0 {
		s.logger.Error("connect failed", zap.Error(ErrNoAccounts))
		return common.Address{}, ErrNoAccounts
	}

	s.mu.Lock()
	s.connected = true
	s.account = accounts[0]
	s.mu.Unlock()

	s.logger.Info("wallet connected", zap.String("account", accounts[0].Hex()))
	return accounts[0], nil
}

// Connected reports whether Connect succeeded.
func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Account returns the connected account, or the zero address.
func (s *Session) Account() common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// ChainID asks the provider for the active chain.
func (s *Session) ChainID(ctx context.Context) (uint64, error) {
	if s.provider == nil {
		return 0, ErrNoProvider
	}

	raw, err := s.provider.Request(ctx, "eth_chainId")
	if err != nil {
		return 0, err
	}
	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		return 0, fmt.Errorf("wallet: decoding chain id: %w", err)
	}
	return chains.ParseChainID(hex)
}

// SwitchNetwork moves the wallet to entry's chain. When the wallet does
// not know the chain (4902) it is added from entry.Params first.
func (s *Session) SwitchNetwork(ctx context.Context, entry chains.Entry) error {
	if s.provider == nil {
		return ErrNoProvider
	}

	log := s.logger.With(zap.Uint64("chain_id", entry.ChainID), zap.String("chain", entry.DisplayName))
	switchParam := map[string]any{"chainId": hexutil.Uint64(entry.ChainID)}

	_, err := s.provider.Request(ctx, "wallet_switchEthereumChain", switchParam)
	if err == nil {
		log.Info("switched network")
		return nil
	}
	if !IsCode(err, CodeUnrecognizedChain) {
		log.Error("switch network failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSwitchFailed, err)
	}

	addParam, ok := entry.AddChainParameter()
	if !ok {
		log.Error("switch network failed", zap.String("reason", "no network parameters"))
		return fmt.Errorf("%w: %s has no network parameters", ErrSwitchFailed, entry)
	}

	if _, err := s.provider.Request(ctx, "wallet_addEthereumChain", addParam); err != nil {
		log.Error("add network failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSwitchFailed, err)
	}
	if _, err := s.provider.Request(ctx, "wallet_switchEthereumChain", switchParam); err != nil {
		log.Error("switch network failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSwitchFailed, err)
	}

	log.Info("added and switched network")
	return nil
}

// Transactor returns a signer for the connected account.
func (s *Session) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	signer, err := s.signer()
	if err != nil {
		return nil, err
	}
	return signer.Transactor(ctx)
}

// Backend returns the backend of the active chain.
func (s *Session) Backend() (Backend, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}
	signer, ok := s.provider.(Signer)
	if !ok {
		return nil, ErrNoSigner
	}
	return signer.Backend()
}

func (s *Session) signer() (Signer, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}
	signer, ok := s.provider.(Signer)
	if !ok {
		return nil, ErrNoSigner
	}
	return signer, nil
}

// Disconnect discards the session state.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	s.account = common.Address{}
	s.logger.Debug("wallet disconnected")
}
