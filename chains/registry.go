// Package chains is the shared chain registry: chain ID, display name,
// SuperTokenFactory address and the parameters a wallet needs to add the
// network.
//
// The registry is built once and read-only afterwards. Accessors return
// copies, so callers cannot change what other callers see.
package chains

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	// ErrDuplicateChain indicates two entries share a chain ID.
	ErrDuplicateChain = errors.New("chains: duplicate chain id")

	// ErrInvalidEntry indicates an entry failed validation while loading.
	ErrInvalidEntry = errors.New("chains: invalid entry")
)

// Protocol contracts deployed at the same address on every supported chain.
var (
	CFAv1Forwarder = common.HexToAddress("0xcfA132E353cB4E398080B9700609bb008eceB125")
	GDAv1Forwarder = common.HexToAddress("0x6DA13Bde224A05a288748d857b9e7DDEffd1dE08")
	MacroForwarder = common.HexToAddress("0xFD0268E33111565dE546af2675351A4b1587F89F")
)

// NativeCurrency describes a chain's native token.
type NativeCurrency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
}

// NetworkParams are the wallet_addEthereumChain fields, minus the chain ID.
type NetworkParams struct {
	ChainName         string         `json:"chainName" yaml:"chainName"`
	RPCURLs           []string       `json:"rpcUrls" yaml:"rpcUrls"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency" yaml:"nativeCurrency"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls,omitempty" yaml:"blockExplorerUrls"`
}

func (p *NetworkParams) clone() *NetworkParams {
	if p == nil {
		return nil
	}
	c := *p
	c.RPCURLs = slices.Clone(p.RPCURLs)
	c.BlockExplorerURLs = slices.Clone(p.BlockExplorerURLs)
	return &c
}

// AddChainParameter is the single parameter of wallet_addEthereumChain.
type AddChainParameter struct {
	ChainID hexutil.Uint64 `json:"chainId"`
	NetworkParams
}

// Entry is one chain in the registry.
type Entry struct {
	ChainID        uint64
	DisplayName    string
	FactoryAddress common.Address
	Params         *NetworkParams // nil when the wallet cannot be asked to add the chain
}

// AddChainParameter returns the wallet_addEthereumChain parameter for the
// entry, or false when the entry has no network parameters.
func (e Entry) AddChainParameter() (AddChainParameter, bool) {
	if e.Params == nil {
		return AddChainParameter{}, false
	}
	return AddChainParameter{
		ChainID:       hexutil.Uint64(e.ChainID),
		NetworkParams: *e.Params.clone(),
	}, true
}

// String renders the entry the way the chain selector shows it.
func (e Entry) String() string {
	return fmt.Sprintf("%s (%d)", e.DisplayName, e.ChainID)
}

func (e Entry) clone() Entry {
	e.Params = e.Params.clone()
	return e
}

// Registry maps chain IDs to entries.
type Registry struct {
	entries map[uint64]Entry
}

// New builds a registry. Duplicate chain IDs are rejected.
func New(entries ...Entry) (*Registry, error) {
	r := &Registry{entries: make(map[uint64]Entry, len(entries))}
	for _, e := range entries {
		if _, dup := r.entries[e.ChainID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateChain, e.ChainID)
		}
		r.entries[e.ChainID] = e.clone()
	}
	return r, nil
}

//go:embed chains.yaml
var defaultYAML []byte

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("chains: embedded registry: %v", err))
	}
	return r
})

// Default returns the built-in registry.
func Default() *Registry {
	return defaultRegistry()
}

// Len returns the number of chains.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Lookup returns the entry for a chain ID.
func (r *Registry) Lookup(chainID uint64) (Entry, bool) {
	e, ok := r.entries[chainID]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// FactoryAddress returns the SuperTokenFactory for a chain, or the zero
// address when the chain is unknown.
func (r *Registry) FactoryAddress(chainID uint64) common.Address {
	return r.entries[chainID].FactoryAddress
}

// DisplayName returns the chain's name, or "" when unknown.
func (r *Registry) DisplayName(chainID uint64) string {
	return r.entries[chainID].DisplayName
}

// IDs returns all chain IDs in ascending order.
func (r *Registry) IDs() []uint64 {
	ids := make([]uint64, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Entries returns all entries ordered by ascending chain ID.
func (r *Registry) Entries() []Entry {
	ids := r.IDs()
	out := make([]Entry, len(ids))
	for i, id := range ids {
		out[i] = r.entries[id].clone()
	}
	return out
}

// Merge returns a registry holding base's entries with overlay's entries
// replacing or adding to them. Fields left empty in an overlay entry keep
// base's value. A nil registry counts as empty.
func Merge(base, overlay *Registry) *Registry {
	if base == nil {
		base = &Registry{}
	}
	if overlay == nil {
		overlay = &Registry{}
	}
	out := &Registry{entries: make(map[uint64]Entry, len(base.entries)+len(overlay.entries))}
	for id, e := range base.entries {
		out.entries[id] = e.clone()
	}
	for id, o := range overlay.entries {
		e, ok := out.entries[id]
		if !ok {
			out.entries[id] = o.clone()
			continue
		}
		if o.DisplayName != "" {
			e.DisplayName = o.DisplayName
		}
		if o.FactoryAddress != (common.Address{}) {
			e.FactoryAddress = o.FactoryAddress
		}
		if o.Params != nil {
			e.Params = o.Params.clone()
		}
		out.entries[id] = e
	}
	return out
}

// ParseChainID parses a decimal or 0x-prefixed hex chain ID, as found in
// config files and wallet chainChanged payloads.
func ParseChainID(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		id, err := hexutil.DecodeUint64(strings.ToLower(s))
		if err != nil {
			return 0, fmt.Errorf("chains: invalid chain id %q: %w", s, err)
		}
		return id, nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("chains: invalid chain id %q: %w", s, err)
	}
	return id, nil
}
