package chains

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/branched-services/go-superfluid/networks"
)

type fileFormat struct {
	Chains []fileEntry `yaml:"chains"`
}

type fileEntry struct {
	ID      uint64         `yaml:"id"`
	Name    string         `yaml:"name"`
	Factory string         `yaml:"factory"`
	Params  *NetworkParams `yaml:"params"`
}

// Load reads a registry from YAML:
//
//	chains:
//	  - id: 137
//	    name: Polygon
//	    factory: "0x2C90719f25B10Fc5646c82DA3240C76Fa5BcCF34"
//	    params:
//	      chainName: Polygon
//	      rpcUrls: ["https://polygon-rpc.com"]
//	      nativeCurrency: {name: POL, symbol: POL, decimals: 18}
//
// The factory may be left out for overlays that only add network params.
func Load(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("chains: reading registry: %w", err)
	}
	return parse(data)
}

// LoadFile reads a registry from a YAML file.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chains: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func parse(data []byte) (*Registry, error) {
	var file fileFormat
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("chains: decoding registry: %w", err)
	}

	entries := make([]Entry, 0, len(file.Chains))
	for i, fe := range file.Chains {
		if fe.ID == 0 {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrInvalidEntry, i)
		}

		var factory common.Address
		if fe.Factory != "" {
			if !common.IsHexAddress(fe.Factory) {
				return nil, fmt.Errorf("%w: chain %d factory %q", ErrInvalidEntry, fe.ID, fe.Factory)
			}
			factory = common.HexToAddress(fe.Factory)
		}

		entries = append(entries, Entry{
			ChainID:        fe.ID,
			DisplayName:    fe.Name,
			FactoryAddress: factory,
			Params:         fe.Params,
		})
	}
	return New(entries...)
}

// Enrich returns a copy of r where entries without network params get
// them from the networks metadata list. Existing params are kept.
func (r *Registry) Enrich(nets []networks.Network) *Registry {
	out := Merge(r, &Registry{})
	for id, e := range out.entries {
		if e.Params != nil {
			continue
		}
		n, ok := networks.ByChainID(nets, id)
		if !ok || len(n.PublicRPCs) == 0 {
			continue
		}

		params := &NetworkParams{
			ChainName: n.HumanReadableName,
			RPCURLs:   append([]string(nil), n.PublicRPCs...),
			NativeCurrency: NativeCurrency{
				Name:     n.NativeTokenSymbol,
				Symbol:   n.NativeTokenSymbol,
				Decimals: 18,
			},
		}
		if n.Explorer != "" {
			params.BlockExplorerURLs = []string{n.Explorer}
		}
		e.Params = params
		out.entries[id] = e
	}
	return out
}
