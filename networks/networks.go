// Package networks reads the Superfluid networks metadata list.
//
// The list is published as a JavaScript module whose exported value is a
// JSON array. Parse skips everything before the first '[' and decodes the
// array, ignoring whatever module text follows it.
package networks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultListURL is the published networks list.
const DefaultListURL = "https://raw.githubusercontent.com/superfluid-finance/protocol-monorepo/dev/packages/metadata/main/networks/list.cjs"

var (
	// ErrNoArray indicates the fetched text contains no array literal.
	ErrNoArray = errors.New("networks: could not find the start of the JSON array")

	// ErrMalformed indicates the array could not be decoded.
	ErrMalformed = errors.New("networks: malformed networks list")
)

// Network is one entry of the networks list.
type Network struct {
	Name               string         `json:"name"`
	IsTestnet          bool           `json:"isTestnet"`
	ChainID            uint64         `json:"chainId"`
	ShortName          string         `json:"shortName"`
	HumanReadableName  string         `json:"humanReadableName"`
	NativeTokenSymbol  string         `json:"nativeTokenSymbol"`
	NativeTokenWrapper string         `json:"nativeTokenWrapper"`
	ContractsV1        map[string]any `json:"contractsV1"`
	StartBlockV1       uint64         `json:"startBlockV1"`
	Explorer           string         `json:"explorer"`
	PublicRPCs         []string       `json:"publicRPCs"`
	SubgraphV1         SubgraphV1     `json:"subgraphV1"`
}

// SubgraphV1 describes the protocol subgraph for a network.
type SubgraphV1 struct {
	CliName        string `json:"cliName"`
	Name           string `json:"name"`
	HostedEndpoint string `json:"hostedEndpoint"`
}

// Contract resolves a contract address from contractsV1. Nested entries
// are addressed with dots, e.g. "autowrap.manager".
func (n Network) Contract(key string) (common.Address, bool) {
	var cur any = n.ContractsV1
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return common.Address{}, false
		}
		if cur, ok = m[part]; !ok {
			return common.Address{}, false
		}
	}

	s, ok := cur.(string)
	if !ok || !common.IsHexAddress(s) {
		return common.Address{}, false
	}
	return common.HexToAddress(s), true
}

// Parse decodes the networks list from module text.
func Parse(data []byte) ([]Network, error) {
	start := bytes.IndexByte(data, '[')
	if start < 0 {
		return nil, ErrNoArray
	}

	var nets []Network
	dec := json.NewDecoder(bytes.NewReader(data[start:]))
	if err := dec.Decode(&nets); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nets, nil
}

// ByChainID returns the network with the given chain ID.
func ByChainID(nets []Network, chainID uint64) (Network, bool) {
	for _, n := range nets {
		if n.ChainID == chainID {
			return n, true
		}
	}
	return Network{}, false
}

// Render writes each network's display name followed by its contract
// addresses, nested maps indented two spaces per level. Keys are sorted.
func Render(w io.Writer, nets []Network) error {
	for _, n := range nets {
		if _, err := fmt.Fprintf(w, "%s\n", n.HumanReadableName); err != nil {
			return err
		}
		if err := renderContracts(w, n.ContractsV1, 1); err != nil {
			return err
		}
	}
	return nil
}

func renderContracts(w io.Writer, contracts map[string]any, depth int) error {
	keys := make([]string, 0, len(contracts))
	for k := range contracts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	indent := strings.Repeat("  ", depth)
	for _, k := range keys {
		switch v := contracts[k].(type) {
		case map[string]any:
			if _, err := fmt.Fprintf(w, "%s%s:\n", indent, k); err != nil {
				return err
			}
			if err := renderContracts(w, v, depth+1); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(w, "%s%s: %v\n", indent, k, v); err != nil {
				return err
			}
		}
	}
	return nil
}
