package subgraph

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/branched-services/go-superfluid"
)

var (
	// ErrNoAccount indicates the subgraph does not know the account.
	ErrNoAccount = errors.New("subgraph: account not found")

	// ErrNoSnapshot indicates the account has no snapshot for the token.
	ErrNoSnapshot = errors.New("subgraph: no token snapshot")
)

const snapshotsQuery = `query FetchBalance($id: String!) {
  account(id: $id) {
    accountTokenSnapshots {
      token {
        id
        symbol
      }
      balanceUntilUpdatedAt
      totalCFANetFlowRate
      updatedAtTimestamp
    }
  }
}`

// Snapshot is an account's settled balance of one token and the net flow
// rate since it was settled.
type Snapshot struct {
	Token              common.Address
	TokenSymbol        string
	BalanceUntilUpdate *big.Int
	NetFlowRate        *big.Int
	UpdatedAt          uint64
}

// BalanceAt extrapolates the balance to timestamp now:
// balanceUntilUpdatedAt + netFlowRate * (now - updatedAt).
func (s Snapshot) BalanceAt(now uint64) *big.Int {
	elapsed := new(big.Int).Sub(new(big.Int).SetUint64(now), new(big.Int).SetUint64(s.UpdatedAt))
	streamed := new(big.Int).Mul(s.NetFlowRate, elapsed)
	return streamed.Add(streamed, s.BalanceUntilUpdate)
}

type rawSnapshot struct {
	Token struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
	} `json:"token"`
	BalanceUntilUpdatedAt string `json:"balanceUntilUpdatedAt"`
	TotalCFANetFlowRate   string `json:"totalCFANetFlowRate"`
	UpdatedAtTimestamp    string `json:"updatedAtTimestamp"`
}

func (r rawSnapshot) snapshot() (Snapshot, error) {
	balance, ok := new(big.Int).SetString(r.BalanceUntilUpdatedAt, 10)
	if !ok {
		return Snapshot{}, fmt.Errorf("subgraph: invalid balanceUntilUpdatedAt %q", r.BalanceUntilUpdatedAt)
	}
	rate, ok := new(big.Int).SetString(r.TotalCFANetFlowRate, 10)
	if !ok {
		return Snapshot{}, fmt.Errorf("subgraph: invalid totalCFANetFlowRate %q", r.TotalCFANetFlowRate)
	}
	updated, err := strconv.ParseUint(r.UpdatedAtTimestamp, 10, 64)
	if err != nil {
		return Snapshot{}, fmt.Errorf("subgraph: invalid updatedAtTimestamp %q: %w", r.UpdatedAtTimestamp, err)
	}

	s := Snapshot{
		TokenSymbol:        r.Token.Symbol,
		BalanceUntilUpdate: balance,
		NetFlowRate:        rate,
		UpdatedAt:          updated,
	}
	if common.IsHexAddress(r.Token.ID) {
		s.Token = common.HexToAddress(r.Token.ID)
	}
	return s, nil
}

// AccountTokenSnapshots returns every token snapshot of account.
func (c *Client) AccountTokenSnapshots(ctx context.Context, account common.Address) ([]Snapshot, error) {
	var data struct {
		Account *struct {
			Snapshots []rawSnapshot `json:"accountTokenSnapshots"`
		} `json:"account"`
	}

	// subgraph ids are lowercase hex
	vars := map[string]any{"id": strings.ToLower(account.Hex())}
	if err := c.Do(ctx, snapshotsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Account == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAccount, account.Hex())
	}

	out := make([]Snapshot, 0, len(data.Account.Snapshots))
	for _, raw := range data.Account.Snapshots {
		s, err := raw.snapshot()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Snapshot returns account's snapshot for token. A zero token selects the
// first snapshot.
func (c *Client) Snapshot(ctx context.Context, account, token common.Address) (Snapshot, error) {
	snaps, err := c.AccountTokenSnapshots(ctx, account)
	if err != nil {
		return Snapshot{}, err
	}
	for _, s := range snaps {
		if token == (common.Address{}) || s.Token == token {
			return s, nil
		}
	}
	return Snapshot{}, fmt.Errorf("%w: %s", ErrNoSnapshot, token.Hex())
}

// FormatEther renders wei as a decimal ether string.
func FormatEther(wei *big.Int) string {
	return superfluid.FormatUnits(wei, 18)
}

