package subgraph

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/branched-services/go-superfluid"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

var (
	testAccount = common.HexToAddress("0xAbCdEf0123456789aBcDeF0123456789AbCdEf01")
	testToken   = common.HexToAddress("0x5D8B4C2554aeB7e86F387B4d6c00Ac33499Ed01f")
	otherToken  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// newSubgraph serves a fixed GraphQL response and records the last request.
func newSubgraph(t *testing.T, status int, response string) (*Client, *gqlRequest) {
	t.Helper()
	var last gqlRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&last))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	t.Cleanup(func() {
		c.Close()
		srv.Close()
	})
	return c, &last
}

const snapshotsResponse = `{"data": {"account": {"accountTokenSnapshots": [
	{
		"token": {"id": "0x00000000000000000000000000000000000000aa", "symbol": "USDCx"},
		"balanceUntilUpdatedAt": "5",
		"totalCFANetFlowRate": "0",
		"updatedAtTimestamp": "1000"
	},
	{
		"token": {"id": "0x5d8b4c2554aeb7e86f387b4d6c00ac33499ed01f", "symbol": "fDAIx"},
		"balanceUntilUpdatedAt": "1000000000000000000",
		"totalCFANetFlowRate": "-1000",
		"updatedAtTimestamp": "1700000000"
	}
]}}}`

func TestAccountTokenSnapshots(t *testing.T) {
	c, last := newSubgraph(t, http.StatusOK, snapshotsResponse)

	snaps, err := c.AccountTokenSnapshots(context.Background(), testAccount)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	assert.Equal(t, strings.ToLower(testAccount.Hex()), last.Variables["id"])
	assert.Contains(t, last.Query, "accountTokenSnapshots")

	assert.Equal(t, otherToken, snaps[0].Token)
	assert.Equal(t, "fDAIx", snaps[1].TokenSymbol)
	assert.Equal(t, testToken, snaps[1].Token)
	assert.Equal(t, "-1000", snaps[1].NetFlowRate.String())
	assert.Equal(t, uint64(1700000000), snaps[1].UpdatedAt)
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	c, _ := newSubgraph(t, http.StatusOK, snapshotsResponse)

	s, err := c.Snapshot(ctx, testAccount, testToken)
	require.NoError(t, err)
	assert.Equal(t, "fDAIx", s.TokenSymbol)

	s, err = c.Snapshot(ctx, testAccount, common.Address{})
	require.NoError(t, err)
	assert.Equal(t, "USDCx", s.TokenSymbol)

	_, err = c.Snapshot(ctx, testAccount, common.HexToAddress("0x01"))
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("graphql errors", func(t *testing.T) {
		c, _ := newSubgraph(t, http.StatusOK, `{"data": null, "errors": [{"message": "bad id"}, {"message": "slow"}]}`)
		_, err := c.AccountTokenSnapshots(ctx, testAccount)

		var gqlErr Errors
		require.True(t, errors.As(err, &gqlErr))
		assert.Len(t, gqlErr, 2)
		assert.Equal(t, "subgraph: graphql errors: bad id; slow", err.Error())
	})

	t.Run("status", func(t *testing.T) {
		c, _ := newSubgraph(t, http.StatusBadGateway, `oops`)
		_, err := c.AccountTokenSnapshots(ctx, testAccount)
		assert.ErrorContains(t, err, "unexpected status code: 502")
	})

	t.Run("unknown account", func(t *testing.T) {
		c, _ := newSubgraph(t, http.StatusOK, `{"data": {"account": null}}`)
		_, err := c.AccountTokenSnapshots(ctx, testAccount)
		assert.ErrorIs(t, err, ErrNoAccount)
	})

	t.Run("empty snapshots", func(t *testing.T) {
		c, _ := newSubgraph(t, http.StatusOK, `{"data": {"account": {"accountTokenSnapshots": []}}}`)
		_, err := c.Snapshot(ctx, testAccount, common.Address{})
		assert.ErrorIs(t, err, ErrNoSnapshot)
	})

	t.Run("malformed numbers", func(t *testing.T) {
		c, _ := newSubgraph(t, http.StatusOK, `{"data": {"account": {"accountTokenSnapshots": [
			{"token": {"id": "x"}, "balanceUntilUpdatedAt": "1.5", "totalCFANetFlowRate": "0", "updatedAtTimestamp": "0"}
		]}}}`)
		_, err := c.AccountTokenSnapshots(ctx, testAccount)
		assert.ErrorContains(t, err, "balanceUntilUpdatedAt")
	})

	t.Run("invalid json", func(t *testing.T) {
		c, _ := newSubgraph(t, http.StatusOK, `{"data":`)
		_, err := c.AccountTokenSnapshots(ctx, testAccount)
		assert.ErrorContains(t, err, "decoding response")
	})
}

func TestBalanceAt(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		rate    string
		updated uint64
		now     uint64
		want    string
	}{
		{"no elapsed time", "100", "7", 50, 50, "100"},
		{"inflow", "100", "7", 50, 60, "170"},
		{"outflow", "1000000000000000000", "-1000", 1700000000, 1700000100, "999999999999900000"},
		{"negative result", "10", "-5", 0, 3, "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, _ := new(big.Int).SetString(tt.balance, 10)
			rate, _ := new(big.Int).SetString(tt.rate, 10)
			s := Snapshot{BalanceUntilUpdate: balance, NetFlowRate: rate, UpdatedAt: tt.updated}
			assert.Equal(t, tt.want, s.BalanceAt(tt.now).String())
		})
	}
}

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "1.0", FormatEther(big.NewInt(1e18)))
	assert.Equal(t, "0.9999999999999", FormatEther(big.NewInt(999999999999900000)))
	assert.Equal(t, "-0.5", FormatEther(big.NewInt(-5e17)))
}

// fakeChain serves a fixed head and balanceOf result.
type fakeChain struct {
	head    uint64
	balance *big.Int
	err     error
}

func (f *fakeChain) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.Header{Number: big.NewInt(1), Time: f.head}, nil
}

func (f *fakeChain) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x00}, nil
}

func (f *fakeChain) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	method := superfluid.SuperTokenABI().Methods["balanceOf"]
	if !strings.HasPrefix(string(call.Data), string(method.ID)) {
		return nil, errors.New("unexpected selector")
	}
	return method.Outputs.Pack(f.balance)
}

func TestTrackerCompare(t *testing.T) {
	ctx := context.Background()
	c, _ := newSubgraph(t, http.StatusOK, snapshotsResponse)
	chain := &fakeChain{head: 1700000100, balance: big.NewInt(999999999999900000)}
	tr := NewTracker(c, chain, nil)

	got, err := tr.Compare(ctx, testAccount, testToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000100), got.RealTime.Timestamp)
	assert.Equal(t, "999999999999900000", got.RealTime.Wei.String())
	assert.Equal(t, "999999999999900000", got.OnChain.String())
	assert.Equal(t, int64(0), got.Drift().Int64())
	assert.Equal(t, "0.9999999999999", FormatEther(got.RealTime.Wei))
}

func TestTrackerFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("rpc down", func(t *testing.T) {
		c, _ := newSubgraph(t, http.StatusOK, snapshotsResponse)
		tr := NewTracker(c, &fakeChain{err: errors.New("dial tcp: refused")}, nil)

		_, err := tr.RealTime(ctx, testAccount, testToken)
		assert.ErrorContains(t, err, "failed to fetch real-time balance")

		_, err = tr.OnChain(ctx, testAccount, testToken)
		assert.ErrorContains(t, err, "failed to fetch blockchain balance")

		_, err = tr.Compare(ctx, testAccount, testToken)
		assert.Error(t, err)
	})

	t.Run("subgraph error", func(t *testing.T) {
		c, _ := newSubgraph(t, http.StatusOK, `{"errors": [{"message": "indexing"}]}`)
		tr := NewTracker(c, &fakeChain{head: 1, balance: big.NewInt(1)}, nil)

		_, err := tr.Compare(ctx, testAccount, testToken)
		var gqlErr Errors
		assert.True(t, errors.As(err, &gqlErr))
	})
}
