package macrogen

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"

	"github.com/branched-services/go-superfluid"
)

func mustSelect(t *testing.T, ops ...Operation) Selection {
	t.Helper()
	sel, err := NewSelection(ops...)
	if err != nil {
		t.Fatalf("NewSelection(%v): %v", ops, err)
	}
	return sel
}

func TestGenerateGolden(t *testing.T) {
	tests := []struct {
		golden string
		ops    []Operation
	}{
		{"empty", nil},
		{"downgrade", []Operation{Downgrade}},
		{"connect_claim", []Operation{Connect, Claim}},
		{"all", []Operation{Upgrade, Downgrade, Connect, Flow, Claim}},
	}

	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			want, err := os.ReadFile(filepath.Join("testdata", tt.golden+".sol"))
			if err != nil {
				t.Fatal(err)
			}
			got := Generate(mustSelect(t, tt.ops...))
			if diff := cmp.Diff(string(want), got); diff != "" {
				t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(mustSelect(t, Claim, Flow, Upgrade))
	b := Generate(mustSelect(t, Upgrade, Claim, Flow))
	c := Generate(mustSelect(t, Flow, Upgrade, Claim, Flow))

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("selection order changed output (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(a, c); diff != "" {
		t.Errorf("repeated operation changed output (-a +c):\n%s", diff)
	}
	if a != Generate(mustSelect(t, Claim, Flow, Upgrade)) {
		t.Error("Expected identical output for identical selection")
	}
}

func TestGenerateConnectClaim(t *testing.T) {
	out := Generate(mustSelect(t, Connect, Claim))

	if n := strings.Count(out, "address poolAddr"); n != 2 {
		// getParams signature and the abi.decode destructuring
		t.Errorf("Expected poolAddr declared twice, got %d", n)
	}
	if !strings.Contains(out, "function getParams(address superTokenAddr, address poolAddr)\n") {
		t.Error("Expected getParams to take exactly poolAddr after superTokenAddr")
	}
	if n := strings.Count(out, "// op: claim all"); n != 1 {
		t.Errorf("Expected one claim clause, got %d", n)
	}
	if !strings.Contains(out, "new ISuperfluid.Operation[](2)") {
		t.Error("Expected operations sized by the selection")
	}
}

func TestGenerateDowngradeReferencesPool(t *testing.T) {
	out := Generate(mustSelect(t, Downgrade))

	if !strings.Contains(out, "address(pool.superToken())") {
		t.Error("Expected downgrade fragment to reference pool")
	}
	if !strings.Contains(out, "abi.encode(claimableBalance)") {
		t.Error("Expected downgrade fragment to reference claimableBalance")
	}
	if strings.Contains(out, "poolAddr") {
		t.Error("Expected no poolAddr parameter without connect or claim")
	}
}

func TestGenerateParamOnlyOperations(t *testing.T) {
	for _, op := range []Operation{Upgrade, Connect, Flow} {
		t.Run(string(op), func(t *testing.T) {
			out := Generate(mustSelect(t, op))
			if strings.Contains(out, "// op:") {
				t.Errorf("Expected no batch fragment for %s", op)
			}
			if op.Implemented() {
				t.Errorf("Expected %s to report no fragment", op)
			}
		})
	}
	if !Claim.Implemented() || !Downgrade.Implemented() {
		t.Error("Expected claim and downgrade to have fragments")
	}
}

func TestParamLayout(t *testing.T) {
	tests := []struct {
		name string
		ops  []Operation
		want []superfluid.Param
	}{
		{"empty", nil, nil},
		{"shared pool", []Operation{Claim, Connect}, []superfluid.Param{{Name: "poolAddr", Type: "address"}}},
		{"all", []Operation{Downgrade, Upgrade, Flow, Claim}, []superfluid.Param{
			{Name: "poolAddr", Type: "address"},
			{Name: "flowReceiver", Type: "address"},
			{Name: "flowRate", Type: "int96"},
			{Name: "upgradeAmount", Type: "uint256"},
			{Name: "downgradeAmount", Type: "uint256"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParamLayout(mustSelect(t, tt.ops...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParamLayout() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParamsEncode(t *testing.T) {
	params, err := Params(mustSelect(t, Connect, Flow))
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if diff := cmp.Diff([]string{"address", "address", "int96"}, params.Types()); diff != "" {
		t.Errorf("Types() mismatch (-want +got):\n%s", diff)
	}

	token := common.HexToAddress("0x5D8B4C2554aeB7e86F387B4d6c00Ac33499Ed01f")
	data, err := params.Encode(token, map[string]any{
		"poolAddr":     "0x00000000000000000000000000000000000000c0",
		"flowReceiver": "0x00000000000000000000000000000000000000b0",
		"flowRate":     "-1000",
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) != 4*32 {
		t.Errorf("Expected 4 words, got %d bytes", len(data))
	}
}

func TestSelection(t *testing.T) {
	var sel Selection
	sel.Toggle(Flow)
	sel.Toggle(Claim)
	sel.Toggle(Flow)
	sel.Toggle(Upgrade)

	if sel.Len() != 2 {
		t.Errorf("Expected 2 operations, got %d", sel.Len())
	}
	if sel.Has(Flow) {
		t.Error("Expected flow to be toggled off")
	}
	if diff := cmp.Diff([]Operation{Upgrade, Claim}, sel.Operations()); diff != "" {
		t.Errorf("Operations() mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewSelection("stream"); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("Expected ErrUnknownOperation, got %v", err)
	}
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection([]string{"Claim", " connect ", "claim"})
	if err != nil {
		t.Fatalf("ParseSelection: %v", err)
	}
	if diff := cmp.Diff([]Operation{Connect, Claim}, sel.Operations()); diff != "" {
		t.Errorf("Operations() mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseSelection([]string{"claim", "mint"}); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("Expected ErrUnknownOperation, got %v", err)
	}
}

func TestLabels(t *testing.T) {
	want := map[Operation]string{
		Upgrade:   "Upgrade Token",
		Downgrade: "Downgrade Token",
		Connect:   "Connect Pool",
		Flow:      "Create/Update/Delete Flows",
		Claim:     "Claim All",
	}
	for _, op := range All() {
		if got := op.Label(); got != want[op] {
			t.Errorf("Label(%s) = %q, want %q", op, got, want[op])
		}
	}
	if len(All()) != len(want) {
		t.Errorf("Expected %d operations, got %d", len(want), len(All()))
	}
}
