package superfluid

import (
	"errors"
	"math/big"
	"slices"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestParamsDeclare(t *testing.T) {
	p := NewParams()

	for _, d := range []Param{
		{"poolAddr", "address"},
		{"flowRate", "int96"},
		{"poolAddr", "address"},
	} {
		if err := p.Declare(d.Name, d.Type); err != nil {
			t.Fatalf("Declare(%s): Expected no error, got %v", d.Name, err)
		}
	}

	if p.Len() != 2 {
		t.Errorf("Expected 2 params, got %d", p.Len())
	}
	if !slices.Equal(p.Names(), []string{"poolAddr", "flowRate"}) {
		t.Errorf("Expected [poolAddr flowRate], got %v", p.Names())
	}
	if !slices.Equal(p.Types(), []string{"address", "int96"}) {
		t.Errorf("Expected [address int96], got %v", p.Types())
	}

	t.Run("conflicting type", func(t *testing.T) {
		if err := p.Declare("poolAddr", "uint256"); !errors.Is(err, ErrParamConflict) {
			t.Errorf("Expected ErrParamConflict, got %v", err)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if err := p.Declare("x", "notatype"); err == nil {
			t.Error("Expected error for invalid ABI type")
		}
		if p.Len() != 2 {
			t.Errorf("Expected failed declaration to add nothing, got %d params", p.Len())
		}
	})

	t.Run("List returns a copy", func(t *testing.T) {
		list := p.List()
		list[0].Name = "changed"
		if p.Names()[0] != "poolAddr" {
			t.Error("Expected List to return a copy")
		}
	})
}

func TestParamsEncode(t *testing.T) {
	p := NewParams()
	_ = p.Declare("flowReceiver", "address")
	_ = p.Declare("flowRate", "int96")

	data, err := p.Encode(testToken, map[string]any{
		"flowReceiver": testReceiver.Hex(),
		"flowRate":     "-1000",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(data) != 3*32 {
		t.Fatalf("Expected 96 bytes, got %d", len(data))
	}
	if common.BytesToAddress(data[:32]) != testToken {
		t.Errorf("Expected super token first, got %x", data[:32])
	}

	token, values, err := p.Decode(data)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if token != testToken {
		t.Errorf("Expected token %s, got %s", testToken.Hex(), token.Hex())
	}
	if values["flowReceiver"].(common.Address) != testReceiver {
		t.Errorf("Expected receiver %s, got %v", testReceiver.Hex(), values["flowReceiver"])
	}
	if values["flowRate"].(*big.Int).Int64() != -1000 {
		t.Errorf("Expected rate -1000, got %v", values["flowRate"])
	}
}

func TestParamsEncodeErrors(t *testing.T) {
	p := NewParams()
	_ = p.Declare("poolAddr", "address")

	t.Run("missing value", func(t *testing.T) {
		if _, err := p.Encode(testToken, map[string]any{}); !errors.Is(err, ErrMissingParam) {
			t.Errorf("Expected ErrMissingParam, got %v", err)
		}
	})

	t.Run("bad value", func(t *testing.T) {
		_, err := p.Encode(testToken, map[string]any{"poolAddr": "nope"})
		var argErr *ArgumentError
		if !errors.As(err, &argErr) {
			t.Fatalf("Expected ArgumentError, got %v", err)
		}
		if argErr.Index != 1 {
			t.Errorf("Expected index 1, got %d", argErr.Index)
		}
	})

	t.Run("empty layout encodes only the token", func(t *testing.T) {
		data, err := NewParams().Encode(testToken, nil)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(data) != 32 {
			t.Errorf("Expected 32 bytes, got %d", len(data))
		}
	})
}
