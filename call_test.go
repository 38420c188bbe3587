package superfluid

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestNewCall(t *testing.T) {
	t.Run("converts string arguments", func(t *testing.T) {
		cfa := NewAgreement(testCFA, CFAv1ABI())
		call, err := cfa.Invoke("createFlow", testToken.Hex(), testReceiver.Hex(), "385802469135")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if addr, ok := call.Args()[0].(common.Address); !ok || addr != testToken {
			t.Errorf("Expected token address, got %v", call.Args()[0])
		}
		rate, ok := call.Args()[2].(*big.Int)
		if !ok || rate.Cmp(big.NewInt(385802469135)) != 0 {
			t.Errorf("Expected flow rate 385802469135, got %v", call.Args()[2])
		}
	})

	t.Run("wrong argument count", func(t *testing.T) {
		token := NewSuperToken(testToken)
		_, err := token.Invoke("upgrade")

		var argErr *ArgumentError
		if !errors.As(err, &argErr) {
			t.Fatalf("Expected ArgumentError, got %v", err)
		}
		if !errors.Is(err, ErrArgumentCount) {
			t.Errorf("Expected ErrArgumentCount, got %v", err)
		}
	})

	t.Run("invalid argument reports index", func(t *testing.T) {
		cfa := NewAgreement(testCFA, CFAv1ABI())
		_, err := cfa.Invoke("createFlow", testToken, "not-an-address", "1")

		var argErr *ArgumentError
		if !errors.As(err, &argErr) {
			t.Fatalf("Expected ArgumentError, got %v", err)
		}
		if argErr.Index != 1 {
			t.Errorf("Expected index 1, got %d", argErr.Index)
		}
	})

	t.Run("method without batch representation", func(t *testing.T) {
		call, err := NewSuperToken(testToken).Invoke("balanceOf", testReceiver)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if _, ok := call.OperationType(); ok {
			t.Error("Expected balanceOf to have no operation type")
		}
	})
}

func TestCallCalldata(t *testing.T) {
	call := NewSuperToken(testToken).MustInvoke("upgrade", big.NewInt(1))

	data, err := call.Calldata()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(data) != 4+32 {
		t.Fatalf("Expected 36 bytes, got %d", len(data))
	}

	sel := call.Selector()
	if !bytes.Equal(data[:4], sel[:]) {
		t.Errorf("Expected selector %x, got %x", sel, data[:4])
	}
	if data[35] != 1 {
		t.Errorf("Expected amount 1 in last byte, got %d", data[35])
	}
}

func TestCallModifiers(t *testing.T) {
	base := NewAgreement(testCFA, CFAv1ABI()).MustInvoke("createFlow", testToken, testReceiver, "1")

	t.Run("WithUserData returns copy", func(t *testing.T) {
		data := []byte{0xde, 0xad}
		withData := base.WithUserData(data)
		data[0] = 0

		if base.UserData() != nil {
			t.Error("Expected original call to be unchanged")
		}
		if !bytes.Equal(withData.UserData(), []byte{0xde, 0xad}) {
			t.Errorf("Expected user data dead, got %x", withData.UserData())
		}
	})

	t.Run("WithValue returns copy", func(t *testing.T) {
		amount := big.NewInt(5)
		withValue := base.WithValue(amount)
		amount.SetInt64(6)

		if base.EthValue() != nil {
			t.Error("Expected original call to have no value")
		}
		if withValue.EthValue().Int64() != 5 {
			t.Errorf("Expected value 5, got %s", withValue.EthValue())
		}
	})

	t.Run("AsERC2771 only for external", func(t *testing.T) {
		if got, _ := base.AsERC2771().OperationType(); got != OperationTypeCallAgreement {
			t.Errorf("Expected agreement call to keep its type, got %v", got)
		}

		ext := NewContract(testReceiver, MustParseABI(testABIJSON)).MustInvoke("transfer", testToken, "1")
		if got, _ := ext.AsERC2771().OperationType(); got != OperationTypeERC2771ForwardCall {
			t.Errorf("Expected ERC2771 forward call, got %v", got)
		}
	})
}

func TestCallValidate(t *testing.T) {
	ext := NewContract(testReceiver, MustParseABI(testABIJSON)).MustInvoke("transfer", testToken, "1")
	upgrade := NewSuperToken(testToken).MustInvoke("upgrade", "1")

	tests := []struct {
		name    string
		call    *Call
		cfg     *planConfig
		wantErr error
	}{
		{"plain call", upgrade, defaultPlanConfig(), nil},
		{"value without forwarding", ext.WithValue(big.NewInt(1)), defaultPlanConfig(), ErrValueNotAllowed},
		{"value on forward call", ext.WithValue(big.NewInt(1)), &planConfig{maxOperations: 1, allowValue: true}, nil},
		{"value on token operation", upgrade.WithValue(big.NewInt(1)), &planConfig{maxOperations: 1, allowValue: true}, ErrValueNotAllowed},
		{"negative value", ext.WithValue(big.NewInt(-1)), &planConfig{maxOperations: 1, allowValue: true}, ErrValueNotAllowed},
		{"zero value", upgrade.WithValue(big.NewInt(0)), defaultPlanConfig(), nil},
		{"untyped call", NewSuperToken(testToken).MustInvoke("balanceOf", testReceiver), defaultPlanConfig(), ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call.validate(tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
