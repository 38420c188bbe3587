package superfluid

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestOperationTypeValues(t *testing.T) {
	tests := []struct {
		typ  OperationType
		want uint32
		name string
	}{
		{OperationTypeERC20Approve, 1, "ERC20_APPROVE"},
		{OperationTypeERC20TransferFrom, 2, "ERC20_TRANSFER_FROM"},
		{OperationTypeERC777Send, 3, "ERC777_SEND"},
		{OperationTypeERC20IncreaseAllowance, 4, "ERC20_INCREASE_ALLOWANCE"},
		{OperationTypeERC20DecreaseAllowance, 5, "ERC20_DECREASE_ALLOWANCE"},
		{OperationTypeSuperTokenUpgrade, 101, "SUPERTOKEN_UPGRADE"},
		{OperationTypeSuperTokenDowngrade, 102, "SUPERTOKEN_DOWNGRADE"},
		{OperationTypeSuperTokenUpgradeTo, 103, "SUPERTOKEN_UPGRADE_TO"},
		{OperationTypeCallAgreement, 201, "SUPERFLUID_CALL_AGREEMENT"},
		{OperationTypeCallAppAction, 202, "SUPERFLUID_CALL_APP_ACTION"},
		{OperationTypeSimpleForwardCall, 301, "SIMPLE_FORWARD_CALL"},
		{OperationTypeERC2771ForwardCall, 302, "ERC2771_FORWARD_CALL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if uint32(tt.typ) != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, uint32(tt.typ))
			}
			if tt.typ.String() != tt.name {
				t.Errorf("Expected %q, got %q", tt.name, tt.typ.String())
			}
		})
	}

	if got := OperationType(7).String(); got != "OperationType(7)" {
		t.Errorf("Expected OperationType(7), got %q", got)
	}
}

func TestEncodeOperation(t *testing.T) {
	t.Run("token operation has no selector", func(t *testing.T) {
		call := NewSuperToken(testToken).MustInvoke("upgrade", big.NewInt(42))
		op, err := EncodeOperation(call)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if op.Type() != OperationTypeSuperTokenUpgrade {
			t.Errorf("Expected upgrade type, got %v", op.Type())
		}
		if op.Target != testToken {
			t.Errorf("Expected target %s, got %s", testToken.Hex(), op.Target.Hex())
		}
		if len(op.Data) != 32 {
			t.Fatalf("Expected 32 bytes of data, got %d", len(op.Data))
		}
		if new(big.Int).SetBytes(op.Data).Int64() != 42 {
			t.Errorf("Expected amount 42, got %x", op.Data)
		}
	})

	t.Run("agreement call wraps calldata and user data", func(t *testing.T) {
		call := NewAgreement(testCFA, CFAv1ABI()).
			MustInvoke("createFlow", testToken, testReceiver, "1000").
			WithUserData([]byte{0xca, 0xfe})

		op, err := EncodeOperation(call)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if op.Type() != OperationTypeCallAgreement {
			t.Errorf("Expected agreement type, got %v", op.Type())
		}

		calldata, userData, err := DecodeAgreementData(op.Data)
		if err != nil {
			t.Fatalf("Expected no error decoding agreement data, got %v", err)
		}
		want, _ := call.Calldata()
		if !bytes.Equal(calldata, want) {
			t.Errorf("Expected calldata %x, got %x", want, calldata)
		}
		if !bytes.Equal(userData, []byte{0xca, 0xfe}) {
			t.Errorf("Expected user data cafe, got %x", userData)
		}
	})

	t.Run("agreement call without user data", func(t *testing.T) {
		call := NewAgreement(testGDA, GDAv1ABI()).MustInvoke("connectPool", testPool)
		op, err := EncodeOperation(call)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		_, userData, err := DecodeAgreementData(op.Data)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(userData) != 0 {
			t.Errorf("Expected empty user data, got %x", userData)
		}
	})

	t.Run("forward call carries full calldata", func(t *testing.T) {
		call := NewContract(testReceiver, MustParseABI(testABIJSON)).MustInvoke("transfer", testToken, "7")
		op, err := EncodeOperation(call)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		want, _ := call.Calldata()
		if !bytes.Equal(op.Data, want) {
			t.Errorf("Expected calldata %x, got %x", want, op.Data)
		}
		if op.Type() != OperationTypeSimpleForwardCall {
			t.Errorf("Expected forward call, got %v", op.Type())
		}
	})

	t.Run("untyped call rejected", func(t *testing.T) {
		call := NewSuperToken(testToken).MustInvoke("balanceOf", testReceiver)
		if _, err := EncodeOperation(call); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("Expected ErrInvalidOperation, got %v", err)
		}
	})
}

func TestBatchCallRoundTrip(t *testing.T) {
	ops := []Operation{
		{OperationType: uint32(OperationTypeSuperTokenUpgrade), Target: testToken, Data: []byte{0x01}},
		{OperationType: uint32(OperationTypeCallAgreement), Target: testCFA, Data: []byte{}},
	}

	data, err := EncodeBatchCall(ops)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	method := HostABI().Methods["batchCall"]
	if !bytes.Equal(data[:4], method.ID) {
		t.Errorf("Expected batchCall selector %x, got %x", method.ID, data[:4])
	}

	decoded, err := DecodeBatchCall(data)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(decoded) != len(ops) {
		t.Fatalf("Expected %d operations, got %d", len(ops), len(decoded))
	}
	for i := range ops {
		if !decoded[i].Equal(ops[i]) {
			t.Errorf("Operation %d: expected %+v, got %+v", i, ops[i], decoded[i])
		}
	}
}

func TestDecodeBatchCallRejectsOtherCalldata(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte{0x01, 0x02}},
		{"wrong selector", common.FromHex("0xdeadbeef")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var encErr *EncodingError
			if _, err := DecodeBatchCall(tt.data); !errors.As(err, &encErr) {
				t.Errorf("Expected EncodingError, got %v", err)
			}
		})
	}
}
