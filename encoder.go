package superfluid

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// OperationType identifies how the host executes one batch operation.
// Values match BatchOperation.sol.
type OperationType uint32

const (
	// OperationTypeERC20Approve calls token.operationApprove.
	OperationTypeERC20Approve OperationType = 1

	// OperationTypeERC20TransferFrom calls token.operationTransferFrom.
	OperationTypeERC20TransferFrom OperationType = 2

	// OperationTypeERC777Send calls token.operationSend.
	OperationTypeERC777Send OperationType = 3

	// OperationTypeERC20IncreaseAllowance calls token.operationIncreaseAllowance.
	OperationTypeERC20IncreaseAllowance OperationType = 4

	// OperationTypeERC20DecreaseAllowance calls token.operationDecreaseAllowance.
	OperationTypeERC20DecreaseAllowance OperationType = 5

	// OperationTypeSuperTokenUpgrade wraps underlying tokens.
	OperationTypeSuperTokenUpgrade OperationType = 101

	// OperationTypeSuperTokenDowngrade unwraps super tokens.
	OperationTypeSuperTokenDowngrade OperationType = 102

	// OperationTypeSuperTokenUpgradeTo wraps underlying tokens to another account.
	OperationTypeSuperTokenUpgradeTo OperationType = 103

	// OperationTypeCallAgreement calls an agreement through the host.
	OperationTypeCallAgreement OperationType = 201

	// OperationTypeCallAppAction calls a super app action through the host.
	OperationTypeCallAppAction OperationType = 202

	// OperationTypeSimpleForwardCall forwards the calldata to any contract.
	OperationTypeSimpleForwardCall OperationType = 301

	// OperationTypeERC2771ForwardCall forwards the calldata with the sender appended.
	OperationTypeERC2771ForwardCall OperationType = 302
)

func (t OperationType) String() string {
	switch t {
	case OperationTypeERC20Approve:
		return "ERC20_APPROVE"
	case OperationTypeERC20TransferFrom:
		return "ERC20_TRANSFER_FROM"
	case OperationTypeERC777Send:
		return "ERC777_SEND"
	case OperationTypeERC20IncreaseAllowance:
		return "ERC20_INCREASE_ALLOWANCE"
	case OperationTypeERC20DecreaseAllowance:
		return "ERC20_DECREASE_ALLOWANCE"
	case OperationTypeSuperTokenUpgrade:
		return "SUPERTOKEN_UPGRADE"
	case OperationTypeSuperTokenDowngrade:
		return "SUPERTOKEN_DOWNGRADE"
	case OperationTypeSuperTokenUpgradeTo:
		return "SUPERTOKEN_UPGRADE_TO"
	case OperationTypeCallAgreement:
		return "SUPERFLUID_CALL_AGREEMENT"
	case OperationTypeCallAppAction:
		return "SUPERFLUID_CALL_APP_ACTION"
	case OperationTypeSimpleForwardCall:
		return "SIMPLE_FORWARD_CALL"
	case OperationTypeERC2771ForwardCall:
		return "ERC2771_FORWARD_CALL"
	default:
		return fmt.Sprintf("OperationType(%d)", uint32(t))
	}
}

// Operation is one entry of ISuperfluid.Operation[].
// Field names match the ABI tuple components.
type Operation struct {
	OperationType uint32
	Target        common.Address
	Data          []byte
}

// Type returns the operation type.
func (o Operation) Type() OperationType {
	return OperationType(o.OperationType)
}

// Equal reports whether two operations encode identically.
func (o Operation) Equal(other Operation) bool {
	return o.OperationType == other.OperationType &&
		o.Target == other.Target &&
		bytes.Equal(o.Data, other.Data)
}

var bytesPairArgs = func() abi.Arguments {
	bytesTy, _ := abi.NewType("bytes", "", nil)
	return abi.Arguments{{Type: bytesTy}, {Type: bytesTy}}
}()

// EncodeOperation turns a call into the (operationType, target, data)
// triple the host expects:
//   - token operations: the ABI-encoded arguments, no selector
//   - agreement calls: abi.encode(calldata, userData)
//   - app actions and forward calls: the calldata
func EncodeOperation(call *Call) (Operation, error) {
	opType, ok := call.OperationType()
	if !ok {
		return Operation{}, ErrInvalidOperation
	}

	var (
		data []byte
		err  error
	)

	switch opType {
	case OperationTypeCallAgreement:
		calldata, cerr := call.Calldata()
		if cerr != nil {
			return Operation{}, cerr
		}
		userData := call.UserData()
		if userData == nil {
			userData = []byte{}
		}
		data, err = bytesPairArgs.Pack(calldata, userData)

	case OperationTypeCallAppAction, OperationTypeSimpleForwardCall, OperationTypeERC2771ForwardCall:
		data, err = call.Calldata()

	default:
		data, err = call.Method().Inputs.Pack(call.Args()...)
	}
	if err != nil {
		return Operation{}, &EncodingError{Value: call.Args(), Err: err}
	}

	return Operation{
		OperationType: uint32(opType),
		Target:        call.Contract().Address(),
		Data:          data,
	}, nil
}

// EncodeBatchCall packs operations into host.batchCall calldata.
func EncodeBatchCall(ops []Operation) ([]byte, error) {
	data, err := HostABI().Pack("batchCall", ops)
	if err != nil {
		return nil, &EncodingError{Value: ops, Err: err}
	}
	return data, nil
}

// DecodeBatchCall decodes host.batchCall calldata back into operations.
// Useful for debugging and testing.
func DecodeBatchCall(calldata []byte) ([]Operation, error) {
	method := HostABI().Methods["batchCall"]
	if len(calldata) < 4 || !bytes.Equal(calldata[:4], method.ID) {
		return nil, &EncodingError{Value: calldata, Err: errors.New("not a batchCall")}
	}

	out, err := method.Inputs.Unpack(calldata[4:])
	if err != nil {
		return nil, &EncodingError{Value: calldata, Err: err}
	}

	ops := *abi.ConvertType(out[0], new([]Operation)).(*[]Operation)
	return ops, nil
}

// DecodeAgreementData splits CALL_AGREEMENT data into calldata and user data.
func DecodeAgreementData(data []byte) (calldata, userData []byte, err error) {
	out, err := bytesPairArgs.Unpack(data)
	if err != nil {
		return nil, nil, &EncodingError{Value: data, Err: err}
	}
	return out[0].([]byte), out[1].([]byte), nil
}
