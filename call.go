package superfluid

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Call represents a pending contract call that can be added to a Planner
// or sent on its own.
// Call is immutable - modifier methods return new instances.
type Call struct {
	contract *Contract
	method   abi.Method
	args     []any
	opType   OperationType
	typed    bool     // opType was resolved from the contract type
	userData []byte   // agreement user data
	value    *big.Int // native value for forward calls
}

// newCall creates a Call from a contract, method, and arguments.
// Arguments are converted using the method's input types.
func newCall(contract *Contract, method abi.Method, rawArgs []any) (*Call, error) {
	if len(rawArgs) != len(method.Inputs) {
		return nil, &ArgumentError{
			Method: method.Name,
			Index:  len(rawArgs),
			Err:    fmt.Errorf("%w: want %d, got %d", ErrArgumentCount, len(method.Inputs), len(rawArgs)),
		}
	}

	args := make([]any, len(rawArgs))
	for i, arg := range rawArgs {
		val, err := toArg(arg, method.Inputs[i].Type)
		if err != nil {
			return nil, &ArgumentError{
				Method: method.Name,
				Index:  i,
				Err:    err,
			}
		}
		args[i] = val
	}

	opType, typed := contract.defaultOperationType(method.Name)

	return &Call{
		contract: contract,
		method:   method,
		args:     args,
		opType:   opType,
		typed:    typed,
	}, nil
}

// Contract returns the target contract for this call.
func (c *Call) Contract() *Contract {
	return c.contract
}

// Method returns the ABI method for this call.
func (c *Call) Method() abi.Method {
	return c.method
}

// Args returns the converted arguments for this call.
func (c *Call) Args() []any {
	return c.args
}

// OperationType returns the batch operation type. The second result is
// false when the method has no batch representation.
func (c *Call) OperationType() (OperationType, bool) {
	return c.opType, c.typed
}

// UserData returns the agreement user data (nil if none).
func (c *Call) UserData() []byte {
	return c.userData
}

// EthValue returns the native value for this call (nil if none).
func (c *Call) EthValue() *big.Int {
	return c.value
}

// Selector returns the 4-byte function selector.
func (c *Call) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], c.method.ID[:4])
	return sel
}

// Calldata returns the ABI-encoded call including the selector.
func (c *Call) Calldata() ([]byte, error) {
	data, err := c.contract.abi.Pack(c.method.Name, c.args...)
	if err != nil {
		return nil, &EncodingError{Value: c.args, Err: err}
	}
	return data, nil
}

// WithUserData attaches user data to an agreement call.
//
// Returns a new Call with the user data set.
func (c *Call) WithUserData(data []byte) *Call {
	clone := c.clone()
	clone.userData = slices.Clone(data)
	return clone
}

// WithValue attaches native value to the call.
// Only forward calls can carry value, and only when the plan allows it.
//
// Returns a new Call with the value set.
func (c *Call) WithValue(amount *big.Int) *Call {
	clone := c.clone()
	clone.value = new(big.Int).Set(amount)
	return clone
}

// AsERC2771 forwards the call with the sender appended (ERC-2771).
// Only valid for external contracts.
//
// Returns a new Call with the operation type changed.
func (c *Call) AsERC2771() *Call {
	clone := c.clone()
	if c.contract.contractType == External {
		clone.opType = OperationTypeERC2771ForwardCall
	}
	return clone
}

// clone creates a shallow copy of the Call.
func (c *Call) clone() *Call {
	clone := *c
	clone.args = slices.Clone(c.args)
	return &clone
}

// validate checks the Call can be encoded as a batch operation.
func (c *Call) validate(cfg *planConfig) error {
	if !c.typed {
		return ErrInvalidOperation
	}

	if c.value != nil && c.value.Sign() > 0 {
		if !cfg.allowValue {
			return ErrValueNotAllowed
		}
		if c.opType != OperationTypeSimpleForwardCall && c.opType != OperationTypeERC2771ForwardCall {
			return ErrValueNotAllowed
		}
	}

	if c.value != nil && c.value.Sign() < 0 {
		return ErrValueNotAllowed
	}

	return nil
}
