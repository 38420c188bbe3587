package superfluid

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for common failure conditions.
var (
	// ErrEmptyBatch indicates Plan was called without any operation.
	ErrEmptyBatch = errors.New("superfluid: batch has no operations")

	// ErrTooManyOperations indicates the batch exceeds the configured limit.
	ErrTooManyOperations = errors.New("superfluid: too many operations in batch")

	// ErrArgumentCount indicates a method was invoked with the wrong number of arguments.
	ErrArgumentCount = errors.New("superfluid: wrong number of arguments")

	// ErrInvalidOperation indicates a call cannot be expressed as a batch operation.
	ErrInvalidOperation = errors.New("superfluid: invalid operation for this contract type")

	// ErrValueNotAllowed indicates native value was attached where it cannot be forwarded.
	ErrValueNotAllowed = errors.New("superfluid: native value not allowed for this operation")

	// ErrUnsupportedType indicates a raw string cannot be converted to the ABI type.
	ErrUnsupportedType = errors.New("superfluid: unsupported argument type")

	// ErrParamConflict indicates a parameter was declared twice with different types.
	ErrParamConflict = errors.New("superfluid: parameter declared with conflicting types")

	// ErrMissingParam indicates no value was supplied for a declared parameter.
	ErrMissingParam = errors.New("superfluid: missing parameter value")
)

// MethodNotFoundError indicates the contract doesn't have the requested method.
type MethodNotFoundError struct {
	Contract common.Address
	Method   string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("superfluid: method %q not found in contract %s", e.Method, e.Contract.Hex())
}

// ArgumentError indicates an issue with a function argument.
type ArgumentError struct {
	Method string
	Index  int
	Err    error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("superfluid: argument %d for method %q: %v", e.Index, e.Method, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// PlanError wraps errors that occur while compiling a batch.
type PlanError struct {
	OperationIndex int
	Method         string
	Err            error
}

func (e *PlanError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("superfluid: operation %d (%s): %v", e.OperationIndex, e.Method, e.Err)
	}
	return fmt.Sprintf("superfluid: operation %d: %v", e.OperationIndex, e.Err)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// EncodingError indicates a failure during value or operation encoding.
type EncodingError struct {
	Value any
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("superfluid: encoding error for value %T: %v", e.Value, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
