package superfluid

import (
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ContractType specifies how the host reaches the contract inside a batch.
type ContractType uint8

const (
	// SuperToken contracts are operated on directly by the host.
	SuperToken ContractType = iota

	// Agreement contracts are called via host.callAgreement.
	Agreement

	// App contracts are super apps called via host.callAppAction.
	App

	// External contracts are reached with a simple forward call.
	External
)

func (t ContractType) String() string {
	switch t {
	case SuperToken:
		return "supertoken"
	case Agreement:
		return "agreement"
	case App:
		return "app"
	case External:
		return "external"
	default:
		return "unknown"
	}
}

// Contract wraps an Ethereum contract for use with the batch planner.
type Contract struct {
	address      common.Address
	abi          abi.ABI
	contractType ContractType
}

// ContractOption configures a Contract.
type ContractOption func(*Contract)

// AsApp marks an external contract as a super app.
func AsApp() ContractOption {
	return func(c *Contract) {
		c.contractType = App
	}
}

// NewSuperToken creates a Contract wrapper for a super token using the
// bundled super token ABI.
func NewSuperToken(address common.Address) *Contract {
	return &Contract{
		address:      address,
		abi:          SuperTokenABI(),
		contractType: SuperToken,
	}
}

// NewAgreement creates a Contract wrapper for an agreement class.
func NewAgreement(address common.Address, contractABI abi.ABI) *Contract {
	return &Contract{
		address:      address,
		abi:          contractABI,
		contractType: Agreement,
	}
}

// NewContract creates a Contract wrapper for external contracts.
// External contracts are reached with a forward call (or an app action with AsApp).
func NewContract(address common.Address, contractABI abi.ABI, opts ...ContractOption) *Contract {
	c := &Contract{
		address:      address,
		abi:          contractABI,
		contractType: External,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Address returns the contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// ABI returns the contract ABI.
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// Type returns the contract type.
func (c *Contract) Type() ContractType {
	return c.contractType
}

// Invoke creates a Call for the named method with the given arguments.
// Arguments can be Go values or raw strings; strings are parsed against
// the method's input types.
//
// For agreements, the trailing ctx argument may be left out.
func (c *Contract) Invoke(methodName string, args ...any) (*Call, error) {
	method, ok := c.abi.Methods[methodName]
	if !ok {
		return nil, &MethodNotFoundError{Contract: c.address, Method: methodName}
	}

	if c.contractType == Agreement && len(args) == len(method.Inputs)-1 && hasCtxInput(method) {
		args = append(slices.Clone(args), []byte{})
	}

	return newCall(c, method, args)
}

// MustInvoke is like Invoke but panics on error.
func (c *Contract) MustInvoke(methodName string, args ...any) *Call {
	call, err := c.Invoke(methodName, args...)
	if err != nil {
		panic(err)
	}
	return call
}

// HasMethod returns true if the contract has a method with the given name.
func (c *Contract) HasMethod(methodName string) bool {
	_, ok := c.abi.Methods[methodName]
	return ok
}

// MethodNames returns all method names in the contract ABI, sorted.
func (c *Contract) MethodNames() []string {
	names := make([]string, 0, len(c.abi.Methods))
	for name := range c.abi.Methods {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// defaultOperationType returns the batch operation type for a method.
func (c *Contract) defaultOperationType(method string) (OperationType, bool) {
	switch c.contractType {
	case Agreement:
		return OperationTypeCallAgreement, true
	case App:
		return OperationTypeCallAppAction, true
	case External:
		return OperationTypeSimpleForwardCall, true
	}

	switch method {
	case "upgrade":
		return OperationTypeSuperTokenUpgrade, true
	case "downgrade":
		return OperationTypeSuperTokenDowngrade, true
	case "upgradeTo":
		return OperationTypeSuperTokenUpgradeTo, true
	case "approve":
		return OperationTypeERC20Approve, true
	case "transferFrom":
		return OperationTypeERC20TransferFrom, true
	case "increaseAllowance":
		return OperationTypeERC20IncreaseAllowance, true
	case "decreaseAllowance":
		return OperationTypeERC20DecreaseAllowance, true
	case "send":
		return OperationTypeERC777Send, true
	default:
		return 0, false
	}
}

// hasCtxInput reports whether the last input is the agreement ctx placeholder.
func hasCtxInput(method abi.Method) bool {
	if len(method.Inputs) == 0 {
		return false
	}
	last := method.Inputs[len(method.Inputs)-1]
	return last.Name == "ctx" && last.Type.T == abi.BytesTy
}

// ParseABI parses a JSON ABI string into an abi.ABI.
func ParseABI(abiJSON string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
}

// MustParseABI is like ParseABI but panics on error.
func MustParseABI(abiJSON string) abi.ABI {
	parsed, err := ParseABI(abiJSON)
	if err != nil {
		panic(err)
	}
	return parsed
}
