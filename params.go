package superfluid

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Param is one named macro parameter.
type Param struct {
	Name string
	Type string
}

// Params is an ordered, de-duplicated macro parameter layout.
// A parameter shared by several operations (poolAddr for connect and claim)
// appears once, at the position it was first declared.
type Params struct {
	params []Param
	index  map[string]int
}

// NewParams creates an empty parameter layout.
func NewParams() *Params {
	return &Params{index: make(map[string]int)}
}

// Declare adds a parameter. Declaring an existing name with the same type
// is a no-op; with a different type it fails with ErrParamConflict.
func (p *Params) Declare(name, typ string) error {
	if i, ok := p.index[name]; ok {
		if p.params[i].Type != typ {
			return fmt.Errorf("%w: %s is %s, not %s", ErrParamConflict, name, p.params[i].Type, typ)
		}
		return nil
	}
	if _, err := abi.NewType(typ, "", nil); err != nil {
		return &EncodingError{Value: typ, Err: err}
	}

	p.index[name] = len(p.params)
	p.params = append(p.params, Param{Name: name, Type: typ})
	return nil
}

// Len returns the number of declared parameters.
func (p *Params) Len() int {
	return len(p.params)
}

// List returns a copy of the declared parameters in order.
func (p *Params) List() []Param {
	return slices.Clone(p.params)
}

// Names returns the parameter names in order.
func (p *Params) Names() []string {
	names := make([]string, len(p.params))
	for i, param := range p.params {
		names[i] = param.Name
	}
	return names
}

// Types returns the parameter types in order.
func (p *Params) Types() []string {
	types := make([]string, len(p.params))
	for i, param := range p.params {
		types[i] = param.Type
	}
	return types
}

// Arguments returns the abi.Arguments for the full encoding, with the
// super token address first.
func (p *Params) Arguments() (abi.Arguments, error) {
	addressTy, _ := abi.NewType("address", "", nil)
	args := abi.Arguments{{Name: "superTokenAddr", Type: addressTy}}

	for _, param := range p.params {
		t, err := abi.NewType(param.Type, "", nil)
		if err != nil {
			return nil, &EncodingError{Value: param.Type, Err: err}
		}
		args = append(args, abi.Argument{Name: param.Name, Type: t})
	}
	return args, nil
}

// Encode returns abi.encode(superToken, values...) in declaration order.
// Values may be Go values or raw strings.
func (p *Params) Encode(superToken common.Address, values map[string]any) ([]byte, error) {
	args, err := p.Arguments()
	if err != nil {
		return nil, err
	}

	packed := make([]any, 0, len(args))
	packed = append(packed, superToken)

	for i, param := range p.params {
		raw, ok := values[param.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingParam, param.Name)
		}
		v, err := toArg(raw, args[i+1].Type)
		if err != nil {
			return nil, &ArgumentError{Method: "getParams", Index: i + 1, Err: err}
		}
		packed = append(packed, v)
	}

	data, err := args.Pack(packed...)
	if err != nil {
		return nil, &EncodingError{Value: packed, Err: err}
	}
	return data, nil
}

// Decode unpacks params produced by Encode.
func (p *Params) Decode(data []byte) (common.Address, map[string]any, error) {
	args, err := p.Arguments()
	if err != nil {
		return common.Address{}, nil, err
	}

	out, err := args.Unpack(data)
	if err != nil {
		return common.Address{}, nil, &EncodingError{Value: data, Err: err}
	}

	values := make(map[string]any, len(p.params))
	for i, param := range p.params {
		values[param.Name] = out[i+1]
	}
	return out[0].(common.Address), values, nil
}
