// Package macrogen generates the Solidity source of a Superfluid
// user-defined macro from a set of selected operations.
//
// The output is assembled from fixed fragments in a fixed order, so the same
// selection always produces the same bytes regardless of the order in which
// operations were selected. Only the claim and downgrade operations have
// batch fragments; upgrade, connect and flow contribute parameters only.
// The claim and downgrade fragments refer to pool and claimableBalance,
// which the generated contract does not declare.
package macrogen

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/branched-services/go-superfluid"
)

// ErrUnknownOperation indicates an operation name outside All().
var ErrUnknownOperation = errors.New("macrogen: unknown operation")

// Operation is a selectable macro operation.
type Operation string

const (
	Upgrade   Operation = "upgrade"
	Downgrade Operation = "downgrade"
	Connect   Operation = "connect"
	Flow      Operation = "flow"
	Claim     Operation = "claim"
)

var operations = []Operation{Upgrade, Downgrade, Connect, Flow, Claim}

// All returns every operation in display order.
func All() []Operation {
	return slices.Clone(operations)
}

// Label returns the checklist label.
func (o Operation) Label() string {
	switch o {
	case Upgrade:
		return "Upgrade Token"
	case Downgrade:
		return "Downgrade Token"
	case Connect:
		return "Connect Pool"
	case Flow:
		return "Create/Update/Delete Flows"
	case Claim:
		return "Claim All"
	default:
		return string(o)
	}
}

// Implemented reports whether the operation emits a batch fragment.
func (o Operation) Implemented() bool {
	return o == Claim || o == Downgrade
}

// ParseOperation resolves an operation by name.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(operations, op) {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
	}
	return op, nil
}

// Selection is a set of operations. The zero value is empty.
type Selection struct {
	ops []Operation
}

// NewSelection builds a selection. Repeated operations count once.
func NewSelection(ops ...Operation) (Selection, error) {
	var s Selection
	for _, op := range ops {
		if !slices.Contains(operations, op) {
			return Selection{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
		}
		if !s.Has(op) {
			s.ops = append(s.ops, op)
		}
	}
	return s, nil
}

// ParseSelection builds a selection from operation names.
func ParseSelection(names []string) (Selection, error) {
	ops := make([]Operation, 0, len(names))
	for _, n := range names {
		op, err := ParseOperation(n)
		if err != nil {
			return Selection{}, err
		}
		ops = append(ops, op)
	}
	return NewSelection(ops...)
}

// Toggle selects op if it is not selected and deselects it otherwise.
func (s *Selection) Toggle(op Operation) {
	if i := slices.Index(s.ops, op); i >= 0 {
		s.ops = slices.Delete(s.ops, i, i+1)
		return
	}
	s.ops = append(s.ops, op)
}

// Has reports whether op is selected.
func (s Selection) Has(op Operation) bool {
	return slices.Contains(s.ops, op)
}

// Len returns the number of selected operations.
func (s Selection) Len() int {
	return len(s.ops)
}

// Operations returns the selected operations in display order.
func (s Selection) Operations() []Operation {
	var out []Operation
	for _, op := range operations {
		if s.Has(op) {
			out = append(out, op)
		}
	}
	return out
}

// paramGroup is the parameter contribution of one or more operations.
type paramGroup struct {
	selected func(Selection) bool
	argument string // getParams signature text, spacing as emitted
	encoding string
	types    string
	params   []superfluid.Param
}

var paramGroups = []paramGroup{
	{
		selected: func(s Selection) bool { return s.Has(Connect) || s.Has(Claim) },
		argument: "address poolAddr",
		encoding: "poolAddr",
		types:    "address",
		params:   []superfluid.Param{{Name: "poolAddr", Type: "address"}},
	},
	{
		selected: func(s Selection) bool { return s.Has(Flow) },
		argument: " address flowReceiver, int96 flowRate",
		encoding: "flowReceiver, flowRate",
		types:    "address, int96",
		params: []superfluid.Param{
			{Name: "flowReceiver", Type: "address"},
			{Name: "flowRate", Type: "int96"},
		},
	},
	{
		selected: func(s Selection) bool { return s.Has(Upgrade) },
		argument: " uint256 upgradeAmount",
		encoding: "upgradeAmount",
		types:    "uint256",
		params:   []superfluid.Param{{Name: "upgradeAmount", Type: "uint256"}},
	},
	{
		selected: func(s Selection) bool { return s.Has(Downgrade) },
		argument: " uint256 downgradeAmount",
		encoding: "downgradeAmount",
		types:    "uint256",
		params:   []superfluid.Param{{Name: "downgradeAmount", Type: "uint256"}},
	},
}

// ParamLayout returns the getParams parameters after superTokenAddr, in
// encoding order.
func ParamLayout(sel Selection) []superfluid.Param {
	var out []superfluid.Param
	for _, g := range paramGroups {
		if g.selected(sel) {
			out = append(out, g.params...)
		}
	}
	return out
}

// Params returns the layout as superfluid.Params, ready to encode the
// runMacro params.
func Params(sel Selection) (*superfluid.Params, error) {
	p := superfluid.NewParams()
	for _, param := range ParamLayout(sel) {
		if err := p.Declare(param.Name, param.Type); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type templateData struct {
	Arguments  string
	Encoding   string
	Types      string
	Count      int
	Operations string
}

// Generate returns the macro contract source for sel.
func Generate(sel Selection) string {
	data := templateData{Count: sel.Len()}
	for _, g := range paramGroups {
		if !g.selected(sel) {
			continue
		}
		data.Arguments = joinFragment(data.Arguments, g.argument)
		data.Encoding = joinFragment(data.Encoding, g.encoding)
		data.Types = joinFragment(data.Types, g.types)
	}

	var ops strings.Builder
	if sel.Has(Claim) {
		ops.WriteString(claimFragment)
	}
	if sel.Has(Downgrade) {
		ops.WriteString(downgradeFragment)
	}
	data.Operations = ops.String()

	var b strings.Builder
	if err := macroTemplate.Execute(&b, data); err != nil {
		// string fields only; execution cannot fail
		panic(fmt.Sprintf("macrogen: %v", err))
	}
	return b.String()
}

func joinFragment(acc, frag string) string {
	if acc == "" {
		return frag
	}
	return acc + ", " + frag
}
