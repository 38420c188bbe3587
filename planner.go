package superfluid

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Planner builds a sequence of Superfluid batch operations.
type Planner struct {
	calls    []*Call
	userData []byte
}

// New creates a new Planner with the given options.
func New(opts ...PlannerOption) *Planner {
	p := &Planner{
		calls: make([]*Call, 0, 8),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add appends a call to the batch and returns its index.
func (p *Planner) Add(call *Call) int {
	p.calls = append(p.calls, call)
	return len(p.calls) - 1
}

// Len returns the number of calls in the planner.
func (p *Planner) Len() int {
	return len(p.calls)
}

// CallAt returns the call at the given index.
func (p *Planner) CallAt(i int) *Call {
	if i < 0 || i >= len(p.calls) {
		return nil
	}
	return p.calls[i]
}

// ForEachCall iterates over all calls in the planner.
// Return false from fn to stop iteration.
func (p *Planner) ForEachCall(fn func(int, *Call) bool) {
	for i, call := range p.calls {
		if !fn(i, call) {
			return
		}
	}
}

// Upgrade wraps amount of the underlying token into token.
func (p *Planner) Upgrade(token common.Address, amount any) error {
	return p.addInvoke(NewSuperToken(token), "upgrade", amount)
}

// Downgrade unwraps amount of token back into its underlying token.
func (p *Planner) Downgrade(token common.Address, amount any) error {
	return p.addInvoke(NewSuperToken(token), "downgrade", amount)
}

// CreateFlow opens a constant flow from the batch sender to receiver.
func (p *Planner) CreateFlow(cfa, token, receiver common.Address, flowRate any) error {
	return p.addInvoke(NewAgreement(cfa, CFAv1ABI()), "createFlow", token, receiver, flowRate)
}

// UpdateFlow changes the rate of an existing flow.
func (p *Planner) UpdateFlow(cfa, token, receiver common.Address, flowRate any) error {
	return p.addInvoke(NewAgreement(cfa, CFAv1ABI()), "updateFlow", token, receiver, flowRate)
}

// DeleteFlow closes the flow from sender to receiver.
func (p *Planner) DeleteFlow(cfa, token, sender, receiver common.Address) error {
	return p.addInvoke(NewAgreement(cfa, CFAv1ABI()), "deleteFlow", token, sender, receiver)
}

// ConnectPool connects the batch sender to a distribution pool.
func (p *Planner) ConnectPool(gda, pool common.Address) error {
	return p.addInvoke(NewAgreement(gda, GDAv1ABI()), "connectPool", pool)
}

// ClaimAll claims everything member is owed by pool.
func (p *Planner) ClaimAll(gda, pool, member common.Address) error {
	return p.addInvoke(NewAgreement(gda, GDAv1ABI()), "claimAll", pool, member)
}

func (p *Planner) addInvoke(c *Contract, method string, args ...any) error {
	call, err := c.Invoke(method, args...)
	if err != nil {
		return err
	}
	if c.Type() == Agreement && len(p.userData) > 0 {
		call = call.WithUserData(p.userData)
	}
	p.Add(call)
	return nil
}

// Plan compiles all calls into batch operations.
func (p *Planner) Plan(opts ...PlanOption) (*CompiledBatch, error) {
	cfg := defaultPlanConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if len(p.calls) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(p.calls) > cfg.maxOperations {
		return nil, ErrTooManyOperations
	}

	ops := make([]Operation, 0, len(p.calls))
	value := new(big.Int)

	for i, call := range p.calls {
		if err := call.validate(cfg); err != nil {
			return nil, &PlanError{OperationIndex: i, Method: call.method.Name, Err: err}
		}

		op, err := EncodeOperation(call)
		if err != nil {
			return nil, &PlanError{OperationIndex: i, Method: call.method.Name, Err: err}
		}
		ops = append(ops, op)

		if v := call.EthValue(); v != nil {
			value.Add(value, v)
		}
	}

	return &CompiledBatch{
		Operations: ops,
		Value:      value,
	}, nil
}

// CompiledBatch contains the output of Plan(), ready for host.batchCall
// or to be returned from a macro.
type CompiledBatch struct {
	Operations []Operation
	Value      *big.Int // total native value to send with batchCall
}

// Calldata returns the host.batchCall calldata for the batch.
func (b *CompiledBatch) Calldata() ([]byte, error) {
	return EncodeBatchCall(b.Operations)
}

// Len returns the number of operations in the batch.
func (b *CompiledBatch) Len() int {
	return len(b.Operations)
}
