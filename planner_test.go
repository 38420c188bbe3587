package superfluid

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
)

func TestPlannerAdd(t *testing.T) {
	p := New()
	token := NewSuperToken(testToken)

	if idx := p.Add(token.MustInvoke("upgrade", "1")); idx != 0 {
		t.Errorf("Expected index 0, got %d", idx)
	}
	if idx := p.Add(token.MustInvoke("downgrade", "1")); idx != 1 {
		t.Errorf("Expected index 1, got %d", idx)
	}
	if p.Len() != 2 {
		t.Errorf("Expected 2 calls, got %d", p.Len())
	}
	if p.CallAt(1).Method().Name != "downgrade" {
		t.Errorf("Expected downgrade at index 1, got %s", p.CallAt(1).Method().Name)
	}
	if p.CallAt(5) != nil || p.CallAt(-1) != nil {
		t.Error("Expected nil for out-of-range index")
	}
}

func TestPlannerForEachCall(t *testing.T) {
	p := New()
	token := NewSuperToken(testToken)
	for range 3 {
		p.Add(token.MustInvoke("upgrade", "1"))
	}

	visited := 0
	p.ForEachCall(func(i int, _ *Call) bool {
		visited++
		return i < 1
	})
	if visited != 2 {
		t.Errorf("Expected iteration to stop after 2 calls, got %d", visited)
	}
}

func TestPlannerHelpers(t *testing.T) {
	p := New()

	steps := []func() error{
		func() error { return p.Upgrade(testToken, "1000000000000000000") },
		func() error { return p.CreateFlow(testCFA, testToken, testReceiver, "385802469135") },
		func() error { return p.UpdateFlow(testCFA, testToken, testReceiver, "1") },
		func() error { return p.DeleteFlow(testCFA, testToken, testReceiver, testPool) },
		func() error { return p.ConnectPool(testGDA, testPool) },
		func() error { return p.ClaimAll(testGDA, testPool, testReceiver) },
		func() error { return p.Downgrade(testToken, big.NewInt(5)) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: Expected no error, got %v", i, err)
		}
	}

	batch, err := p.Plan()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []OperationType{
		OperationTypeSuperTokenUpgrade,
		OperationTypeCallAgreement,
		OperationTypeCallAgreement,
		OperationTypeCallAgreement,
		OperationTypeCallAgreement,
		OperationTypeCallAgreement,
		OperationTypeSuperTokenDowngrade,
	}
	if batch.Len() != len(want) {
		t.Fatalf("Expected %d operations, got %d", len(want), batch.Len())
	}
	for i, typ := range want {
		if batch.Operations[i].Type() != typ {
			t.Errorf("Operation %d: expected %v, got %v", i, typ, batch.Operations[i].Type())
		}
	}
	if batch.Operations[4].Target != testGDA {
		t.Errorf("Expected connectPool to target GDA, got %s", batch.Operations[4].Target.Hex())
	}
	if batch.Value.Sign() != 0 {
		t.Errorf("Expected zero value, got %s", batch.Value)
	}
}

func TestPlannerHelperErrors(t *testing.T) {
	p := New()
	if err := p.Upgrade(testToken, "-1"); err == nil {
		t.Error("Expected error for negative upgrade amount")
	}
	if err := p.CreateFlow(testCFA, testToken, testReceiver, "not-a-rate"); err == nil {
		t.Error("Expected error for invalid flow rate")
	}
	if p.Len() != 0 {
		t.Errorf("Expected failed helpers to add nothing, got %d calls", p.Len())
	}
}

func TestPlannerUserData(t *testing.T) {
	p := New(WithUserData([]byte{0x01}))
	if err := p.CreateFlow(testCFA, testToken, testReceiver, "1"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := p.Upgrade(testToken, "1"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !bytes.Equal(p.CallAt(0).UserData(), []byte{0x01}) {
		t.Errorf("Expected agreement call to carry user data, got %x", p.CallAt(0).UserData())
	}
	if p.CallAt(1).UserData() != nil {
		t.Error("Expected token call to carry no user data")
	}
}

func TestPlan(t *testing.T) {
	t.Run("empty batch", func(t *testing.T) {
		if _, err := New().Plan(); !errors.Is(err, ErrEmptyBatch) {
			t.Errorf("Expected ErrEmptyBatch, got %v", err)
		}
	})

	t.Run("too many operations", func(t *testing.T) {
		p := New()
		_ = p.Upgrade(testToken, "1")
		_ = p.Upgrade(testToken, "2")

		if _, err := p.Plan(WithMaxOperations(1)); !errors.Is(err, ErrTooManyOperations) {
			t.Errorf("Expected ErrTooManyOperations, got %v", err)
		}
	})

	t.Run("invalid operation reports index", func(t *testing.T) {
		p := New()
		_ = p.Upgrade(testToken, "1")
		p.Add(NewSuperToken(testToken).MustInvoke("balanceOf", testReceiver))

		_, err := p.Plan()
		var planErr *PlanError
		if !errors.As(err, &planErr) {
			t.Fatalf("Expected PlanError, got %v", err)
		}
		if planErr.OperationIndex != 1 || planErr.Method != "balanceOf" {
			t.Errorf("Expected operation 1 (balanceOf), got %d (%s)", planErr.OperationIndex, planErr.Method)
		}
		if !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("Expected ErrInvalidOperation, got %v", err)
		}
	})

	t.Run("value forwarding sums value", func(t *testing.T) {
		ext := NewContract(testReceiver, MustParseABI(testABIJSON))
		p := New()
		p.Add(ext.MustInvoke("transfer", testToken, "1").WithValue(big.NewInt(3)))
		p.Add(ext.MustInvoke("transfer", testToken, "2").WithValue(big.NewInt(4)))

		if _, err := p.Plan(); !errors.Is(err, ErrValueNotAllowed) {
			t.Errorf("Expected ErrValueNotAllowed without forwarding, got %v", err)
		}

		batch, err := p.Plan(WithValueForwarding(true))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if batch.Value.Int64() != 7 {
			t.Errorf("Expected total value 7, got %s", batch.Value)
		}
	})

	t.Run("calldata decodes back", func(t *testing.T) {
		p := New()
		_ = p.Upgrade(testToken, "1")
		_ = p.ConnectPool(testGDA, testPool)

		batch, err := p.Plan()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		data, err := batch.Calldata()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		ops, err := DecodeBatchCall(data)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		for i := range ops {
			if !ops[i].Equal(batch.Operations[i]) {
				t.Errorf("Operation %d did not survive the round trip", i)
			}
		}
	})
}
