package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/branched-services/go-superfluid"
)

var errBadArtifact = errors.New("dispatch: invalid contract artifact")

// Artifact is a compiled contract: its ABI and creation bytecode.
// Both the Hardhat ("bytecode": "0x...") and Foundry
// ("bytecode": {"object": "0x..."}) layouts decode.
type Artifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode Bytecode        `json:"bytecode"`
}

// Bytecode is creation code in either artifact layout.
type Bytecode struct {
	Object string `json:"object"`
}

func (b *Bytecode) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		return json.Unmarshal(data, &b.Object)
	}
	type plain Bytecode
	return json.Unmarshal(data, (*plain)(b))
}

// LoadArtifact reads an artifact JSON file.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dispatch: reading artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadArtifact, err)
	}
	return &a, nil
}

func (a *Artifact) parse() (abi.ABI, []byte, error) {
	if a == nil {
		return abi.ABI{}, nil, fmt.Errorf("%w: missing", errBadArtifact)
	}
	abiJSON := string(a.ABI)
	if strings.TrimSpace(abiJSON) == "" {
		abiJSON = "[]"
	}
	parsed, err := superfluid.ParseABI(abiJSON)
	if err != nil {
		return abi.ABI{}, nil, fmt.Errorf("%w: %w", errBadArtifact, err)
	}

	obj := strings.TrimSpace(a.Bytecode.Object)
	if !strings.HasPrefix(obj, "0x") {
		obj = "0x" + obj
	}
	code, err := hexutil.Decode(obj)
	if err != nil || len(code) == 0 {
		return abi.ABI{}, nil, fmt.Errorf("%w: bad bytecode", errBadArtifact)
	}
	return parsed, code, nil
}

// DeployPureSuperToken deploys the artifact's contract with no constructor
// arguments. The result carries the deployed address.
func (d *Dispatcher) DeployPureSuperToken(ctx context.Context, artifact *Artifact) (*Result, error) {
	return d.run(ctx, OpDeploy, func(ctx context.Context, log *zap.Logger, res *Result) error {
		parsed, code, err := artifact.parse()
		if err != nil {
			return err
		}

		backend, err := d.session.Backend()
		if err != nil {
			return err
		}
		opts, err := d.session.Transactor(ctx)
		if err != nil {
			return err
		}

		addr, tx, _, err := bind.DeployContract(opts, parsed, code, backend)
		if err != nil {
			return err
		}
		log.Debug("deploy sent", zap.String("tx", tx.Hash().Hex()), zap.String("address", addr.Hex()))

		if err := d.confirm(ctx, log, res, tx); err != nil {
			return err
		}

		res.Address = addr
		res.Message = fmt.Sprintf(OpDeploy.successMessage(), addr.Hex())
		return nil
	})
}

// InitializePureSuperToken calls initialize on a deployed pure Super Token.
// The factory is the registry entry for the session's chain and
// initialSupply is a decimal amount scaled by 10^18.
func (d *Dispatcher) InitializePureSuperToken(ctx context.Context, token, name, symbol, receiver, initialSupply string) (*Result, error) {
	return d.run(ctx, OpInitialize, func(ctx context.Context, log *zap.Logger, res *Result) error {
		if strings.TrimSpace(token) == "" {
			return &Error{
				Op:      OpInitialize,
				Kind:    KindMalformed,
				Err:     ErrNoContract,
				message: "Please enter a valid contract address.",
			}
		}

		factory, err := d.factory(ctx)
		if err != nil {
			return err
		}
		supply, err := superfluid.ParseUnits(initialSupply, 18)
		if err != nil {
			return err
		}

		addr, err := superfluid.ParseArg(addressType(), token)
		if err != nil {
			return err
		}

		c := external(addr.(common.Address), pureSuperTokenABI())
		return d.transact(ctx, log, res, c, nil, "initialize", factory, name, symbol, receiver, supply)
	})
}

func addressType() abi.Type {
	t, _ := abi.NewType("address", "", nil)
	return t
}
