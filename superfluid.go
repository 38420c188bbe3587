// Package superfluid builds batches of Superfluid protocol operations.
//
// The Superfluid host executes a list of operations atomically through
// batchCall, and user-defined macros return the same list from
// buildBatchOperations. This package assembles that list in Go:
//   - Wrap super tokens, agreements and plain contracts
//   - Convert raw form strings into the ABI types a method expects
//   - Encode each call into the (operationType, target, data) triple the host expects
//   - Lay out macro parameters the way a generated getParams encodes them
//
// # Basic Usage
//
// Create a planner, add operations, and compile:
//
//	token := superfluid.NewSuperToken(tokenAddr)
//	cfa := superfluid.NewAgreement(cfaAddr, superfluid.CFAv1ABI())
//
//	planner := superfluid.New()
//	planner.Add(token.MustInvoke("upgrade", "1000000000000000000"))
//	planner.Add(cfa.MustInvoke("createFlow", tokenAddr, receiver, "385802469135"))
//
//	batch, err := planner.Plan()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	calldata, err := batch.Calldata() // host.batchCall(operations)
//
// # Contract Types
//
//   - SuperToken: operations on the token itself (upgrade, downgrade, approve, ...).
//     The operation data is the ABI-encoded argument list without a selector.
//
//   - Agreement: agreement classes called through the host (CFA, GDA). The
//     trailing ctx argument may be omitted; an empty placeholder is appended
//     and the host injects the real context.
//
//   - App: super app actions, forwarded with their full calldata.
//
//   - External: any other contract, reached with a simple forward call.
//
// # Macro Parameters
//
// Params keeps an ordered, de-duplicated list of named parameters. Encoding
// prepends the super token address, matching abi.encode(superTokenAddr, ...)
// in a generated getParams function.
//
// # References
//
//   - https://github.com/superfluid-finance/protocol-monorepo (BatchOperation.sol, MacroForwarder.sol)
package superfluid
