package macrogen

import "text/template"

var macroTemplate = template.Must(template.New("macro").Parse(`// SPDX-License-Identifier: AGPLv3
pragma solidity ^0.8.26;

import { ISuperfluid, BatchOperation, IConstantFlowAgreementV1, IGeneralDistributionAgreementV1, ISuperToken, ISuperfluidPool, IERC20 }
    from "@superfluid-finance/ethereum-contracts/contracts/interfaces/superfluid/ISuperfluid.sol";
import { SuperTokenV1Library } from "@superfluid-finance/ethereum-contracts/contracts/apps/SuperTokenV1Library.sol";
import { Math } from "@openzeppelin/contracts/utils/math/Math.sol";
import { IUserDefinedMacro } from "@superfluid-finance/ethereum-contracts/contracts/utils/MacroForwarder.sol";

using SuperTokenV1Library for ISuperToken;

contract CustomMacro is IUserDefinedMacro {

    function getParams(address superTokenAddr, {{.Arguments}})
        public pure returns (bytes memory)
    {
        return abi.encode(superTokenAddr, {{.Encoding}});
    }

    function buildBatchOperations(ISuperfluid host, bytes memory params, address msgSender)
        external override view
        returns (ISuperfluid.Operation[] memory operations)
    {
        // parse params
        (address superTokenAddr,{{.Arguments}}) =
            abi.decode(params, (address, {{.Types}}));

        // build batch operations
        operations = new ISuperfluid.Operation[]({{.Count}});
        uint8 opsCnt = 0;

        {{.Operations}}

        return operations;
    }
}`))

const claimFragment = `
        // op: claim all
        {
            IGeneralDistributionAgreementV1 gda = IGeneralDistributionAgreementV1(address(host.getAgreementClass(
                keccak256("org.superfluid-finance.agreements.GeneralDistributionAgreement.v1")
            )));
            operations[opsCnt++] = ISuperfluid.Operation({
                operationType : BatchOperation.OPERATION_TYPE_SUPERFLUID_CALL_AGREEMENT,
                target: address(gda),
                data: abi.encode(
                    abi.encodeCall(
                        gda.claimAll,
                        (
                            pool,
                            msgSender,
                            new bytes(0) // ctx
                        )
                    ), // calldata
                    new bytes(0) // userdata
                )
            });
        }`

const downgradeFragment = `
        // op: downgrade
        operations[opsCnt++] = ISuperfluid.Operation({
            operationType : BatchOperation.OPERATION_TYPE_SUPERTOKEN_DOWNGRADE,
            target: address(pool.superToken()),
            data: abi.encode(claimableBalance)
        });`
