package superfluid

import (
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// Agreement type identifiers, as passed to host.getAgreementClass.
var (
	CFAv1Type = crypto.Keccak256Hash([]byte("org.superfluid-finance.agreements.ConstantFlowAgreement.v1"))
	GDAv1Type = crypto.Keccak256Hash([]byte("org.superfluid-finance.agreements.GeneralDistributionAgreement.v1"))
)

const hostABIJSON = `[
	{
		"name": "batchCall",
		"type": "function",
		"stateMutability": "payable",
		"inputs": [
			{
				"name": "operations",
				"type": "tuple[]",
				"components": [
					{"name": "operationType", "type": "uint32"},
					{"name": "target", "type": "address"},
					{"name": "data", "type": "bytes"}
				]
			}
		],
		"outputs": []
	},
	{
		"name": "getAgreementClass",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "agreementType", "type": "bytes32"}],
		"outputs": [{"name": "agreementClass", "type": "address"}]
	}
]`

const superTokenABIJSON = `[
	{
		"name": "upgrade",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "amount", "type": "uint256"}],
		"outputs": []
	},
	{
		"name": "downgrade",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "amount", "type": "uint256"}],
		"outputs": []
	},
	{
		"name": "upgradeTo",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"},
			{"name": "userData", "type": "bytes"}
		],
		"outputs": []
	},
	{
		"name": "approve",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"name": "transferFrom",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "holder", "type": "address"},
			{"name": "recipient", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"name": "increaseAllowance",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "addedValue", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"name": "decreaseAllowance",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "subtractedValue", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"name": "send",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "recipient", "type": "address"},
			{"name": "amount", "type": "uint256"},
			{"name": "data", "type": "bytes"}
		],
		"outputs": []
	},
	{
		"name": "balanceOf",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "account", "type": "address"}],
		"outputs": [{"name": "balance", "type": "uint256"}]
	}
]`

const cfaV1ABIJSON = `[
	{
		"name": "createFlow",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "token", "type": "address"},
			{"name": "receiver", "type": "address"},
			{"name": "flowRate", "type": "int96"},
			{"name": "ctx", "type": "bytes"}
		],
		"outputs": [{"name": "newCtx", "type": "bytes"}]
	},
	{
		"name": "updateFlow",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "token", "type": "address"},
			{"name": "receiver", "type": "address"},
			{"name": "flowRate", "type": "int96"},
			{"name": "ctx", "type": "bytes"}
		],
		"outputs": [{"name": "newCtx", "type": "bytes"}]
	},
	{
		"name": "deleteFlow",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "token", "type": "address"},
			{"name": "sender", "type": "address"},
			{"name": "receiver", "type": "address"},
			{"name": "ctx", "type": "bytes"}
		],
		"outputs": [{"name": "newCtx", "type": "bytes"}]
	}
]`

const gdaV1ABIJSON = `[
	{
		"name": "connectPool",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "pool", "type": "address"},
			{"name": "ctx", "type": "bytes"}
		],
		"outputs": [{"name": "newCtx", "type": "bytes"}]
	},
	{
		"name": "disconnectPool",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "pool", "type": "address"},
			{"name": "ctx", "type": "bytes"}
		],
		"outputs": [{"name": "newCtx", "type": "bytes"}]
	},
	{
		"name": "claimAll",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "pool", "type": "address"},
			{"name": "memberAddress", "type": "address"},
			{"name": "ctx", "type": "bytes"}
		],
		"outputs": [{"name": "newCtx", "type": "bytes"}]
	}
]`

var (
	hostABI       = sync.OnceValue(func() abi.ABI { return MustParseABI(hostABIJSON) })
	superTokenABI = sync.OnceValue(func() abi.ABI { return MustParseABI(superTokenABIJSON) })
	cfaV1ABI      = sync.OnceValue(func() abi.ABI { return MustParseABI(cfaV1ABIJSON) })
	gdaV1ABI      = sync.OnceValue(func() abi.ABI { return MustParseABI(gdaV1ABIJSON) })
)

// HostABI returns the subset of the Superfluid host ABI used here.
func HostABI() abi.ABI { return hostABI() }

// SuperTokenABI returns the super token methods usable in a batch.
func SuperTokenABI() abi.ABI { return superTokenABI() }

// CFAv1ABI returns the ConstantFlowAgreementV1 flow methods.
func CFAv1ABI() abi.ABI { return cfaV1ABI() }

// GDAv1ABI returns the GeneralDistributionAgreementV1 pool methods.
func GDAv1ABI() abi.ABI { return gdaV1ABI() }
