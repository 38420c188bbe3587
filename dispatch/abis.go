package dispatch

import (
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/branched-services/go-superfluid"
)

const cfaForwarderABIJSON = `[
	{
		"name": "createFlow",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "token", "type": "address"},
			{"name": "sender", "type": "address"},
			{"name": "receiver", "type": "address"},
			{"name": "flowrate", "type": "int96"},
			{"name": "userData", "type": "bytes"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"name": "updateFlow",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "token", "type": "address"},
			{"name": "sender", "type": "address"},
			{"name": "receiver", "type": "address"},
			{"name": "flowrate", "type": "int96"},
			{"name": "userData", "type": "bytes"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"name": "deleteFlow",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "token", "type": "address"},
			{"name": "sender", "type": "address"},
			{"name": "receiver", "type": "address"},
			{"name": "userData", "type": "bytes"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"name": "getFlowrate",
		"type": "function",
		"stateMutability": "view",
		"inputs": [
			{"name": "token", "type": "address"},
			{"name": "sender", "type": "address"},
			{"name": "receiver", "type": "address"}
		],
		"outputs": [{"name": "flowrate", "type": "int96"}]
	}
]`

const gdaForwarderABIJSON = `[
	{
		"name": "connectPool",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "pool", "type": "address"},
			{"name": "userData", "type": "bytes"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"name": "claimAll",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "pool", "type": "address"},
			{"name": "memberAddress", "type": "address"},
			{"name": "userData", "type": "bytes"}
		],
		"outputs": [
			{"name": "success", "type": "bool"},
			{"name": "claimedAmount", "type": "int256"}
		]
	}
]`

const macroForwarderABIJSON = `[
	{
		"name": "runMacro",
		"type": "function",
		"stateMutability": "payable",
		"inputs": [
			{"name": "m", "type": "address"},
			{"name": "params", "type": "bytes"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	}
]`

const erc20ABIJSON = `[
	{
		"name": "name",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "string"}]
	},
	{
		"name": "symbol",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "string"}]
	},
	{
		"name": "decimals",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint8"}]
	},
	{
		"name": "balanceOf",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "account", "type": "address"}],
		"outputs": [{"name": "", "type": "uint256"}]
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
	}
]`

const factoryABIJSON = `[
	{
		"name": "createERC20Wrapper",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "underlyingToken", "type": "address"},
			{"name": "upgradability", "type": "uint8"},
			{"name": "name", "type": "string"},
			{"name": "symbol", "type": "string"}
		],
		"outputs": [{"name": "", "type": "address"}]
	},
	{
		"name": "SuperTokenCreated",
		"type": "event",
		"anonymous": false,
		"inputs": [{"name": "token", "type": "address", "indexed": true}]
	}
]`

const pureSuperTokenABIJSON = `[
	{
		"name": "initialize",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "factory", "type": "address"},
			{"name": "name", "type": "string"},
			{"name": "symbol", "type": "string"},
			{"name": "receiver", "type": "address"},
			{"name": "initialSupply", "type": "uint256"}
		],
		"outputs": []
	}
]`

const flowSenderABIJSON = `[
	{
		"name": "gainDaiX",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []
	},
	{
		"name": "createStream",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "flowRate", "type": "int96"},
			{"name": "receiver", "type": "address"}
		],
		"outputs": []
	},
	{
		"name": "updateStream",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "flowRate", "type": "int96"},
			{"name": "receiver", "type": "address"}
		],
		"outputs": []
	},
	{
		"name": "deleteStream",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "receiver", "type": "address"}],
		"outputs": []
	},
	{
		"name": "readFlowRate",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "receiver", "type": "address"}],
		"outputs": [{"name": "flowRate", "type": "int96"}]
	}
]`

var (
	cfaForwarderABI   = sync.OnceValue(func() abi.ABI { return superfluid.MustParseABI(cfaForwarderABIJSON) })
	gdaForwarderABI   = sync.OnceValue(func() abi.ABI { return superfluid.MustParseABI(gdaForwarderABIJSON) })
	macroForwarderABI = sync.OnceValue(func() abi.ABI { return superfluid.MustParseABI(macroForwarderABIJSON) })
	erc20ABI          = sync.OnceValue(func() abi.ABI { return superfluid.MustParseABI(erc20ABIJSON) })
	factoryABI        = sync.OnceValue(func() abi.ABI { return superfluid.MustParseABI(factoryABIJSON) })
	pureSuperTokenABI = sync.OnceValue(func() abi.ABI { return superfluid.MustParseABI(pureSuperTokenABIJSON) })
	flowSenderABI     = sync.OnceValue(func() abi.ABI { return superfluid.MustParseABI(flowSenderABIJSON) })
)

// ERC20ABI returns the ERC-20 subset used for token reads and approvals.
func ERC20ABI() abi.ABI { return erc20ABI() }
