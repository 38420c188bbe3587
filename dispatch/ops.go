package dispatch

import "fmt"

// Op names a dispatched operation.
type Op string

const (
	OpCreateFlow   Op = "createFlow"
	OpUpdateFlow   Op = "updateFlow"
	OpDeleteFlow   Op = "deleteFlow"
	OpReadFlowRate Op = "readFlowRate"

	OpUpgrade       Op = "upgrade"
	OpDowngrade     Op = "downgrade"
	OpApprove       Op = "approve"
	OpTokenInfo     Op = "tokenInfo"
	OpCreateWrapper Op = "createWrapper"
	OpDeploy        Op = "deploy"
	OpInitialize    Op = "initialize"

	OpConnectPool Op = "connectPool"
	OpClaimAll    Op = "claimAll"

	OpBatch           Op = "batchCall"
	OpRunMacro        Op = "runMacro"
	OpAgreementLookup Op = "getAgreementClass"

	OpGainDaiX     Op = "gainDaiX"
	OpCreateStream Op = "createStream"
	OpUpdateStream Op = "updateStream"
	OpDeleteStream Op = "deleteStream"
	OpReadStream   Op = "readStream"
)

type messages struct {
	ok   string
	fail string
}

var opMessages = map[Op]messages{
	OpCreateFlow:   flowMessages("create"),
	OpUpdateFlow:   flowMessages("update"),
	OpDeleteFlow:   flowMessages("delete"),
	OpReadFlowRate: {"Current flow rate: %s", "Failed to read flow rate. Please try again."},

	OpUpgrade:       {"Tokens upgraded successfully!", "Failed to upgrade tokens. Please try again."},
	OpDowngrade:     {"Tokens downgraded successfully!", "Failed to downgrade tokens. Please try again."},
	OpApprove:       {"Approval confirmed!", "Failed to approve. Please try again."},
	OpTokenInfo:     {"", "Error: Unable to fetch token name or symbol. Please ensure the contract implements these functions or use manual input."},
	OpCreateWrapper: {"Wrapper created successfully!", "Failed to create wrapper. Please try again."},
	OpDeploy:        {"Contract deployed to: %s", "Failed to deploy contract. Please try again."},
	OpInitialize:    {"Contract initialized successfully!", "Failed to initialize contract. Please try again."},

	OpConnectPool: {"Pool connected successfully!", "Failed to connect to pool. Please try again."},
	OpClaimAll:    {"Claimed successfully!", "Failed to claim. Please try again."},

	OpBatch:           {"Batch call executed successfully!", "Failed to execute batch call. Please try again."},
	OpRunMacro:        {"Macro executed successfully!", "Failed to run macro. Please try again."},
	OpAgreementLookup: {"", "Failed to look up agreement. Please try again."},

	OpGainDaiX:     {"DaiX gained successfully.", "Failed to gain DaiX. Please try again."},
	OpCreateStream: {"Stream created successfully.", "Failed to create stream. Please try again."},
	OpUpdateStream: {"Stream updated successfully.", "Failed to update stream. Please try again."},
	OpDeleteStream: {"Stream deleted successfully.", "Failed to delete stream. Please try again."},
	OpReadStream:   {"Current flow rate: %s", "Failed to read flow rate. Please try again."},
}

func flowMessages(action string) messages {
	return messages{
		ok:   fmt.Sprintf("Flow %sd successfully!", action),
		fail: fmt.Sprintf("Failed to %s flow. Please try again.", action),
	}
}

func (o Op) successMessage() string {
	return opMessages[o].ok
}

func (o Op) failureMessage() string {
	if m := opMessages[o].fail; m != "" {
		return m
	}
	return "Operation failed. Please try again."
}
