package models

import (
	"encoding/json"
	"fmt"
)

const (
	JSONRPCVersion = "2.0"

	MethodAccountSubscribe    = "accountSubscribe"
	MethodAccountUnsubscribe  = "accountUnsubscribe"
	MethodAccountNotification = "accountNotification"

	CommitmentConfirmed = "confirmed"
	EncodingJSONParsed  = "jsonParsed"
)

// RPCRequest is an outbound JSON-RPC call on the subscription channel.
type RPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type AccountSubscribeConfig struct {
	Commitment string `json:"commitment"`
	Encoding   string `json:"encoding"`
}

func NewAccountSubscribe(ephemeralID uint64, account string) RPCRequest {
	return RPCRequest{
		JSONRPC: JSONRPCVersion,
		ID:      ephemeralID,
		Method:  MethodAccountSubscribe,
		Params: []interface{}{
			account,
			AccountSubscribeConfig{Commitment: CommitmentConfirmed, Encoding: EncodingJSONParsed},
		},
	}
}

func NewAccountUnsubscribe(requestID, subscriptionID uint64) RPCRequest {
	return RPCRequest{
		JSONRPC: JSONRPCVersion,
		ID:      requestID,
		Method:  MethodAccountUnsubscribe,
		Params:  []interface{}{subscriptionID},
	}
}

// RPCMessage is any inbound frame: a response to one of our requests or a
// server-pushed notification. Fields are kept raw until classified.
type RPCMessage struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// NumericID decodes the request id when it is a JSON number.
func (m RPCMessage) NumericID() (uint64, bool) {
	return decodeUint(m.ID)
}

// NumericResult decodes the result when it is a JSON number, which is how
// the node reports a freshly assigned subscription id.
func (m RPCMessage) NumericResult() (uint64, bool) {
	return decodeUint(m.Result)
}

func decodeUint(raw json.RawMessage) (uint64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var v uint64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

type AccountNotificationParams struct {
	Subscription uint64          `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

// AccountSnapshot is the changed account state carried by a notification.
type AccountSnapshot struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value struct {
		Lamports uint64 `json:"lamports"`
		Owner    string `json:"owner"`
		Data     struct {
			Parsed struct {
				Info struct {
					Mint        string `json:"mint"`
					Owner       string `json:"owner"`
					TokenAmount struct {
						Amount         string `json:"amount"`
						Decimals       int32  `json:"decimals"`
						UIAmountString string `json:"uiAmountString"`
					} `json:"tokenAmount"`
				} `json:"info"`
			} `json:"parsed"`
		} `json:"data"`
	} `json:"value"`
}

// ParseAccountSnapshot decodes a notification result. Snapshots are only used
// for logging, so a shape mismatch yields an empty snapshot.
func ParseAccountSnapshot(raw json.RawMessage) AccountSnapshot {
	var snap AccountSnapshot
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &snap)
	}
	return snap
}
