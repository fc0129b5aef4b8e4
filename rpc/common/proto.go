package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single wire message used for requests, responses and
// error responses. Which fields are populated depends on the message type:
// requests carry a command and its argument list, responses carry a result,
// error responses carry an error text. Exactly one of Result/Err is set for
// non-request messages.
//
// The ID is assigned by the sender and correlates a response with its
// request on a single connection. It only needs to be unique among the
// in-flight requests of that connection, not globally.
type Message struct {
	// ID correlates a response to its request on one connection
	ID uint64 `json:"id"`

	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Request only fields
	Command Command `json:"command,omitempty"`
	Args    []Value `json:"args,omitempty"`

	// Response only fields
	Result *Value `json:"result,omitempty"`
	Err    string `json:"err,omitempty"` // Empty if no error, otherwise contains the error message
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewRequest creates a new request message for the given command
func NewRequest(id uint64, cmd Command, args ...Value) *Message {
	return &Message{
		ID:      id,
		MsgType: MsgTRequest,
		Command: cmd,
		Args:    args,
	}
}

// NewResponse creates a new successful response carrying the given result
func NewResponse(id uint64, result Value) *Message {
	return &Message{
		ID:      id,
		MsgType: MsgTResponse,
		Result:  &result,
	}
}

// NewBoolResponse creates a new successful response carrying a boolean result
func NewBoolResponse(id uint64, ok bool) *Message {
	return NewResponse(id, BoolValue(ok))
}

// NewIntResponse creates a new successful response carrying an integer result
func NewIntResponse(id uint64, n int64) *Message {
	return NewResponse(id, IntValue(n))
}

// NewStringResponse creates a new successful response carrying a string result
func NewStringResponse(id uint64, s string) *Message {
	return NewResponse(id, StringValue(s))
}

// NewErrorResponse creates a new error response
func NewErrorResponse(id uint64, errText string) *Message {
	return &Message{
		ID:      id,
		MsgType: MsgTError,
		Err:     errText,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the kind of a wire message.
type MessageType uint8

const (
	MsgTUnknown  MessageType = iota
	MsgTRequest              // Command invocation with arguments
	MsgTResponse             // Successful result for a request
	MsgTError                // Error text for a request
)

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTRequest:
		return "request"
	case MsgTResponse:
		return "response"
	case MsgTError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Convert string back to MessageType
	switch s {
	case "request":
		*t = MsgTRequest
	case "response":
		*t = MsgTResponse
	case "error":
		*t = MsgTError
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}
