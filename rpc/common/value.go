package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Tagged Value Union
// --------------------------------------------------------------------------

// ValueType tags the dynamic payload of a Value.
type ValueType uint8

const (
	VTNone ValueType = iota
	VTInt
	VTString
	VTBool
	VTStringList
)

// String returns the string representation of a ValueType.
func (t ValueType) String() string {
	switch t {
	case VTInt:
		return "int"
	case VTString:
		return "string"
	case VTBool:
		return "bool"
	case VTStringList:
		return "list"
	default:
		return "none"
	}
}

// MarshalJSON implements the json.Marshaller interface for ValueType.
func (t ValueType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for ValueType.
func (t *ValueType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "none":
		*t = VTNone
	case "int":
		*t = VTInt
	case "string":
		*t = VTString
	case "bool":
		*t = VTBool
	case "list":
		*t = VTStringList
	default:
		return fmt.Errorf("unknown value type: %s", s)
	}
	return nil
}

// Value is a dynamically typed argument or result. The wire protocol carries
// heterogeneous argument lists without a per-command schema, so the type tag
// travels with the payload and the receiver recovers the original type via
// the As* accessors. Only the field matching Type is meaningful.
type Value struct {
	Type ValueType `json:"type"`
	Int  int64     `json:"int,omitempty"`
	Str  string    `json:"str,omitempty"`
	Bool bool      `json:"bool,omitempty"`
	List []string  `json:"list,omitempty"`
}

// --------------------------------------------------------------------------
// Value Factory Functions
// --------------------------------------------------------------------------

// IntValue creates an integer Value
func IntValue(n int64) Value {
	return Value{Type: VTInt, Int: n}
}

// StringValue creates a string Value
func StringValue(s string) Value {
	return Value{Type: VTString, Str: s}
}

// BoolValue creates a boolean Value
func BoolValue(b bool) Value {
	return Value{Type: VTBool, Bool: b}
}

// ListValue creates a string-list Value
func ListValue(list []string) Value {
	return Value{Type: VTStringList, List: list}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// AsInt returns the integer payload or an error on tag mismatch.
func (v Value) AsInt() (int64, error) {
	if v.Type != VTInt {
		return 0, fmt.Errorf("expected int value, got %s", v.Type)
	}
	return v.Int, nil
}

// AsString returns the string payload or an error on tag mismatch.
func (v Value) AsString() (string, error) {
	if v.Type != VTString {
		return "", fmt.Errorf("expected string value, got %s", v.Type)
	}
	return v.Str, nil
}

// AsBool returns the boolean payload or an error on tag mismatch.
func (v Value) AsBool() (bool, error) {
	if v.Type != VTBool {
		return false, fmt.Errorf("expected bool value, got %s", v.Type)
	}
	return v.Bool, nil
}

// AsList returns the string-list payload or an error on tag mismatch.
func (v Value) AsList() ([]string, error) {
	if v.Type != VTStringList {
		return nil, fmt.Errorf("expected list value, got %s", v.Type)
	}
	return v.List, nil
}

// String renders the value for logging.
func (v Value) String() string {
	switch v.Type {
	case VTInt:
		return fmt.Sprintf("%d", v.Int)
	case VTString:
		return v.Str
	case VTBool:
		return fmt.Sprintf("%t", v.Bool)
	case VTStringList:
		return "[" + strings.Join(v.List, ",") + "]"
	default:
		return "<none>"
	}
}
