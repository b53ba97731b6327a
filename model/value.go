// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ValueType describes the variant held by a Value.
type ValueType int

const (
	// InvalidType is the zero Value; it matches no variant.
	InvalidType ValueType = iota
	// BoolType indicates a Boolean value.
	BoolType
	// Int64Type indicates a signed 64-bit integer.
	Int64Type
	// Uint64Type indicates an unsigned 64-bit integer.
	Uint64Type
	// Int128Type indicates a signed 128-bit integer.
	Int128Type
	// Uint128Type indicates an unsigned 128-bit integer.
	Uint128Type
	// Float64Type indicates a 64-bit float.
	Float64Type
	// StringType indicates a UTF-8 string.
	StringType
	// DebugType indicates the debug-formatted fallback for values with no
	// structured representation.
	DebugType
	// MapType indicates a nested, insertion-ordered field map.
	MapType
	// ErrorType indicates a structured error with its chain of causes.
	ErrorType
)

func (t ValueType) String() string {
	switch t {
	case BoolType:
		return "bool"
	case Int64Type:
		return "int"
	case Uint64Type:
		return "uint"
	case Int128Type:
		return "int128"
	case Uint128Type:
		return "uint128"
	case Float64Type:
		return "float"
	case StringType:
		return "string"
	case DebugType:
		return "debug"
	case MapType:
		return "map"
	case ErrorType:
		return "error"
	default:
		return "invalid"
	}
}

var toValueType = map[string]ValueType{
	"bool":    BoolType,
	"int":     Int64Type,
	"uint":    Uint64Type,
	"int128":  Int128Type,
	"uint128": Uint128Type,
	"float":   Float64Type,
	"string":  StringType,
	"debug":   DebugType,
	"map":     MapType,
	"error":   ErrorType,
}

// ErrorInfo is the structured form of an error recorded as a field value:
// the error message plus the ordered chain of its causes.
type ErrorInfo struct {
	Message string     `json:"message"`
	Cause   *ErrorInfo `json:"cause,omitempty"`
}

// NewErrorInfo captures err and its unwrap chain.
func NewErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	info := &ErrorInfo{Message: err.Error()}
	if cause := errors.Unwrap(err); cause != nil {
		info.Cause = NewErrorInfo(cause)
	}
	return info
}

// Error implements the error interface.
func (e *ErrorInfo) Error() string {
	return e.Message
}

// Unwrap returns the next error in the cause chain.
func (e *ErrorInfo) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// Equal reports whether two error chains carry the same messages.
func (e *ErrorInfo) Equal(other *ErrorInfo) bool {
	for e != nil && other != nil {
		if e.Message != other.Message {
			return false
		}
		e, other = e.Cause, other.Cause
	}
	return e == nil && other == nil
}

// Value is a tagged variant over every field value attachable to a span or
// event. The caller must check Type() before using a typed accessor; an
// accessor invoked on a mismatched variant returns the zero value for its
// type, never a coerced one.
type Value struct {
	vType ValueType
	vBool bool
	vNum  uint64 // int64 in two's complement, uint64, or float64 bits
	vHi   uint64 // high half for the 128-bit variants
	vStr  string // string or debug representation
	vMap  *FieldMap
	vErr  *ErrorInfo
}

// BoolValue creates a Bool-typed Value.
func BoolValue(v bool) Value {
	return Value{vType: BoolType, vBool: v}
}

// Int64Value creates an Int64-typed Value.
func Int64Value(v int64) Value {
	return Value{vType: Int64Type, vNum: uint64(v)}
}

// Uint64Value creates a Uint64-typed Value.
func Uint64Value(v uint64) Value {
	return Value{vType: Uint64Type, vNum: v}
}

// Int128Value creates an Int128-typed Value.
func Int128Value(v Int128) Value {
	return Value{vType: Int128Type, vHi: uint64(v.Hi), vNum: v.Lo}
}

// Uint128Value creates a Uint128-typed Value.
func Uint128Value(v Uint128) Value {
	return Value{vType: Uint128Type, vHi: v.Hi, vNum: v.Lo}
}

// Float64Value creates a Float64-typed Value.
func Float64Value(v float64) Value {
	return Value{vType: Float64Type, vNum: math.Float64bits(v)}
}

// StringValue creates a String-typed Value.
func StringValue(v string) Value {
	return Value{vType: StringType, vStr: v}
}

// DebugValue creates the debug-formatted fallback for a value that has no
// structured representation.
func DebugValue(v any) Value {
	return Value{vType: DebugType, vStr: fmt.Sprintf("%v", v)}
}

// MapValue creates a Map-typed Value holding the given field map.
func MapValue(m *FieldMap) Value {
	if m == nil {
		m = NewFieldMap()
	}
	return Value{vType: MapType, vMap: m}
}

// ErrValue creates an Error-typed Value from err and its unwrap chain.
func ErrValue(err error) Value {
	return Value{vType: ErrorType, vErr: NewErrorInfo(err)}
}

// ValueOf converts a native Go value into a Value. Booleans, integers,
// floats, strings, errors, 128-bit integers and field maps map to their
// structured variants; everything else falls back to the debug
// representation.
func ValueOf(v any) Value {
	switch v := v.(type) {
	case Value:
		return v
	case bool:
		return BoolValue(v)
	case int:
		return Int64Value(int64(v))
	case int8:
		return Int64Value(int64(v))
	case int16:
		return Int64Value(int64(v))
	case int32:
		return Int64Value(int64(v))
	case int64:
		return Int64Value(v)
	case uint:
		return Uint64Value(uint64(v))
	case uint8:
		return Uint64Value(uint64(v))
	case uint16:
		return Uint64Value(uint64(v))
	case uint32:
		return Uint64Value(uint64(v))
	case uint64:
		return Uint64Value(v)
	case Int128:
		return Int128Value(v)
	case Uint128:
		return Uint128Value(v)
	case float32:
		return Float64Value(float64(v))
	case float64:
		return Float64Value(v)
	case string:
		return StringValue(v)
	case *FieldMap:
		return MapValue(v)
	case error:
		return ErrValue(v)
	default:
		return DebugValue(v)
	}
}

// Type returns the variant held by the value.
func (v Value) Type() ValueType {
	return v.vType
}

// Bool returns the Boolean value, or false if the value holds a different
// variant.
func (v Value) Bool() bool {
	return v.vType == BoolType && v.vBool
}

// Int64 returns the signed integer value, or 0 for a different variant.
func (v Value) Int64() int64 {
	if v.vType == Int64Type {
		return int64(v.vNum)
	}
	return 0
}

// Uint64 returns the unsigned integer value, or 0 for a different variant.
func (v Value) Uint64() uint64 {
	if v.vType == Uint64Type {
		return v.vNum
	}
	return 0
}

// Int128 returns the signed 128-bit value, or zero for a different variant.
func (v Value) Int128() Int128 {
	if v.vType == Int128Type {
		return Int128{Hi: int64(v.vHi), Lo: v.vNum}
	}
	return Int128{}
}

// Uint128 returns the unsigned 128-bit value, or zero for a different variant.
func (v Value) Uint128() Uint128 {
	if v.vType == Uint128Type {
		return Uint128{Hi: v.vHi, Lo: v.vNum}
	}
	return Uint128{}
}

// Float64 returns the floating-point value, or 0 for a different variant.
func (v Value) Float64() float64 {
	if v.vType == Float64Type {
		return math.Float64frombits(v.vNum)
	}
	return 0
}

// Str returns the string value, or "" for a different variant.
func (v Value) Str() string {
	if v.vType == StringType {
		return v.vStr
	}
	return ""
}

// Debug returns the debug representation, or "" for a different variant.
func (v Value) Debug() string {
	if v.vType == DebugType {
		return v.vStr
	}
	return ""
}

// Map returns the nested field map, or nil for a different variant.
func (v Value) Map() *FieldMap {
	if v.vType == MapType {
		return v.vMap
	}
	return nil
}

// Err returns the structured error, or nil for a different variant.
func (v Value) Err() *ErrorInfo {
	if v.vType == ErrorType {
		return v.vErr
	}
	return nil
}

// IsNumeric reports whether the value holds any of the integer or float
// variants.
func (v Value) IsNumeric() bool {
	switch v.vType {
	case Int64Type, Uint64Type, Int128Type, Uint128Type, Float64Type:
		return true
	default:
		return false
	}
}

// Equal reports whether two values hold the same variant with equal
// contents. Values of different variants are never equal, even when their
// numeric contents coincide.
func (v Value) Equal(other Value) bool {
	if v.vType != other.vType {
		return false
	}
	switch v.vType {
	case BoolType:
		return v.vBool == other.vBool
	case Int64Type, Uint64Type, Float64Type:
		return v.vNum == other.vNum
	case Int128Type, Uint128Type:
		return v.vHi == other.vHi && v.vNum == other.vNum
	case StringType, DebugType:
		return v.vStr == other.vStr
	case MapType:
		return v.vMap.Equal(other.vMap)
	case ErrorType:
		return v.vErr.Equal(other.vErr)
	default:
		return true
	}
}

// String renders the value for human consumption.
func (v Value) String() string {
	switch v.vType {
	case BoolType:
		return strconv.FormatBool(v.vBool)
	case Int64Type:
		return strconv.FormatInt(int64(v.vNum), 10)
	case Uint64Type:
		return strconv.FormatUint(v.vNum, 10)
	case Int128Type:
		return v.Int128().String()
	case Uint128Type:
		return v.Uint128().String()
	case Float64Type:
		return strconv.FormatFloat(math.Float64frombits(v.vNum), 'g', -1, 64)
	case StringType, DebugType:
		return v.vStr
	case MapType:
		return v.vMap.String()
	case ErrorType:
		return v.vErr.Message
	default:
		return "<invalid>"
	}
}

type jsonValue struct {
	Type  string     `json:"type"`
	Bool  *bool      `json:"bool,omitempty"`
	Int   *int64     `json:"int,omitempty"`
	Uint  *uint64    `json:"uint,omitempty"`
	Hi    *uint64    `json:"hi,omitempty"`
	Lo    *uint64    `json:"lo,omitempty"`
	Float *float64   `json:"float,omitempty"`
	Bits  *uint64    `json:"bits,omitempty"` // float64 bits for non-finite floats
	Str   *string    `json:"str,omitempty"`
	Debug *string    `json:"debug,omitempty"`
	Map   *FieldMap  `json:"map,omitempty"`
	Err   *ErrorInfo `json:"error,omitempty"`
}

// MarshalJSON implements json.Marshaler. Every variant round-trips without
// loss, including non-finite floats, which are written out as raw bits.
func (v Value) MarshalJSON() ([]byte, error) {
	out := jsonValue{Type: v.vType.String()}
	switch v.vType {
	case BoolType:
		out.Bool = &v.vBool
	case Int64Type:
		i := int64(v.vNum)
		out.Int = &i
	case Uint64Type:
		out.Uint = &v.vNum
	case Int128Type, Uint128Type:
		out.Hi = &v.vHi
		out.Lo = &v.vNum
	case Float64Type:
		f := math.Float64frombits(v.vNum)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			out.Bits = &v.vNum
		} else {
			out.Float = &f
		}
	case StringType:
		out.Str = &v.vStr
	case DebugType:
		out.Debug = &v.vStr
	case MapType:
		out.Map = v.vMap
	case ErrorType:
		out.Err = v.vErr
	default:
		return nil, fmt.Errorf("cannot marshal value of type %s", v.vType)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in jsonValue
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	vType, ok := toValueType[in.Type]
	if !ok {
		return fmt.Errorf("unrecognized value type %q", in.Type)
	}
	*v = Value{vType: vType}
	switch vType {
	case BoolType:
		if in.Bool != nil {
			v.vBool = *in.Bool
		}
	case Int64Type:
		if in.Int != nil {
			v.vNum = uint64(*in.Int)
		}
	case Uint64Type:
		if in.Uint != nil {
			v.vNum = *in.Uint
		}
	case Int128Type, Uint128Type:
		if in.Hi != nil {
			v.vHi = *in.Hi
		}
		if in.Lo != nil {
			v.vNum = *in.Lo
		}
	case Float64Type:
		switch {
		case in.Bits != nil:
			v.vNum = *in.Bits
		case in.Float != nil:
			v.vNum = math.Float64bits(*in.Float)
		}
	case StringType:
		if in.Str != nil {
			v.vStr = *in.Str
		}
	case DebugType:
		if in.Debug != nil {
			v.vStr = *in.Debug
		}
	case MapType:
		v.vMap = in.Map
		if v.vMap == nil {
			v.vMap = NewFieldMap()
		}
	case ErrorType:
		v.vErr = in.Err
	}
	return nil
}
