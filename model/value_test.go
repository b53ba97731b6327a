// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructorsAndAccessors(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expType  ValueType
		expected any
	}{
		{name: "bool", value: BoolValue(true), expType: BoolType, expected: true},
		{name: "int", value: Int64Value(-42), expType: Int64Type, expected: int64(-42)},
		{name: "uint", value: Uint64Value(42), expType: Uint64Type, expected: uint64(42)},
		{name: "float", value: Float64Value(3.5), expType: Float64Type, expected: 3.5},
		{name: "string", value: StringValue("hi"), expType: StringType, expected: "hi"},
		{name: "debug", value: DebugValue(struct{ X int }{X: 1}), expType: DebugType, expected: "{1}"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expType, test.value.Type())
			switch expected := test.expected.(type) {
			case bool:
				assert.Equal(t, expected, test.value.Bool())
			case int64:
				assert.Equal(t, expected, test.value.Int64())
			case uint64:
				assert.Equal(t, expected, test.value.Uint64())
			case float64:
				assert.InDelta(t, expected, test.value.Float64(), 0)
			case string:
				if test.expType == StringType {
					assert.Equal(t, expected, test.value.Str())
				} else {
					assert.Equal(t, expected, test.value.Debug())
				}
			}
		})
	}
}

func TestValueAccessorMismatchReturnsZero(t *testing.T) {
	v := StringValue("42")
	assert.Equal(t, int64(0), v.Int64())
	assert.Equal(t, uint64(0), v.Uint64())
	assert.InDelta(t, 0.0, v.Float64(), 0)
	assert.False(t, v.Bool())
	assert.Nil(t, v.Map())
	assert.Nil(t, v.Err())
	assert.Empty(t, v.Debug())

	assert.Empty(t, Int64Value(42).Str())
}

func TestValueEqualIsVariantStrict(t *testing.T) {
	assert.True(t, Int64Value(42).Equal(Int64Value(42)))
	assert.False(t, Int64Value(42).Equal(Uint64Value(42)))
	assert.False(t, Int64Value(42).Equal(Float64Value(42)))
	assert.False(t, StringValue("x").Equal(DebugValue("x")))
	assert.True(t, Value{}.Equal(Value{}))
}

func TestValueOf(t *testing.T) {
	assert.Equal(t, Int64Type, ValueOf(7).Type())
	assert.Equal(t, Int64Type, ValueOf(int32(7)).Type())
	assert.Equal(t, Uint64Type, ValueOf(uint16(7)).Type())
	assert.Equal(t, Float64Type, ValueOf(float32(1.5)).Type())
	assert.Equal(t, StringType, ValueOf("s").Type())
	assert.Equal(t, BoolType, ValueOf(false).Type())
	assert.Equal(t, Int128Type, ValueOf(Int128From64(-1)).Type())
	assert.Equal(t, ErrorType, ValueOf(errors.New("boom")).Type())

	// Values pass through untouched.
	v := Uint64Value(9)
	assert.Equal(t, v, ValueOf(v))

	// Anything unstructured gets the debug fallback.
	fallback := ValueOf([]int{1, 2, 3})
	assert.Equal(t, DebugType, fallback.Type())
	assert.Equal(t, "[1 2 3]", fallback.Debug())
}

func TestInt128Extension(t *testing.T) {
	neg := Int128From64(-5)
	assert.Equal(t, int64(-1), neg.Hi)
	assert.Equal(t, "-5", neg.String())

	pos := Int128From64(5)
	assert.Equal(t, int64(0), pos.Hi)
	assert.Equal(t, "5", pos.String())

	big := Int128{Hi: 1, Lo: 0}
	assert.Equal(t, "18446744073709551616", big.String())

	u := Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64}
	assert.Equal(t, "340282366920938463463374607431768211455", u.String())
}

func TestErrorInfoChain(t *testing.T) {
	base := errors.New("base")
	wrapped := fmt.Errorf("outer: %w", base)

	info := NewErrorInfo(wrapped)
	require.NotNil(t, info)
	assert.Equal(t, "outer: base", info.Message)
	require.NotNil(t, info.Cause)
	assert.Equal(t, "base", info.Cause.Message)
	assert.Nil(t, info.Cause.Cause)

	v := ErrValue(wrapped)
	assert.Equal(t, ErrorType, v.Type())
	assert.True(t, v.Err().Equal(info))
	assert.False(t, v.Err().Equal(NewErrorInfo(base)))
}

func TestValueJSONRoundTrip(t *testing.T) {
	nested := NewFieldMap()
	nested.Set("inner", BoolValue(true))

	tests := []Value{
		BoolValue(false),
		Int64Value(-123),
		Uint64Value(math.MaxUint64),
		Int128Value(Int128{Hi: -2, Lo: 7}),
		Uint128Value(Uint128{Hi: 3, Lo: 4}),
		Float64Value(2.25),
		StringValue("hello"),
		DebugValue("rendered"),
		MapValue(nested),
		ErrValue(fmt.Errorf("outer: %w", errors.New("inner"))),
	}
	for _, v := range tests {
		t.Run(v.Type().String(), func(t *testing.T) {
			data, err := json.Marshal(v)
			require.NoError(t, err)
			var restored Value
			require.NoError(t, json.Unmarshal(data, &restored))
			assert.True(t, v.Equal(restored), "%s != %s", v, restored)
		})
	}
}

func TestValueJSONNonFiniteFloats(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		v := Float64Value(f)
		data, err := json.Marshal(v)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"bits"`)

		var restored Value
		require.NoError(t, json.Unmarshal(data, &restored))
		require.Equal(t, Float64Type, restored.Type())
		assert.Equal(t, math.Float64bits(f), math.Float64bits(restored.Float64()))
	}
}

func TestValueJSONRejectsUnknownType(t *testing.T) {
	var v Value
	err := json.Unmarshal([]byte(`{"type":"tuple"}`), &v)
	require.ErrorContains(t, err, "unrecognized value type")
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "-7", Int64Value(-7).String())
	assert.Equal(t, "1.5", Float64Value(1.5).String())
	assert.Equal(t, "hi", StringValue("hi").String())
	assert.Equal(t, "<invalid>", Value{}.String())
}
