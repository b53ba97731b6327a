// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package model

import "math/big"

// Int128 is a signed 128-bit integer in two's-complement representation,
// split into a signed high half and an unsigned low half.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Int128From64 sign-extends a 64-bit integer to 128 bits.
func Int128From64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Hi: hi, Lo: uint64(v)}
}

// Big returns the value as a big.Int.
func (v Int128) Big() *big.Int {
	b := new(big.Int).SetInt64(v.Hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(v.Lo))
}

func (v Int128) String() string {
	return v.Big().String()
}

// Uint128 is an unsigned 128-bit integer split into 64-bit halves.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Uint128From64 zero-extends a 64-bit integer to 128 bits.
func Uint128From64(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// Big returns the value as a big.Int.
func (v Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(v.Hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(v.Lo))
}

func (v Uint128) String() string {
	return v.Big().String()
}
