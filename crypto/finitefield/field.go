// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package finitefield implements the prime-field and quadratic-extension
// arithmetic a handful of attacks need: Cipolla's square-root algorithm
// and Adleman-Manders-Miller r-th root extraction. Every element is
// reduced modulo the field order immediately after each operation.
package finitefield

import (
	"errors"
	"math/big"
)

var (
	// ErrLessOrEqualBig2 is returned if the field order is less than or equal to 2.
	ErrLessOrEqualBig2 = errors.New("field order less than or equal to 2")
	// ErrNotPrimeOrder is returned if the field order fails a primality check.
	ErrNotPrimeOrder = errors.New("field order is not prime")

	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// PrimeField is GF(p) for a prime modulus p.
type PrimeField struct {
	p *big.Int
}

// NewPrimeField builds GF(p). It does not itself require p to be
// provably prime (callers may already know this from context); use
// EnsurePrime to validate when the order comes from untrusted input.
func NewPrimeField(p *big.Int) (*PrimeField, error) {
	if p.Cmp(big2) <= 0 {
		return nil, ErrLessOrEqualBig2
	}
	return &PrimeField{p: new(big.Int).Set(p)}, nil
}

// EnsurePrime validates that the field order is prime (Miller-Rabin,
// 30 rounds, matching the rest of the engine's primality threshold).
func (f *PrimeField) EnsurePrime() error {
	if !f.p.ProbablyPrime(30) {
		return ErrNotPrimeOrder
	}
	return nil
}

// Order returns a copy of the field's modulus.
func (f *PrimeField) Order() *big.Int {
	return new(big.Int).Set(f.p)
}

// Element reduces v modulo the field order.
func (f *PrimeField) Element(v *big.Int) *big.Int {
	return new(big.Int).Mod(v, f.p)
}

// Add returns (a+b) mod p.
func (f *PrimeField) Add(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Add(a, b), f.p)
}

// Sub returns (a-b) mod p.
func (f *PrimeField) Sub(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Sub(a, b), f.p)
}

// Mul returns (a*b) mod p.
func (f *PrimeField) Mul(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(a, b), f.p)
}

// Neg returns (-a) mod p.
func (f *PrimeField) Neg(a *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Neg(a), f.p)
}

// Inverse returns a^-1 mod p, or nil if a is not invertible (a ≡ 0).
func (f *PrimeField) Inverse(a *big.Int) *big.Int {
	return new(big.Int).ModInverse(a, f.p)
}

// Div returns (a/b) mod p, or nil if b is not invertible.
func (f *PrimeField) Div(a, b *big.Int) *big.Int {
	inv := f.Inverse(b)
	if inv == nil {
		return nil
	}
	return f.Mul(a, inv)
}

// Exp returns a^e mod p.
func (f *PrimeField) Exp(a, e *big.Int) *big.Int {
	return new(big.Int).Exp(a, e, f.p)
}

// Equal reports whether a and b denote the same element of the field.
func (f *PrimeField) Equal(a, b *big.Int) bool {
	return f.Element(a).Cmp(f.Element(b)) == 0
}
