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

// Package key holds the data model every attack reads from and writes
// to: the Parameters an operator supplies, the PrivateKey an attack
// recovers, the Factors multiset multi-prime attacks build up, and the
// Solution envelope returned to the dispatch engine.
package key

import "math/big"

// DefaultE is the public exponent assumed absent any other information.
const DefaultE = 65537

// PartialKind tags which shape of partial knowledge a PartialValue carries.
type PartialKind int

const (
	// PartialFull means the full value is known.
	PartialFull PartialKind = iota
	// PartialLSBKnown means the low UnknownBits bits are unknown; Known
	// holds the rest.
	PartialLSBKnown
	// PartialMSBKnown means the high UnknownBits bits are unknown; Known
	// holds the rest.
	PartialMSBKnown
)

// PartialValue describes a prime factor that may be only partially
// known: fully, by its known low bits, or by its known high bits.
type PartialValue struct {
	Kind        PartialKind
	Known       *big.Int
	UnknownBits int
}

// FullValue wraps a fully known factor.
func FullValue(v *big.Int) *PartialValue {
	return &PartialValue{Kind: PartialFull, Known: v}
}

// LSBKnown wraps a factor whose low unknownBits bits are unknown.
func LSBKnown(knownLSB *big.Int, unknownBits int) *PartialValue {
	return &PartialValue{Kind: PartialLSBKnown, Known: knownLSB, UnknownBits: unknownBits}
}

// MSBKnown wraps a factor whose high unknownBits bits are unknown.
func MSBKnown(knownMSB *big.Int, unknownBits int) *PartialValue {
	return &PartialValue{Kind: PartialMSBKnown, Known: knownMSB, UnknownBits: unknownBits}
}

// AuxKey is one auxiliary (n, e, c) triple used by multi-key attacks
// (common modulus, common factor, Hastad broadcast).
type AuxKey struct {
	N, E, C *big.Int
}

// Parameters is the bag of known RSA quantities an attack consumes.
// Every field is optional except E, which defaults to DefaultE.
type Parameters struct {
	N, E, C        *big.Int
	P, Q           *big.Int
	D              *big.Int
	Phi            *big.Int
	Dp, Dq         *big.Int
	Qinv, Pinv     *big.Int
	SumPQ          *big.Int
	PartialP       *PartialValue
	PartialQ       *PartialValue
	Keys           []AuxKey
}

// NewParameters returns an empty Parameters with E defaulted.
func NewParameters() *Parameters {
	return &Parameters{E: big.NewInt(DefaultE)}
}

// Merge combines p with other, left-biased: a field already set on p
// wins over the same field on other. E is the one exception — it is
// overwritten by other's E only while p's E is still the default, so
// composing a public-key loader with a private-key loader never lets
// a guessed default clobber a value actually read from a key file.
// Merge is idempotent: merging the same Parameters twice is a no-op.
func (p *Parameters) Merge(other *Parameters) *Parameters {
	if other == nil {
		return p
	}
	result := &Parameters{}
	*result = *p

	result.N = firstNonNil(p.N, other.N)
	result.C = firstNonNil(p.C, other.C)
	result.P = firstNonNil(p.P, other.P)
	result.Q = firstNonNil(p.Q, other.Q)
	result.D = firstNonNil(p.D, other.D)
	result.Phi = firstNonNil(p.Phi, other.Phi)
	result.Dp = firstNonNil(p.Dp, other.Dp)
	result.Dq = firstNonNil(p.Dq, other.Dq)
	result.Qinv = firstNonNil(p.Qinv, other.Qinv)
	result.Pinv = firstNonNil(p.Pinv, other.Pinv)
	result.SumPQ = firstNonNil(p.SumPQ, other.SumPQ)

	if p.E == nil || p.E.Cmp(big.NewInt(DefaultE)) == 0 {
		if other.E != nil {
			result.E = other.E
		}
	} else {
		result.E = p.E
	}

	if p.PartialP != nil {
		result.PartialP = p.PartialP
	} else {
		result.PartialP = other.PartialP
	}
	if p.PartialQ != nil {
		result.PartialQ = p.PartialQ
	} else {
		result.PartialQ = other.PartialQ
	}

	if len(p.Keys) > 0 {
		result.Keys = p.Keys
	} else {
		result.Keys = other.Keys
	}

	return result
}

func firstNonNil(a, b *big.Int) *big.Int {
	if a != nil {
		return a
	}
	return b
}
