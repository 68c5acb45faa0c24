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

package key

import "math/big"

// FactorEntry is one prime and its multiplicity in a Factors multiset.
type FactorEntry struct {
	Prime    *big.Int
	Exponent int
}

// Factors is a multiplicity-aware set of prime factors, keyed by each
// prime's decimal string since *big.Int is not itself comparable and
// cannot be used as a map key.
type Factors struct {
	entries map[string]*FactorEntry
	order   []string
}

// NewFactors returns an empty Factors multiset.
func NewFactors() *Factors {
	return &Factors{entries: make(map[string]*FactorEntry)}
}

// Add records count occurrences of prime, accumulating if prime is
// already present.
func (f *Factors) Add(prime *big.Int, count int) {
	key := prime.String()
	if entry, ok := f.entries[key]; ok {
		entry.Exponent += count
		return
	}
	f.entries[key] = &FactorEntry{Prime: new(big.Int).Set(prime), Exponent: count}
	f.order = append(f.order, key)
}

// Len returns the number of distinct primes in the multiset.
func (f *Factors) Len() int {
	return len(f.entries)
}

// Entries returns the distinct factor entries in insertion order.
func (f *Factors) Entries() []*FactorEntry {
	out := make([]*FactorEntry, 0, len(f.order))
	for _, key := range f.order {
		out = append(out, f.entries[key])
	}
	return out
}

// Product returns the product of all primes raised to their exponents.
func (f *Factors) Product() *big.Int {
	product := big.NewInt(1)
	for _, entry := range f.Entries() {
		product.Mul(product, new(big.Int).Exp(entry.Prime, big.NewInt(int64(entry.Exponent)), nil))
	}
	return product
}

// Totient returns Euler's totient of the product, computed as
// prod((p_i-1) * p_i^(e_i-1)) over the recorded primes.
func (f *Factors) Totient() *big.Int {
	totient := big.NewInt(1)
	one := big.NewInt(1)
	for _, entry := range f.Entries() {
		pMinus1 := new(big.Int).Sub(entry.Prime, one)
		if entry.Exponent > 1 {
			pMinus1.Mul(pMinus1, new(big.Int).Exp(entry.Prime, big.NewInt(int64(entry.Exponent-1)), nil))
		}
		totient.Mul(totient, pMinus1)
	}
	return totient
}

// Flatten returns each prime repeated according to its exponent.
func (f *Factors) Flatten() []*big.Int {
	var out []*big.Int
	for _, entry := range f.Entries() {
		for i := 0; i < entry.Exponent; i++ {
			out = append(out, new(big.Int).Set(entry.Prime))
		}
	}
	return out
}
