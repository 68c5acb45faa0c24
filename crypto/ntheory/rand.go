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

// Package ntheory collects the arbitrary-precision number-theory
// primitives shared by every attack: gcd/lcm, modular inversion,
// primality-adjacent randomness, integer roots, continued fractions,
// CRT and the integer quadratic solver.
package ntheory

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var (
	// ErrLessOrEqualBig2 is returned if a value that must exceed 2 does not.
	ErrLessOrEqualBig2 = errors.New("less 2")
	// ErrExceedMaxRetry is returned if we retried over times
	ErrExceedMaxRetry = errors.New("exceed max retries")
	// ErrInvalidInput is returned if the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// maxGenPrimeInt defines the max retries to generate a coprime int
	maxGenPrimeInt = 100

	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
	big4 = big.NewInt(4)
)

// RandomInt generates a random number in [0, n).
func RandomInt(n *big.Int) (*big.Int, error) {
	return rand.Int(rand.Reader, n)
}

// RandomPositiveInt generates a random number in [1, n).
func RandomPositiveInt(n *big.Int) (*big.Int, error) {
	x, err := RandomInt(new(big.Int).Sub(n, big1))
	if err != nil {
		return nil, err
	}
	return new(big.Int).Add(x, big1), nil
}

// RandomPrime generates a random prime number with the given bit size.
func RandomPrime(bits int) (*big.Int, error) {
	return rand.Prime(rand.Reader, bits)
}

// RandomCoprimeInt generates a random number relatively prime to n in [2, n).
func RandomCoprimeInt(n *big.Int) (*big.Int, error) {
	if n.Cmp(big2) <= 0 {
		return nil, ErrLessOrEqualBig2
	}
	for i := 0; i < maxGenPrimeInt; i++ {
		r, err := RandomInt(n)
		if err != nil {
			return nil, err
		}
		// Try again if r == 0 or 1
		if r.Cmp(big1) <= 0 {
			continue
		}
		if IsRelativePrime(r, n) {
			return r, nil
		}
	}
	return nil, ErrExceedMaxRetry
}

// IsRelativePrime returns if a and b are relatively prime.
func IsRelativePrime(a, b *big.Int) bool {
	return Gcd(a, b).Cmp(big1) == 0
}

// Gcd calculates the greatest common divisor via the Euclidean algorithm.
func Gcd(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// Lcm computes the least common multiple of a and b.
func Lcm(a, b *big.Int) (*big.Int, error) {
	if a.Sign() <= 0 || b.Sign() <= 0 {
		return nil, ErrInvalidInput
	}
	g := Gcd(a, b)
	if g.Sign() <= 0 {
		return nil, ErrInvalidInput
	}
	t := new(big.Int).Div(a, g)
	return t.Mul(t, b), nil
}

// ModInverse returns a^-1 mod n, or nil if a is not invertible mod n.
func ModInverse(a, n *big.Int) *big.Int {
	return new(big.Int).ModInverse(a, n)
}

// Jacobi returns the Jacobi symbol (x/y). It is a thin wrapper around
// math/big.Jacobi kept here so attacks depend only on ntheory.
func Jacobi(x, y *big.Int) int {
	return big.Jacobi(x, y)
}

// IsQuadraticResidue decides, via Euler's criterion, whether a has a
// square root modulo the prime p.
func IsQuadraticResidue(a, p *big.Int) bool {
	if a.Sign() == 0 {
		return true
	}
	exp := new(big.Int).Rsh(new(big.Int).Sub(p, big1), 1)
	return new(big.Int).Exp(a, exp, p).Cmp(big1) == 0
}
