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

package factorization

import (
	"context"
	"math/big"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/crypto/ntheory"
	"github.com/getamis/rsacracker/key"
)

const (
	mersenneGCDBound   = 50_000
	fermatGCDBound     = 30
	fibonacciGCDBound  = 100_000
	lucasGCDBound      = 100_000
	jacobsthalGCDBound = 100_000
	factorialGCDBound  = 25_000
	primorialGCDBound  = 25_000
)

// fermatGCDExponentCap bounds how far the doubly-exponential Fermat
// sequence is actually materialized; F_24 already has several million
// decimal digits, well past the point any CTF modulus would need.
const fermatGCDExponentCap = 24

// MersenneGCD tests p=gcd(2^i-1 +/- 1, n) for i in [1, mersenneGCDBound].
var MersenneGCD = attack.New("mersenne_gcd", attack.Slow, attack.Standard, func(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	i := int64(0)
	next := func() *big.Int {
		i++
		v := new(big.Int).Lsh(big1, uint(i))
		return v.Sub(v, big1)
	}
	return runSequenceGCD(ctx, params, progress, "mersenne_gcd", mersenneGCDBound, next)
})

// FermatGCD tests p=gcd(2^(2^i)+1 +/- 1, n) for small i.
var FermatGCD = attack.New("fermat_gcd", attack.Fast, attack.Standard, func(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	i := int64(-1)
	next := func() *big.Int {
		i++
		if i > fermatGCDExponentCap {
			return nil
		}
		exp := new(big.Int).Lsh(big1, uint(i))
		v := new(big.Int).Exp(big2, exp, nil)
		return v.Add(v, big1)
	}
	return runSequenceGCD(ctx, params, progress, "fermat_gcd", fermatGCDBound, next)
})

// FibonacciGCD tests p=gcd(F_i +/- 1, n) over the Fibonacci sequence.
var FibonacciGCD = attack.New("fibonacci_gcd", attack.Slow, attack.Standard, func(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	a, b := big.NewInt(0), big.NewInt(1)
	next := func() *big.Int {
		a, b = b, new(big.Int).Add(a, b)
		return new(big.Int).Set(a)
	}
	return runSequenceGCD(ctx, params, progress, "fibonacci_gcd", fibonacciGCDBound, next)
})

// LucasGCD tests p=gcd(L_i +/- 1, n) over the Lucas sequence.
var LucasGCD = attack.New("lucas_gcd", attack.Slow, attack.Standard, func(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	a, b := big.NewInt(2), big.NewInt(1)
	next := func() *big.Int {
		a, b = b, new(big.Int).Add(a, b)
		return new(big.Int).Set(a)
	}
	return runSequenceGCD(ctx, params, progress, "lucas_gcd", lucasGCDBound, next)
})

// JacobsthalGCD tests p=gcd(J_i +/- 1, n) over the Jacobsthal sequence
// (J_i = J_{i-1} + 2*J_{i-2}).
var JacobsthalGCD = attack.New("jacobsthal_gcd", attack.Slow, attack.Standard, func(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	a, b := big.NewInt(0), big.NewInt(1)
	next := func() *big.Int {
		next := new(big.Int).Add(b, new(big.Int).Mul(big2, a))
		a, b = b, next
		return new(big.Int).Set(b)
	}
	return runSequenceGCD(ctx, params, progress, "jacobsthal_gcd", jacobsthalGCDBound, next)
})

// FactorialGCD tests p=gcd(i! +/- 1, n).
var FactorialGCD = attack.New("factorial_gcd", attack.Slow, attack.Standard, func(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	acc := big.NewInt(1)
	i := int64(1)
	next := func() *big.Int {
		acc = new(big.Int).Mul(acc, big.NewInt(i))
		i++
		return new(big.Int).Set(acc)
	}
	return runSequenceGCD(ctx, params, progress, "factorial_gcd", factorialGCDBound, next)
})

// PrimorialGCD tests p=gcd(p_1*p_2*...*p_i +/- 1, n), the product of
// the first i primes.
var PrimorialGCD = attack.New("primorial_gcd", attack.Slow, attack.Standard, func(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	primes := firstPrimes()
	acc := big.NewInt(1)
	i := 0
	next := func() *big.Int {
		if i >= len(primes) {
			return nil
		}
		acc = new(big.Int).Mul(acc, primes[i])
		i++
		return new(big.Int).Set(acc)
	}
	return runSequenceGCD(ctx, params, progress, "primorial_gcd", primorialGCDBound, next)
})

// XYGCD tests p=gcd(base^power +/- 1, n) over every prime base and
// power with base^power <= sqrt(n).
var XYGCD = attack.New("xy_gcd", attack.Slow, attack.Standard, func(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N
	limit := ntheory.Isqrt(n)
	primes := firstPrimes()

	progress.SetLength(int64(len(primes)))
	for idx, base := range primes {
		if cancelled(ctx) {
			return nil, attack.ErrNotFound
		}
		if idx%1000 == 0 {
			progress.SetPosition(int64(idx))
		}
		if base.Cmp(limit) > 0 {
			break
		}
		v := new(big.Int).Set(base)
		for v.Cmp(limit) <= 0 {
			for _, delta := range [2]*big.Int{big.NewInt(-1), big1} {
				candidate := new(big.Int).Add(v, delta)
				p := ntheory.Gcd(candidate, n)
				if isNontrivialFactor(p, n) {
					return solutionFromFactor("xy_gcd", params, p)
				}
			}
			v = new(big.Int).Mul(v, base)
		}
	}
	return nil, attack.ErrNotFound
})

// runSequenceGCD drives any of the sequence-gcd attacks above: it pulls
// terms from next until bound is reached or next reports exhaustion,
// testing p=gcd(term-1,n) and p=gcd(term+1,n) each time.
func runSequenceGCD(ctx context.Context, params *key.Parameters, progress attack.Progress, name string, bound int64, next func() *big.Int) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N

	tick := bound / 100
	if tick == 0 {
		tick = 1
	}
	progress.SetLength(bound)

	for i := int64(0); i < bound; i++ {
		if i%tick == 0 {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			progress.SetPosition(i)
		}

		v := next()
		if v == nil {
			break
		}
		for _, delta := range [2]*big.Int{big.NewInt(-1), big1} {
			candidate := new(big.Int).Add(v, delta)
			p := ntheory.Gcd(candidate, n)
			if isNontrivialFactor(p, n) {
				return solutionFromFactor(name, params, p)
			}
		}
	}
	return nil, attack.ErrNotFound
}
