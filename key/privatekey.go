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

import (
	"errors"
	"math/big"
)

const primalityRounds = 30

var (
	// ErrFactorsAreNotPrime is returned when a claimed factor fails the
	// Miller-Rabin test, or the factors' product does not equal n.
	ErrFactorsAreNotPrime = errors.New("key: factors are not prime or do not multiply to n")
	// ErrPrivateExponentComputationFailed is returned when e*d is not
	// congruent to 1 mod phi(n).
	ErrPrivateExponentComputationFailed = errors.New("key: private exponent does not satisfy e*d=1 mod phi")
)

// PrivateKey is the recovered RSA private key an attack constructs on
// success. It is immutable once built by NewPrivateKey.
type PrivateKey struct {
	N, E, D      *big.Int
	P, Q         *big.Int
	OtherFactors *Factors
	Phi          *big.Int
}

// NewPrivateKey validates and builds a PrivateKey from a candidate
// factorization (p, q, plus any further prime factors for multi-prime
// RSA) and exponents. p and q are normalized so p <= q.
func NewPrivateKey(n, e, d, p, q *big.Int, otherFactors *Factors) (*PrivateKey, error) {
	if !p.ProbablyPrime(primalityRounds) || !q.ProbablyPrime(primalityRounds) {
		return nil, ErrFactorsAreNotPrime
	}

	product := new(big.Int).Mul(p, q)
	phi := new(big.Int).Mul(new(big.Int).Sub(p, big1), new(big.Int).Sub(q, big1))
	if otherFactors != nil {
		for _, entry := range otherFactors.Entries() {
			if !entry.Prime.ProbablyPrime(primalityRounds) {
				return nil, ErrFactorsAreNotPrime
			}
		}
		product.Mul(product, otherFactors.Product())
		phi.Mul(phi, otherFactors.Totient())
	}
	if product.Cmp(n) != 0 {
		return nil, ErrFactorsAreNotPrime
	}

	if d == nil {
		var ok bool
		d, ok = modInverse(e, phi)
		if !ok {
			return nil, ErrPrivateExponentComputationFailed
		}
	} else {
		check := new(big.Int).Mul(e, d)
		check.Mod(check, phi)
		if check.Cmp(big1) != 0 {
			return nil, ErrPrivateExponentComputationFailed
		}
	}

	if p.Cmp(q) > 0 {
		p, q = q, p
	}

	return &PrivateKey{
		N:            new(big.Int).Set(n),
		E:            new(big.Int).Set(e),
		D:            d,
		P:            new(big.Int).Set(p),
		Q:            new(big.Int).Set(q),
		OtherFactors: otherFactors,
		Phi:          phi,
	}, nil
}

// NewPrivateKeyFromFactors builds a PrivateKey from an arbitrary
// multiset of prime factors (two or more, possibly repeated, as from a
// prime-power modulus or a fully factored multi-prime modulus). phi is
// computed once over the whole multiset via Factors.Totient, avoiding
// the double-counting a naive p,q-plus-others split would cause when a
// prime repeats.
func NewPrivateKeyFromFactors(n, e, d *big.Int, factors *Factors) (*PrivateKey, error) {
	flat := factors.Flatten()
	if len(flat) < 2 {
		return nil, ErrFactorsAreNotPrime
	}
	for _, p := range flat {
		if !p.ProbablyPrime(primalityRounds) {
			return nil, ErrFactorsAreNotPrime
		}
	}
	if factors.Product().Cmp(n) != 0 {
		return nil, ErrFactorsAreNotPrime
	}

	phi := factors.Totient()
	if d == nil {
		var ok bool
		d, ok = modInverse(e, phi)
		if !ok {
			return nil, ErrPrivateExponentComputationFailed
		}
	} else {
		check := new(big.Int).Mod(new(big.Int).Mul(e, d), phi)
		if check.Cmp(big1) != 0 {
			return nil, ErrPrivateExponentComputationFailed
		}
	}

	p, q := flat[0], flat[1]
	if p.Cmp(q) > 0 {
		p, q = q, p
	}

	var otherFactors *Factors
	if len(flat) > 2 {
		otherFactors = NewFactors()
		for _, f := range flat[2:] {
			otherFactors.Add(f, 1)
		}
	}

	return &PrivateKey{
		N:            new(big.Int).Set(n),
		E:            new(big.Int).Set(e),
		D:            d,
		P:            new(big.Int).Set(p),
		Q:            new(big.Int).Set(q),
		OtherFactors: otherFactors,
		Phi:          phi,
	}, nil
}

func modInverse(a, m *big.Int) (*big.Int, bool) {
	inv := new(big.Int).ModInverse(a, m)
	if inv == nil {
		return nil, false
	}
	return inv, true
}

// Dp returns d mod (p-1), the CRT exponent used in the p branch.
func (k *PrivateKey) Dp() *big.Int {
	return new(big.Int).Mod(k.D, new(big.Int).Sub(k.P, big1))
}

// Dq returns d mod (q-1), the CRT exponent used in the q branch.
func (k *PrivateKey) Dq() *big.Int {
	return new(big.Int).Mod(k.D, new(big.Int).Sub(k.Q, big1))
}

// Qinv returns q^-1 mod p, the CRT coefficient.
func (k *PrivateKey) Qinv() *big.Int {
	return new(big.Int).ModInverse(k.Q, k.P)
}

// Pinv returns p^-1 mod q.
func (k *PrivateKey) Pinv() *big.Int {
	return new(big.Int).ModInverse(k.P, k.Q)
}

// Decrypt recovers m = c^d mod n. When the key has exactly two factors
// it is computed via CRT (Garner's formula), otherwise directly with d.
func (k *PrivateKey) Decrypt(c *big.Int) *big.Int {
	if k.OtherFactors == nil || k.OtherFactors.Len() == 0 {
		return k.decryptCRT(c)
	}
	return new(big.Int).Exp(c, k.D, k.N)
}

func (k *PrivateKey) decryptCRT(c *big.Int) *big.Int {
	mp := new(big.Int).Exp(c, k.Dp(), k.P)
	mq := new(big.Int).Exp(c, k.Dq(), k.Q)
	h := new(big.Int).Sub(mp, mq)
	h.Mul(h, k.Qinv())
	h.Mod(h, k.P)
	m := new(big.Int).Mul(h, k.Q)
	m.Add(m, mq)
	return m.Mod(m, k.N)
}
