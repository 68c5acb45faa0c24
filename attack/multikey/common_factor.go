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

// Package multikey collects the attacks that need more than one
// (n, e, c) triple: shared factors across moduli, a shared modulus
// under different exponents, and Hastad's broadcast.
package multikey

import (
	"context"
	"math/big"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/crypto/ntheory"
	"github.com/getamis/rsacracker/key"
)

var (
	big1 = big.NewInt(1)
)

// CommonFactor computes pairwise gcds across all supplied moduli; two
// keys generated with a shared prime both fall. When e is not coprime
// to the resulting phi but the ciphertext is known, the coprime part of
// e still decrypts m^gcd(e,phi), whose integer root recovers m.
var CommonFactor = attack.New("common_factor", attack.Fast, attack.MultiKey, runCommonFactor)

func runCommonFactor(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	keys := collectKeys(params)
	if len(keys) < 2 {
		return nil, attack.ErrMissingParameters
	}

	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			p := ntheory.Gcd(keys[i].N, keys[j].N)
			if p.Cmp(big1) <= 0 || p.Cmp(keys[i].N) == 0 || p.Cmp(keys[j].N) == 0 {
				continue
			}

			k := keys[i]
			q := new(big.Int).Div(k.N, p)
			phi := new(big.Int).Mul(new(big.Int).Sub(p, big1), new(big.Int).Sub(q, big1))
			e := k.E
			if e == nil {
				e = big.NewInt(key.DefaultE)
			}

			if ntheory.Gcd(e, phi).Cmp(big1) == 0 {
				pk, err := key.NewPrivateKey(k.N, e, nil, p, q, nil)
				if err != nil {
					return nil, err
				}
				return &key.Solution{PrivateKey: pk, AttackName: "common_factor"}, nil
			}
			if k.C != nil {
				if m, ok := decryptNonCoprime(e, phi, k.C, k.N); ok {
					return &key.Solution{M: m, AttackName: "common_factor"}, nil
				}
			}
		}
	}
	return nil, attack.ErrNotFound
}

// decryptNonCoprime splits e = e1*e2 with e1 = gcd(e, phi); when e2 is
// invertible mod phi/e1, c^(e2^-1) = m^e1 mod n, and the plaintext is
// its integer e1-th root.
func decryptNonCoprime(e, phi, c, n *big.Int) (*big.Int, bool) {
	e1 := ntheory.Gcd(e, phi)
	e2 := new(big.Int).Div(e, e1)
	phiReduced := new(big.Int).Div(phi, e1)

	if ntheory.Gcd(e2, phiReduced).Cmp(big1) != 0 {
		return nil, false
	}
	d := ntheory.ModInverse(e2, phiReduced)
	if d == nil {
		return nil, false
	}
	mToE1 := new(big.Int).Exp(c, d, n)

	if !e1.IsInt64() {
		return nil, false
	}
	m := ntheory.NthRoot(mToE1, e1.Int64())
	if new(big.Int).Exp(m, e1, nil).Cmp(mToE1) != 0 {
		return nil, false
	}
	return m, true
}

// collectKeys flattens the primary (n, e, c) and every auxiliary key
// into one list, skipping entries without a modulus.
func collectKeys(params *key.Parameters) []key.AuxKey {
	var keys []key.AuxKey
	if params.N != nil {
		keys = append(keys, key.AuxKey{N: params.N, E: params.E, C: params.C})
	}
	for _, k := range params.Keys {
		if k.N != nil {
			keys = append(keys, k)
		}
	}
	return keys
}

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
