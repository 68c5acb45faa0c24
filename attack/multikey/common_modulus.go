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

package multikey

import (
	"context"
	"math/big"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/crypto/ntheory"
	"github.com/getamis/rsacracker/key"
)

// CommonModulus recovers the plaintext when the same message was
// encrypted twice under one modulus with coprime exponents: Bezout
// coefficients x*e1 + y*e2 = 1 give m = c1^x * c2^y mod n, inverting
// the ciphertext for a negative coefficient.
var CommonModulus = attack.New("common_modulus", attack.Fast, attack.MultiKey, runCommonModulus)

func runCommonModulus(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	if params.N == nil || params.C == nil {
		return nil, attack.ErrMissingParameters
	}
	n, c1 := params.N, params.C
	e1 := params.E
	if e1 == nil {
		e1 = big.NewInt(key.DefaultE)
	}

	for _, k := range params.Keys {
		if k.N == nil || k.C == nil || k.E == nil {
			continue
		}
		if k.N.Cmp(n) != 0 || k.E.Cmp(e1) == 0 {
			continue
		}
		e2, c2 := k.E, k.C

		x, y := new(big.Int), new(big.Int)
		g := new(big.Int).GCD(x, y, e1, e2)
		if g.Cmp(big1) != 0 {
			continue
		}

		m1, ok := powSigned(c1, x, n)
		if !ok {
			return nil, attack.ErrNotFound
		}
		m2, ok := powSigned(c2, y, n)
		if !ok {
			return nil, attack.ErrNotFound
		}
		m := new(big.Int).Mul(m1, m2)
		m.Mod(m, n)
		return &key.Solution{M: m, AttackName: "common_modulus"}, nil
	}
	return nil, attack.ErrNotFound
}

// powSigned computes c^x mod n, routing a negative exponent through the
// modular inverse of c.
func powSigned(c, x, n *big.Int) (*big.Int, bool) {
	if x.Sign() >= 0 {
		return new(big.Int).Exp(c, x, n), true
	}
	inv := ntheory.ModInverse(c, n)
	if inv == nil {
		return nil, false
	}
	return new(big.Int).Exp(inv, new(big.Int).Neg(x), n), true
}
