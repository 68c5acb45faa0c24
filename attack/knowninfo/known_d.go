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

package knowninfo

import (
	"context"
	"math/big"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/crypto/ntheory"
	"github.com/getamis/rsacracker/key"
)

// knownDMaxBases bounds how many random bases are tried; each base
// succeeds with probability at least 1/2 for a correct d.
const knownDMaxBases = 10_000

// KnownD factors n from the full private exponent: k = e*d - 1 is a
// multiple of the group order, so stripping powers of two from it and
// exponentiating a random base yields a nontrivial square root of 1
// with high probability.
var KnownD = attack.New("known_d", attack.Fast, attack.KnownExtraInfo, runKnownD)

func runKnownD(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	if params.N == nil || params.D == nil {
		return nil, attack.ErrMissingParameters
	}
	p, q, ok := factorFromED(ctx, params.N, effectiveE(params), params.D)
	if !ok {
		return nil, attack.ErrNotFound
	}
	return solutionFromPQ("known_d", params, p, q)
}

// factorFromED recovers p and q of n from a working exponent pair.
func factorFromED(ctx context.Context, n, e, d *big.Int) (*big.Int, *big.Int, bool) {
	k := new(big.Int).Mul(e, d)
	k.Sub(k, big1)
	bits := ntheory.LogBaseCeil(k, 2)

	for round := 0; round < knownDMaxBases; round++ {
		if cancelled(ctx) {
			return nil, nil, false
		}
		g, err := ntheory.RandomPositiveInt(n)
		if err != nil {
			return nil, nil, false
		}
		for s := int64(1); s <= bits; s++ {
			exp := new(big.Int).Rsh(k, uint(s))
			if exp.Sign() == 0 {
				break
			}
			x := new(big.Int).Exp(g, exp, n)
			p := ntheory.Gcd(new(big.Int).Sub(x, big1), n)
			if p.Cmp(big1) > 0 && p.Cmp(n) < 0 && new(big.Int).Mod(n, p).Sign() == 0 {
				return p, new(big.Int).Div(n, p), true
			}
		}
	}
	return nil, nil, false
}
