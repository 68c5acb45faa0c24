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

const brentMaxOuterIterations = 1 << 20

// Brent is Brent's improvement on Pollard rho: it batches the gcd
// check across a growing block of steps instead of computing one gcd
// per step, trading a handful of extra multiplications for far fewer
// (expensive) gcds.
var Brent = attack.New("brent", attack.Medium, attack.Standard, runBrent)

func runBrent(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}

	primes, ok := factorByWorkStack(ctx, params.N, progress, brentOnce)
	if !ok {
		return nil, attack.ErrNotFound
	}
	return solutionFromFactors("brent", params, primes)
}

func brentOnce(ctx context.Context, n *big.Int, progress attack.Progress) *big.Int {
	f := func(x *big.Int) *big.Int {
		return new(big.Int).Mod(new(big.Int).Add(new(big.Int).Mul(x, x), big1), n)
	}

	y := big.NewInt(2)
	c := big.NewInt(1)
	m := big.NewInt(128)
	g, r, q := big.NewInt(1), big.NewInt(1), big.NewInt(1)
	var x, ys *big.Int

	tick := int64(brentMaxOuterIterations / 100)
	outer := int64(0)

	for g.Cmp(big1) == 0 && outer < brentMaxOuterIterations {
		x = new(big.Int).Set(y)
		for i := big.NewInt(0); i.Cmp(r) < 0; i.Add(i, big1) {
			y = f(y)
		}
		k := big.NewInt(0)
		for k.Cmp(r) < 0 && g.Cmp(big1) == 0 {
			outer++
			if outer%tick == 0 {
				if cancelled(ctx) {
					return nil
				}
				progress.Inc(tick)
			}

			ys = new(big.Int).Set(y)
			limit := new(big.Int)
			if limit.Sub(r, k); limit.Cmp(m) > 0 {
				limit.Set(m)
			}
			for i := big.NewInt(0); i.Cmp(limit) < 0; i.Add(i, big1) {
				y = f(y)
				diff := new(big.Int).Sub(x, y)
				diff.Abs(diff)
				q.Mul(q, diff)
				q.Mod(q, n)
			}
			g = ntheory.Gcd(q, n)
			k.Add(k, m)
		}
		r.Mul(r, big2)
		c.Add(c, big1)
	}

	if g.Cmp(n) == 0 {
		for i := 0; i < 1<<20; i++ {
			ys = f(ys)
			diff := new(big.Int).Sub(x, ys)
			diff.Abs(diff)
			g = ntheory.Gcd(diff, n)
			if g.Cmp(big1) > 0 {
				break
			}
		}
	}

	if isNontrivialFactor(g, n) {
		return g
	}
	return nil
}
