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

const gaaMaxIterations = 1_000_000

// GAA is the Ghafar-Ariffin-Asbullah key recovery attack
// (https://www.mdpi.com/2073-8994/12/5/838): with the low bits rp and
// rq of both factors known, scan k upward from ceil(sqrt(rp*rq)), form
// sigma = (sqrt(n)-k)^2 and solve x^2 - z*x + sigma*rp*rq = 0 with
// z = (n - rp*rq) mod sigma; a root divisible by rp or rq exposes a
// factor.
var GAA = attack.New("gaa", attack.Medium, attack.KnownExtraInfo, runGAA)

func runGAA(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	rp, rq := gaaKnownLSBs(params)
	if rp == nil || rq == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N

	rprq := new(big.Int).Mul(rp, rq)
	k := new(big.Int).Sqrt(rprq)
	if new(big.Int).Mul(k, k).Cmp(rprq) != 0 {
		k.Add(k, big1)
	}
	nSqrt := new(big.Int).Sqrt(n)

	tick := int64(gaaMaxIterations / 100)
	progress.SetLength(gaaMaxIterations)

	for i := int64(0); i < gaaMaxIterations; i++ {
		if i%tick == 0 {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			progress.Inc(tick)
		}

		sigma := new(big.Int).Sub(nSqrt, k)
		sigma.Mul(sigma, sigma)
		if sigma.Sign() == 0 {
			k.Add(k, big1)
			continue
		}
		z := new(big.Int).Sub(n, rprq)
		z.Mod(z, sigma)

		c := new(big.Int).Mul(sigma, rprq)
		for _, root := range ntheory.SolveQuadratic(big1, new(big.Int).Neg(z), c) {
			if root.Sign() < 0 {
				continue
			}
			if new(big.Int).Mod(root, rp).Sign() == 0 {
				p := new(big.Int).Div(root, rp)
				p.Add(p, rq)
				if solution, ok := gaaCheck(params, n, p); ok {
					return solution, nil
				}
			}
			if new(big.Int).Mod(root, rq).Sign() == 0 {
				q := new(big.Int).Div(root, rq)
				q.Add(q, rp)
				if solution, ok := gaaCheck(params, n, q); ok {
					return solution, nil
				}
			}
		}
		k.Add(k, big1)
	}
	return nil, attack.ErrNotFound
}

// gaaKnownLSBs extracts the leaked low bits of p and q, preferring the
// tagged partial values and falling back to raw P/Q inputs that do not
// already factor n.
func gaaKnownLSBs(params *key.Parameters) (rp, rq *big.Int) {
	if params.PartialP != nil && params.PartialP.Kind == key.PartialLSBKnown {
		rp = params.PartialP.Known
	}
	if params.PartialQ != nil && params.PartialQ.Kind == key.PartialLSBKnown {
		rq = params.PartialQ.Known
	}
	if rp == nil && rq == nil && params.P != nil && params.Q != nil {
		if new(big.Int).Mul(params.P, params.Q).Cmp(params.N) != 0 {
			rp, rq = params.P, params.Q
		}
	}
	return rp, rq
}

func gaaCheck(params *key.Parameters, n, p *big.Int) (*key.Solution, bool) {
	if p.Cmp(big1) <= 0 || p.Cmp(n) >= 0 {
		return nil, false
	}
	q, rem := new(big.Int).QuoRem(n, p, new(big.Int))
	if rem.Sign() != 0 {
		return nil, false
	}
	solution, err := solutionFromPQ("gaa", params, p, q)
	if err != nil {
		return nil, false
	}
	return solution, true
}
