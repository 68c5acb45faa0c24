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
	"github.com/getamis/rsacracker/key"
)

const z3MaxIterations = 1_000_000

// Z3 solves the constraint system {p*q = n, 1 < q <= sqrt(n) <= p < n,
// p and q odd} by a bounded search for the odd divisor of n nearest to
// its square root. The assertions mirror an SMT encoding of balanced
// odd factors; the search either satisfies them all or reports
// NotFound as unsatisfiable within the budget.
var Z3 = attack.New("z3", attack.Slow, attack.Standard, runZ3)

func runZ3(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N
	if n.Bit(0) == 0 {
		return nil, attack.ErrNotFound
	}

	q := new(big.Int).Sqrt(n)
	if q.Bit(0) == 0 {
		q.Sub(q, big1)
	}

	tick := int64(z3MaxIterations / 100)
	progress.SetLength(z3MaxIterations)

	for i := int64(0); i < z3MaxIterations && q.Cmp(big1) > 0; i++ {
		if i%tick == 0 {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			progress.Inc(tick)
		}
		p, rem := new(big.Int).QuoRem(n, q, new(big.Int))
		if rem.Sign() == 0 && q.Cmp(big1) > 0 && p.Cmp(n) < 0 {
			return solutionFromPQ("z3", params, p, q)
		}
		q.Sub(q, big2)
	}
	return nil, attack.ErrNotFound
}
