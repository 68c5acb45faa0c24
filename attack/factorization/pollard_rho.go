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

const pollardRhoMaxIterations = 1_000_000

// PollardRho runs Floyd's cycle detection over f(x)=x^2+1 mod n,
// recursing (via an explicit work stack, not language recursion) on
// any composite factor it uncovers.
var PollardRho = attack.New("pollard_rho", attack.Medium, attack.Standard, runPollardRho)

func runPollardRho(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}

	primes, ok := factorByWorkStack(ctx, params.N, progress, pollardRhoOnce)
	if !ok {
		return nil, attack.ErrNotFound
	}
	return solutionFromFactors("pollard_rho", params, primes)
}

// pollardRhoOnce looks for a single nontrivial factor of n, or returns
// nil when none was found within the iteration budget.
func pollardRhoOnce(ctx context.Context, n *big.Int, progress attack.Progress) *big.Int {
	f := func(x *big.Int) *big.Int {
		return new(big.Int).Mod(new(big.Int).Add(new(big.Int).Mul(x, x), big1), n)
	}

	x, y := big.NewInt(2), big.NewInt(2)
	d := big.NewInt(1)
	tick := int64(pollardRhoMaxIterations / 100)

	for i := int64(0); i < pollardRhoMaxIterations && d.Cmp(big1) == 0; i++ {
		if i%tick == 0 {
			if cancelled(ctx) {
				return nil
			}
			progress.Inc(tick)
		}
		x = f(x)
		y = f(f(y))
		diff := new(big.Int).Sub(x, y)
		diff.Abs(diff)
		d = ntheory.Gcd(diff, n)
	}

	if isNontrivialFactor(d, n) {
		return d
	}
	return nil
}

// factorByWorkStack fully factors n using find, an attack that returns
// a single nontrivial factor or nil. Composite halves are pushed onto
// an explicit stack rather than recursed on, per the engine's
// iterative-refinement convention.
func factorByWorkStack(ctx context.Context, n *big.Int, progress attack.Progress, find func(context.Context, *big.Int, attack.Progress) *big.Int) ([]*big.Int, bool) {
	stack := []*big.Int{new(big.Int).Set(n)}
	var primes []*big.Int

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.Cmp(big1) == 0 {
			continue
		}
		if cur.ProbablyPrime(30) {
			primes = append(primes, cur)
			continue
		}

		factor := find(ctx, cur, progress)
		if factor == nil {
			return nil, false
		}
		other := new(big.Int).Div(cur, factor)
		stack = append(stack, factor, other)
	}

	if len(primes) < 2 {
		return nil, false
	}
	return primes, true
}
