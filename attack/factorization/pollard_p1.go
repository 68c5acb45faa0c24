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

const pollardP1MaxIterations = 1_000_000

// PollardP1 is Pollard's p-1 method: a=2, repeatedly raise a to the
// power b for b=2.., hoping p-1 is b!-smooth for some prime factor p.
// Composite halves are refined via the same work-stack helper pollard_rho uses.
var PollardP1 = attack.New("pollard_p_1", attack.Medium, attack.Standard, runPollardP1)

func runPollardP1(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}

	primes, ok := factorByWorkStack(ctx, params.N, progress, pollardP1Once)
	if !ok {
		return nil, attack.ErrNotFound
	}
	return solutionFromFactors("pollard_p_1", params, primes)
}

func pollardP1Once(ctx context.Context, n *big.Int, progress attack.Progress) *big.Int {
	a := big.NewInt(2)
	tick := int64(pollardP1MaxIterations / 100)

	for b := int64(2); b <= pollardP1MaxIterations; b++ {
		if b%tick == 0 {
			if cancelled(ctx) {
				return nil
			}
			progress.Inc(tick)
		}
		a.Exp(a, big.NewInt(b), n)
		p := ntheory.Gcd(new(big.Int).Sub(a, big1), n)
		if isNontrivialFactor(p, n) {
			return p
		}
		if p.Cmp(n) == 0 {
			return nil
		}
	}
	return nil
}
