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
	"github.com/getamis/rsacracker/key"
)

const smallPrimeTick = firstPrimesCount / 100

// SmallPrime trial-divides n by the first 1,000,000 primes, peeling off
// every multiplicity found. Whatever remains after the sweep, if it is
// not 1, is kept as one further (presumed prime) factor.
var SmallPrime = attack.New("small_prime", attack.Fast, attack.Standard, runSmallPrime)

func runSmallPrime(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}

	remaining := new(big.Int).Set(params.N)
	factors := key.NewFactors()
	progress.SetLength(firstPrimesCount)

	for i, prime := range firstPrimes() {
		if prime.Cmp(remaining) > 0 {
			break
		}
		if i%smallPrimeTick == 0 {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			progress.SetPosition(int64(i))
		}

		mod := new(big.Int)
		for {
			q, r := new(big.Int).DivMod(remaining, prime, mod)
			if r.Sign() != 0 {
				break
			}
			remaining = q
			factors.Add(prime, 1)
		}
	}

	if remaining.Cmp(params.N) == 0 {
		return nil, attack.ErrNotFound
	}
	if remaining.Cmp(big1) != 0 {
		factors.Add(remaining, 1)
	}

	primes := factors.Flatten()
	return solutionFromFactors("small_prime", params, primes)
}
