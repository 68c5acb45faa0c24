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

// knownMersenneExponents lists the exponents m for which 2^m-1 is a
// known Mersenne prime, smallest first. Entries whose 2^m-1 would
// exceed n are skipped without ever being materialized.
var knownMersenneExponents = []int64{
	2, 3, 5, 7, 13, 17, 19, 31, 61, 89, 107, 127,
	521, 607, 1279, 2203, 2281, 3217, 4253, 4423,
	9689, 9941, 11213, 19937, 21701, 23209,
}

// MersennePrime tests n for divisibility by each known Mersenne prime
// 2^m-1 up to n's own bit length.
var MersennePrime = attack.New("mersenne_prime", attack.Fast, attack.Standard, runMersennePrime)

func runMersennePrime(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N
	bound := int64(n.BitLen())

	progress.SetLength(int64(len(knownMersenneExponents)))
	for i, m := range knownMersenneExponents {
		if cancelled(ctx) {
			return nil, attack.ErrNotFound
		}
		progress.SetPosition(int64(i))
		if m > bound {
			break
		}

		candidate := new(big.Int).Sub(new(big.Int).Lsh(big1, uint(m)), big1)
		if candidate.Cmp(big1) <= 0 || candidate.Cmp(n) >= 0 {
			continue
		}
		if new(big.Int).Mod(n, candidate).Sign() == 0 {
			return solutionFromFactor("mersenne_prime", params, candidate)
		}
	}
	return nil, attack.ErrNotFound
}
