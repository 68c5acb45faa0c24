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

const (
	kraitchikMaxX = 10_000
	kraitchikMaxK = 10_000
)

// Kraitchik is Williams' p-1-adjacent congruence-of-squares search:
// scan x upward from ceil(sqrt(n)), and for each x try k=1,2,... until
// x^2-k*n is a perfect square.
var Kraitchik = attack.New("kraitchik", attack.Slow, attack.Standard, runKraitchik)

func runKraitchik(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N

	x := ntheory.Isqrt(n)
	if new(big.Int).Mul(x, x).Cmp(n) < 0 {
		x.Add(x, big1)
	}

	progress.SetLength(kraitchikMaxX)
	tick := int64(kraitchikMaxX / 100)
	if tick == 0 {
		tick = 1
	}

	for i := int64(0); i < kraitchikMaxX; i++ {
		if i%tick == 0 {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			progress.SetPosition(i)
		}

		x2 := new(big.Int).Mul(x, x)
		for k := int64(1); k <= kraitchikMaxK; k++ {
			candidate := new(big.Int).Sub(x2, new(big.Int).Mul(n, big.NewInt(k)))
			if candidate.Sign() < 0 {
				break
			}
			y, ok := ntheory.IsPerfectSquare(candidate)
			if !ok {
				continue
			}
			p := ntheory.Gcd(new(big.Int).Sub(x, y), n)
			if isNontrivialFactor(p, n) {
				return solutionFromFactor("kraitchik", params, p)
			}
		}
		x.Add(x, big1)
	}
	return nil, attack.ErrNotFound
}
