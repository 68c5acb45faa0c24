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

const fermatMaxIterations = 10_000_000

// Fermat factors n when p and q are close: a = ceil(sqrt(n)), increment
// a until a^2-n is a perfect square b^2, giving p=a-b, q=a+b.
var Fermat = attack.New("fermat", attack.Medium, attack.Standard, runFermat)

func runFermat(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N
	if new(big.Int).Mod(n, big4).Cmp(big2) == 0 {
		return nil, attack.ErrNotFound
	}

	a := ntheory.Isqrt(n)
	if new(big.Int).Mul(a, a).Cmp(n) < 0 {
		a.Add(a, big1)
	}

	progress.SetLength(fermatMaxIterations)
	tick := int64(fermatMaxIterations / 100)
	for i := int64(0); i < fermatMaxIterations; i++ {
		if i%tick == 0 {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			progress.SetPosition(i)
		}

		b2 := new(big.Int).Sub(new(big.Int).Mul(a, a), n)
		if b, ok := ntheory.IsPerfectSquare(b2); ok {
			p := new(big.Int).Sub(a, b)
			if isNontrivialFactor(p, n) {
				return solutionFromFactor("fermat", params, p)
			}
		}
		a.Add(a, big1)
	}
	return nil, attack.ErrNotFound
}
