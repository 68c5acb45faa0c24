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

const hartMaxIterations = 2_000_000

// Hart's one-line factorization: for i=1.., s=ceil(sqrt(n*i)); if
// s^2 mod n is a perfect square t^2, p=gcd(s-t,n).
var Hart = attack.New("hart", attack.Medium, attack.Standard, runHart)

func runHart(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N

	progress.SetLength(hartMaxIterations)
	tick := int64(hartMaxIterations / 100)
	for i := int64(1); i <= hartMaxIterations; i++ {
		if i%tick == 0 {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			progress.SetPosition(i)
		}

		ni := new(big.Int).Mul(n, big.NewInt(i))
		s := ntheory.Isqrt(ni)
		if new(big.Int).Mul(s, s).Cmp(ni) < 0 {
			s.Add(s, big1)
		}

		s2modn := new(big.Int).Mod(new(big.Int).Mul(s, s), n)
		t, ok := ntheory.IsPerfectSquare(s2modn)
		if !ok {
			continue
		}
		p := ntheory.Gcd(new(big.Int).Sub(s, t), n)
		if isNontrivialFactor(p, n) {
			return solutionFromFactor("hart", params, p)
		}
	}
	return nil, attack.ErrNotFound
}
