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

const twinPrimeMaxIterations = 1_000_000

// TwinPrime searches for factors that straddle sqrt(n): twin primes and
// near-twin pairs where |p-q| is small. It walks outward from
// base = sqrt(n+1), testing the symmetric candidate pairs (base+i-1,
// base-i-1), (base+i, base-i) and (base+i+1, base-i+1), skipping the
// parity combinations that would make a candidate even.
var TwinPrime = attack.New("twin_prime", attack.Medium, attack.Standard, runTwinPrime)

func runTwinPrime(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N

	base := new(big.Int).Sqrt(new(big.Int).Add(n, big1))
	baseIsEven := base.Bit(0) == 0

	tick := int64(twinPrimeMaxIterations / 100)
	progress.SetLength(twinPrimeMaxIterations)

	for i := int64(1); i < twinPrimeMaxIterations; i++ {
		if i%tick == 0 {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			progress.Inc(tick)
		}

		iIsEven := i%2 == 0
		offset := big.NewInt(i)

		var deltas []*big.Int
		if baseIsEven == iIsEven {
			// Same parity: base+-i would be even, shift by one instead.
			deltas = []*big.Int{big.NewInt(-1), big1}
		} else {
			deltas = []*big.Int{big0}
		}
		for _, delta := range deltas {
			p := new(big.Int).Add(base, offset)
			p.Add(p, delta)
			q := new(big.Int).Sub(base, offset)
			q.Add(q, delta)
			if q.Cmp(big1) <= 0 {
				continue
			}
			if new(big.Int).Mul(p, q).Cmp(n) == 0 {
				e := params.E
				if e == nil {
					e = big.NewInt(key.DefaultE)
				}
				pk, err := key.NewPrivateKey(n, e, nil, p, q, nil)
				if err != nil {
					return nil, err
				}
				return &key.Solution{PrivateKey: pk, AttackName: "twin_prime"}, nil
			}
		}
	}
	return nil, attack.ErrNotFound
}
