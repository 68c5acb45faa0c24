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

// PartialD reconstructs a full private exponent from its known low
// bits. For each multiplier k of phi, d is approximately (n*k+1)/e;
// grafting the leaked low bits onto that estimate and spot-checking
// with an encrypt/decrypt of 2 finds the right k, after which the
// factorization follows as in known_d.
var PartialD = attack.New("partial_d", attack.Fast, attack.KnownExtraInfo, runPartialD)

func runPartialD(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil || params.D == nil {
		return nil, attack.ErrMissingParameters
	}
	e := effectiveE(params)
	if !e.IsInt64() {
		return nil, attack.ErrNotFound
	}
	eInt := e.Int64()
	n, dLSB := params.N, params.D

	knownBits := uint(dLSB.BitLen())
	two := big.NewInt(2)
	tick := eInt / 100
	if tick == 0 {
		tick = 1
	}
	progress.SetLength(eInt)

	for k := int64(1); k < eInt; k++ {
		if k%tick == 0 {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			progress.SetPosition(k)
		}

		kBig := big.NewInt(k)
		candidate := new(big.Int).Mul(n, kBig)
		candidate.Add(candidate, big1)
		candidate.Div(candidate, e)

		d := new(big.Int).Rsh(candidate, knownBits)
		d.Lsh(d, knownBits)
		d.Or(d, dLSB)

		check := new(big.Int).Mul(e, d)
		check.Mod(check, kBig)
		if check.Cmp(big1) != 0 {
			continue
		}
		roundTrip := new(big.Int).Exp(two, e, n)
		roundTrip.Exp(roundTrip, d, n)
		if roundTrip.Cmp(two) != 0 {
			continue
		}

		p, q, ok := factorFromED(ctx, n, e, d)
		if !ok {
			continue
		}
		return solutionFromPQ("partial_d", params, p, q)
	}
	return nil, attack.ErrNotFound
}
