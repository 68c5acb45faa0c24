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

// LeakedCRTExponents recovers p and q without n: e*dp - 1 = k*(p-1) for
// some k < e, so scanning the divisors k of e*dp - 1 and primality
// testing (e*dp-1)/k + 1 finds p; the same scan over dq finds q, and
// the leaked qinv cross-checks the pair.
var LeakedCRTExponents = attack.New("leaked_crt_exponents", attack.Fast, attack.KnownExtraInfo, runLeakedCRTExponents)

func runLeakedCRTExponents(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.Dp == nil || params.Dq == nil || params.Qinv == nil {
		return nil, attack.ErrMissingParameters
	}
	e := effectiveE(params)
	if !e.IsInt64() {
		return nil, attack.ErrNotFound
	}
	eInt := e.Int64()
	qinv := params.Qinv

	d1p := new(big.Int).Mul(params.Dp, e)
	d1p.Sub(d1p, big1)
	d1q := new(big.Int).Mul(params.Dq, e)
	d1q.Sub(d1q, big1)

	tick := eInt / 100
	if tick == 0 {
		tick = 1
	}
	progress.SetLength(eInt)

	for k := int64(3); k < eInt; k++ {
		if k%tick == 0 {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			progress.SetPosition(k)
		}

		kBig := big.NewInt(k)
		if new(big.Int).Mod(d1p, kBig).Sign() != 0 {
			continue
		}
		p := new(big.Int).Div(d1p, kBig)
		p.Add(p, big1)
		if !p.ProbablyPrime(25) {
			continue
		}

		for m := int64(3); m < eInt; m++ {
			mBig := big.NewInt(m)
			if new(big.Int).Mod(d1q, mBig).Sign() != 0 {
				continue
			}
			q := new(big.Int).Div(d1q, mBig)
			q.Add(q, big1)
			if !q.ProbablyPrime(25) {
				continue
			}

			qp := new(big.Int).Mod(new(big.Int).Mul(qinv, q), p)
			pq := new(big.Int).Mod(new(big.Int).Mul(qinv, p), q)
			if qp.Cmp(big1) != 0 && pq.Cmp(big1) != 0 {
				continue
			}

			n := new(big.Int).Mul(p, q)
			derived := &key.Parameters{N: n, E: e, C: params.C}
			return solutionFromPQ("leaked_crt_exponents", derived, p, q)
		}
	}
	return nil, attack.ErrNotFound
}
