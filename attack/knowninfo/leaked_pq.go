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

// LeakedPQ rebuilds the key when any two of {p, q, n} are given, by
// deriving the third.
var LeakedPQ = attack.New("leaked_pq", attack.Fast, attack.KnownExtraInfo, runLeakedPQ)

func runLeakedPQ(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	p, q, n := params.P, params.Q, params.N

	switch {
	case p != nil && q != nil:
		derived := params
		if n == nil {
			derived = &key.Parameters{N: new(big.Int).Mul(p, q), E: params.E, C: params.C}
		}
		return solutionFromPQ("leaked_pq", derived, p, q)
	case p != nil && n != nil:
		q, rem := new(big.Int).QuoRem(n, p, new(big.Int))
		if rem.Sign() != 0 {
			return nil, attack.ErrNotFound
		}
		return solutionFromPQ("leaked_pq", params, p, q)
	case q != nil && n != nil:
		p, rem := new(big.Int).QuoRem(n, q, new(big.Int))
		if rem.Sign() != 0 {
			return nil, attack.ErrNotFound
		}
		return solutionFromPQ("leaked_pq", params, p, q)
	default:
		return nil, attack.ErrMissingParameters
	}
}
