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
	"github.com/getamis/rsacracker/crypto/ntheory"
	"github.com/getamis/rsacracker/key"
)

// SumPQ solves the constraint system {p*q = n, p+q = s, p,q in (1,n)}:
// p and q are exactly the roots of x^2 - s*x + n = 0.
var SumPQ = attack.New("sum_pq", attack.Fast, attack.KnownExtraInfo, runSumPQ)

func runSumPQ(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	if params.N == nil || params.SumPQ == nil {
		return nil, attack.ErrMissingParameters
	}
	n, sum := params.N, params.SumPQ

	roots := ntheory.SolveQuadratic(big1, new(big.Int).Neg(sum), n)
	if len(roots) != 2 {
		return nil, attack.ErrNotFound
	}
	p, q := roots[0], roots[1]
	if p.Cmp(big1) <= 0 || q.Cmp(big1) <= 0 || p.Cmp(n) >= 0 || q.Cmp(n) >= 0 {
		return nil, attack.ErrNotFound
	}
	return solutionFromPQ("sum_pq", params, p, q)
}
