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

// squfofMultipliers is the classic Riesel multiplier list: enough
// square-free and square-times-square-free values that at least one
// D=k*n has a short principal cycle.
var squfofMultipliers = []int64{
	1, 3, 5, 7, 11, 15, 21, 33, 35, 55, 77, 105, 165, 231, 385, 1155,
	9, 27, 45, 63, 99, 135, 189, 297, 315, 495, 693, 945, 1485, 2079, 3465, 10395,
}

const squfofMaxSteps = 100_000

// SQUFOF is Shanks' square forms factorization, run with each of
// squfofMultipliers.SquFoF over D=k*n until the principal cycle
// reveals an ambiguous form whose gcd with n is nontrivial.
var SQUFOF = attack.New("squfof", attack.Medium, attack.Standard, runSQUFOF)

func runSQUFOF(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N
	if new(big.Int).Mod(n, big4).Cmp(big2) == 0 {
		return nil, attack.ErrNotFound
	}

	progress.SetLength(int64(len(squfofMultipliers)))
	for i, k := range squfofMultipliers {
		if cancelled(ctx) {
			return nil, attack.ErrNotFound
		}
		progress.SetPosition(int64(i))

		if p := squfofOnce(n, k); p != nil && isNontrivialFactor(p, n) {
			return solutionFromFactor("squfof", params, p)
		}
	}
	return nil, attack.ErrNotFound
}

// squfofOnce runs the forward and reverse cycles of SQUFOF for a single
// multiplier k, returning a (possibly trivial) candidate factor or nil
// if Q ever hits zero (a degenerate cycle that must be detected and
// skipped, not divided through).
func squfofOnce(n *big.Int, k int64) *big.Int {
	d := new(big.Int).Mul(n, big.NewInt(k))
	s := ntheory.Isqrt(d)
	if new(big.Int).Mul(s, s).Cmp(d) == 0 {
		return nil
	}

	pPrev := new(big.Int).Set(s)
	qPrev := big.NewInt(1)
	q := new(big.Int).Sub(d, new(big.Int).Mul(pPrev, pPrev))

	var p *big.Int
	found := false

	for i := 1; i <= squfofMaxSteps; i++ {
		if q.Sign() == 0 {
			return nil
		}
		b := new(big.Int).Div(new(big.Int).Add(s, pPrev), q)
		p = new(big.Int).Sub(new(big.Int).Mul(b, q), pPrev)

		if i%2 == 1 {
			if r, ok := ntheory.IsPerfectSquare(q); ok {
				q = r
				found = true
				break
			}
		}

		qNext := new(big.Int).Add(qPrev, new(big.Int).Mul(b, new(big.Int).Sub(pPrev, p)))
		qPrev = q
		q = qNext
		pPrev = p
	}
	if !found {
		return nil
	}

	// Reverse phase: walk the ambiguous cycle back to P==Pprev.
	b := new(big.Int).Div(new(big.Int).Sub(s, p), q)
	pPrev = new(big.Int).Add(new(big.Int).Mul(b, q), p)
	qPrev = new(big.Int).Set(q)
	q = new(big.Int).Div(new(big.Int).Sub(d, new(big.Int).Mul(pPrev, pPrev)), qPrev)

	for i := 0; i < squfofMaxSteps; i++ {
		if q.Sign() == 0 {
			return nil
		}
		b = new(big.Int).Div(new(big.Int).Add(s, pPrev), q)
		p = new(big.Int).Sub(new(big.Int).Mul(b, q), pPrev)
		if p.Cmp(pPrev) == 0 {
			break
		}
		qNext := new(big.Int).Add(qPrev, new(big.Int).Mul(b, new(big.Int).Sub(pPrev, p)))
		qPrev = q
		q = qNext
		pPrev = p
	}

	return ntheory.Gcd(n, p)
}
