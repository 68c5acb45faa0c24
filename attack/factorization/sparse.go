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

	"gonum.org/v1/gonum/stat/combin"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/crypto/ntheory"
	"github.com/getamis/rsacracker/key"
)

// sparseMaxDifferBits bounds how many powers of two the difference p-q
// may be composed of; three or more make the enumeration intractable.
const sparseMaxDifferBits = 2

// Sparse assumes |p-q| is a sum of at most two distinct powers of two
// and enumerates the candidate bit positions, solving
// x^2 + (2^p1 + ... + 2^pk)x - n = 0 for each combination.
var Sparse = attack.New("sparse", attack.Slow, attack.Standard, runSparse)

func runSparse(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N

	maxBits := int(ntheory.LogBaseCeil(n, 2)) >> 1
	if maxBits < 4 {
		return nil, attack.ErrNotFound
	}
	negN := new(big.Int).Neg(n)

	// Candidate positions start at 3: lower bit differences are already
	// covered by twin_prime and fermat.
	positions := make([]*big.Int, 0, maxBits-2)
	for p := 3; p <= maxBits; p++ {
		positions = append(positions, new(big.Int).Lsh(big2, uint(p)))
	}

	progress.SetLength(sparseMaxDifferBits)
	for differBits := 1; differBits <= sparseMaxDifferBits; differBits++ {
		gen := combin.NewCombinationGenerator(len(positions), differBits)
		idx := make([]int, differBits)
		count := 0
		for gen.Next() {
			gen.Combination(idx)
			count++
			if count%10_000 == 0 && cancelled(ctx) {
				return nil, attack.ErrNotFound
			}

			difference := new(big.Int)
			for _, i := range idx {
				difference.Add(difference, positions[i])
			}

			// n = x * (x + difference), so the positive root of
			// x^2 + difference*x - n is the smaller factor.
			for _, root := range ntheory.SolveQuadratic(big1, difference, negN) {
				if root.Sign() <= 0 {
					continue
				}
				q, rem := new(big.Int).QuoRem(n, root, new(big.Int))
				if rem.Sign() != 0 || q.Cmp(big1) <= 0 {
					continue
				}
				return solutionFromFactor("sparse", params, root)
			}
		}
		progress.Inc(1)
	}
	return nil, attack.ErrNotFound
}
