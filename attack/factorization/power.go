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

// Power recovers n = p^k for some prime p and k >= 2, scanning k
// downward from ceil(log2 n).
var Power = attack.New("power", attack.Fast, attack.Standard, runPower)

func runPower(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N
	if n.Cmp(big1) <= 0 {
		return nil, attack.ErrNotFound
	}

	top := n.BitLen()
	progress.SetLength(int64(top))
	for k := top; k >= 2; k-- {
		if cancelled(ctx) {
			return nil, attack.ErrNotFound
		}
		progress.SetPosition(int64(top - k))

		root := ntheory.NthRoot(n, int64(k))
		power := new(big.Int).Exp(root, big.NewInt(int64(k)), nil)
		if power.Cmp(n) == 0 && root.ProbablyPrime(30) {
			factors := make([]*big.Int, k)
			for i := range factors {
				factors[i] = root
			}
			return solutionFromFactors("power", params, factors)
		}
	}
	return nil, attack.ErrNotFound
}
