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

// Wiener exploits a small private exponent: d is the denominator of one
// of the continued-fraction convergents of e/n.
var Wiener = attack.New("wiener", attack.Medium, attack.Standard, runWiener)

func runWiener(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n, e := params.N, effectiveE(params)

	ks, ds := ntheory.ConvergentsFromContfrac(ntheory.RationalToContfrac(e, n))
	progress.SetLength(int64(len(ks)))

	for i := range ks {
		if cancelled(ctx) {
			return nil, attack.ErrNotFound
		}
		progress.SetPosition(int64(i))

		k, d := ks[i], ds[i]
		if k.Sign() == 0 {
			continue
		}
		ed1 := new(big.Int).Mul(e, d)
		ed1.Sub(ed1, big1)
		phi, rem := new(big.Int).QuoRem(ed1, k, new(big.Int))
		if rem.Sign() != 0 || phi.Bit(0) != 0 {
			continue
		}
		p, q, ok := ntheory.FactorFromNPhi(n, phi)
		if !ok {
			continue
		}
		solution, err := solutionFromPQ("wiener", params, p, q)
		if err != nil {
			continue
		}
		return solution, nil
	}
	return nil, attack.ErrNotFound
}
