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

// londahlB bounds both the storage and the walk in closeFactor.
const londahlB = 10_000_000

// Londahl recovers close primes via a meet-in-the-middle search around
// an approximation of phi, refining the approximation once a stored
// power of two collides with a looked-up one.
// See https://github.com/RsaCtfTool/RsaCtfTool/blob/master/attacks/single_key/londahl.py
var Londahl = attack.New("londahl", attack.Slow, attack.Standard, runLondahl)

func runLondahl(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	p, _ := closeFactor(ctx, params.N, londahlB, progress)
	if p == nil {
		return nil, attack.ErrNotFound
	}
	return solutionFromFactor("londahl", params, p)
}

type londahlEntry struct {
	isLookup bool
	index    int64
}

// closeFactor runs the meet-in-the-middle search: z=2^j mod n is stored
// going forward while mu=2^(j*b-phi_approx) mod n is looked up going
// backward; a collision between the two tables pins down phi exactly.
func closeFactor(ctx context.Context, n *big.Int, b int64, progress attack.Progress) (*big.Int, *big.Int) {
	tick := b / 100
	if tick == 0 {
		tick = 1
	}
	progress.SetLength(b)

	sqrtN := ntheory.Isqrt(n)
	phiApprox := new(big.Int).Sub(n, new(big.Int).Mul(big2, sqrtN))
	phiApprox.Add(phiApprox, big1)

	lookup := make(map[string]londahlEntry, 2*b)

	z := big.NewInt(1)
	lookup[z.String()] = londahlEntry{isLookup: false, index: 0}
	z = new(big.Int).Mod(new(big.Int).Mul(z, big2), n)

	mu := new(big.Int).Exp(big2, phiApprox, n)
	mu = new(big.Int).ModInverse(mu, n)
	if mu == nil {
		return nil, nil
	}
	fac := new(big.Int).Exp(big2, big.NewInt(b), n)

	generating := true
	bBig := big.NewInt(b)

	for j := int64(1); j <= b; j++ {
		if j%tick == 0 {
			if cancelled(ctx) {
				return nil, nil
			}
			progress.Inc(tick)
		}

		if generating {
			key := z.String()
			if entry, ok := lookup[key]; ok {
				if entry.isLookup {
					if p, q := tryLondahlPhi(n, phiApprox, j, entry.index, bBig); p != nil {
						return p, q
					}
				} else {
					generating = false
				}
			} else {
				lookup[key] = londahlEntry{isLookup: false, index: j}
			}
		}

		z = new(big.Int).Mod(new(big.Int).Mul(z, big2), n)
		mu = new(big.Int).Mod(new(big.Int).Mul(mu, fac), n)

		muKey := mu.String()
		entry, ok := lookup[muKey]
		if !ok {
			lookup[muKey] = londahlEntry{isLookup: true, index: j}
			continue
		}
		if entry.isLookup {
			break
		}
		if p, q := tryLondahlPhi(n, phiApprox, entry.index, j, bBig); p != nil {
			return p, q
		}
	}
	return nil, nil
}

// tryLondahlPhi refines phi_approx using the matched indices and solves
// x^2-(n-phi+1)x+n=0 for the exact factors.
func tryLondahlPhi(n, phiApprox *big.Int, storeIdx, lookupIdx int64, b *big.Int) (*big.Int, *big.Int) {
	phi := new(big.Int).Set(phiApprox)
	delta := new(big.Int).Sub(big.NewInt(storeIdx), new(big.Int).Mul(big.NewInt(lookupIdx), b))
	phi.Add(phi, delta)

	p, q, ok := ntheory.FactorFromNPhi(n, phi)
	if !ok {
		return nil, nil
	}
	if p.Cmp(big1) == 0 || q.Cmp(big1) == 0 {
		return nil, nil
	}
	return p, q
}
