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

// knownPhiMaxRounds bounds the random-base sampling of the multi-factor
// refinement; each round splits at least one composite with probability
// at least 1/2, so exhausting this many rounds means phi is wrong.
const knownPhiMaxRounds = 10_000

// KnownPhi factors n from its totient: the two-factor case is a single
// quadratic solve, and multi-prime moduli are split by finding
// nontrivial square roots of 1 from random bases.
var KnownPhi = attack.New("known_phi", attack.Fast, attack.KnownExtraInfo, runKnownPhi)

func runKnownPhi(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	if params.N == nil || params.Phi == nil {
		return nil, attack.ErrMissingParameters
	}
	n, phi := params.N, params.Phi

	if p, q, ok := ntheory.FactorFromNPhi(n, phi); ok {
		return solutionFromPQ("known_phi", params, p, q)
	}

	primes, ok := factorMultiFromPhi(ctx, n, phi)
	if !ok {
		return nil, attack.ErrNotFound
	}
	e := effectiveE(params)
	factors := key.NewFactors()
	for _, p := range primes {
		factors.Add(p, 1)
	}
	pk, err := key.NewPrivateKeyFromFactors(n, e, nil, factors)
	if err != nil {
		return nil, err
	}
	return &key.Solution{PrivateKey: pk, AttackName: "known_phi"}, nil
}

// factorMultiFromPhi splits a multi-prime n using its totient. For a
// random base w, the values w^(phi/2^i) are square roots of 1; any
// nontrivial one exposes a factor through gcd. Composite pieces go back
// on an explicit work stack until everything left is prime.
func factorMultiFromPhi(ctx context.Context, n, phi *big.Int) ([]*big.Int, bool) {
	stack := []*big.Int{new(big.Int).Set(n)}
	var primes []*big.Int

	for rounds := 0; len(stack) > 0; rounds++ {
		if rounds >= knownPhiMaxRounds || cancelled(ctx) {
			return nil, false
		}

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.Cmp(big1) == 0 {
			continue
		}
		if cur.ProbablyPrime(30) {
			primes = append(primes, cur)
			continue
		}

		// w in [2, cur-3]
		w, err := ntheory.RandomPositiveInt(new(big.Int).Sub(cur, big3))
		if err != nil {
			return nil, false
		}
		w.Add(w, big1)

		split := false
		exp := new(big.Int).Set(phi)
		pow2 := new(big.Int).Set(big2)
		for new(big.Int).Mod(phi, pow2).Sign() == 0 {
			exp.Div(phi, pow2)
			sqrt1 := new(big.Int).Exp(w, exp, cur)
			curMinus1 := new(big.Int).Sub(cur, big1)
			if sqrt1.Cmp(big1) > 0 && sqrt1.Cmp(curMinus1) != 0 {
				p := ntheory.Gcd(new(big.Int).Add(sqrt1, big1), cur)
				if p.Cmp(big1) > 0 && p.Cmp(cur) < 0 {
					stack = append(stack, p, new(big.Int).Div(cur, p))
					split = true
					break
				}
			}
			pow2.Lsh(pow2, 1)
		}
		if !split {
			// Unlucky base, retry cur with a fresh w.
			stack = append(stack, cur)
		}
	}

	if len(primes) < 2 {
		return nil, false
	}
	return primes, true
}
