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

// PrimeModulus handles a modulus that is itself prime: phi = n-1, so
// d = e^-1 mod (n-1) decrypts directly.
var PrimeModulus = attack.New("prime_modulus", attack.Fast, attack.Standard, runPrimeModulus)

func runPrimeModulus(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	if params.N == nil || params.C == nil {
		return nil, attack.ErrMissingParameters
	}
	n, c, e := params.N, params.C, effectiveE(params)

	if !n.ProbablyPrime(30) {
		return nil, attack.ErrNotFound
	}
	d := ntheory.ModInverse(e, new(big.Int).Sub(n, big1))
	if d == nil {
		return nil, attack.ErrNotFound
	}
	m := new(big.Int).Exp(c, d, n)
	return &key.Solution{M: m, AttackName: "prime_modulus"}, nil
}
