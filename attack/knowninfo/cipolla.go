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
	"github.com/getamis/rsacracker/crypto/finitefield"
	"github.com/getamis/rsacracker/crypto/ntheory"
	"github.com/getamis/rsacracker/key"
)

// Cipolla handles a prime modulus with an even exponent e = 2*e':
// decrypt with d = (e/2)^-1 mod ((n-1)/2) to obtain m^2, then extract
// both square roots in GF(n) with Cipolla's algorithm.
var Cipolla = attack.New("cipolla", attack.Medium, attack.Standard, runCipolla)

func runCipolla(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	if params.N == nil || params.C == nil {
		return nil, attack.ErrMissingParameters
	}
	n, c, e := params.N, params.C, effectiveE(params)

	if e.Bit(0) != 0 || !n.ProbablyPrime(30) {
		return nil, attack.ErrNotFound
	}

	halfPhi := new(big.Int).Rsh(new(big.Int).Sub(n, big1), 1)
	halfE := new(big.Int).Rsh(e, 1)
	d := ntheory.ModInverse(halfE, halfPhi)
	if d == nil {
		return nil, attack.ErrNotFound
	}
	mSquared := new(big.Int).Exp(c, d, n)

	m1, m2, err := finitefield.Cipolla(mSquared, n)
	if err != nil {
		return nil, attack.ErrNotFound
	}
	return &key.Solution{Ms: []*big.Int{m1, m2}, AttackName: "cipolla"}, nil
}
