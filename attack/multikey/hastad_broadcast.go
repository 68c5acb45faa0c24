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

package multikey

import (
	"context"
	"math/big"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/crypto/ntheory"
	"github.com/getamis/rsacracker/key"
)

// HastadBroadcast combines at least e ciphertexts of one message under
// pairwise-coprime moduli: CRT yields m^e over the product modulus,
// which no longer wraps, so the integer e-th root is the plaintext.
var HastadBroadcast = attack.New("hastad_broadcast", attack.Fast, attack.MultiKey, runHastadBroadcast)

func runHastadBroadcast(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	e := params.E
	if e == nil {
		e = big.NewInt(key.DefaultE)
	}
	if !e.IsInt64() {
		return nil, attack.ErrNotFound
	}

	var ciphertexts, moduli []*big.Int
	if params.N != nil && params.C != nil {
		ciphertexts = append(ciphertexts, params.C)
		moduli = append(moduli, params.N)
	}
	for _, k := range params.Keys {
		if k.E == nil || k.E.Cmp(e) != 0 {
			continue
		}
		if k.N != nil && k.C != nil {
			ciphertexts = append(ciphertexts, k.C)
			moduli = append(moduli, k.N)
		}
	}

	if int64(len(ciphertexts)) < e.Int64() {
		return nil, attack.ErrMissingParameters
	}
	for i := 0; i < len(moduli); i++ {
		for j := i + 1; j < len(moduli); j++ {
			if ntheory.Gcd(moduli[i], moduli[j]).Cmp(big1) != 0 {
				return nil, attack.ErrNotFound
			}
		}
	}

	mToE, ok := ntheory.CRT(ciphertexts, moduli)
	if !ok {
		return nil, attack.ErrNotFound
	}
	m := ntheory.NthRoot(mToE, e.Int64())
	if new(big.Int).Exp(m, e, nil).Cmp(mToE) == 0 {
		return &key.Solution{M: m, AttackName: "hastad_broadcast"}, nil
	}
	// A defensive second check one above the floor root.
	m.Add(m, big1)
	if new(big.Int).Exp(m, e, nil).Cmp(mToE) == 0 {
		return &key.Solution{M: m, AttackName: "hastad_broadcast"}, nil
	}
	return nil, attack.ErrNotFound
}
