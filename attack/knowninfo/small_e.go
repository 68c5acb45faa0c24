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

// smallEMaxK bounds how many multiples of n are added back to c before
// giving up on an exact e-th root.
const smallEMaxK = 10_000

// CubeRoot handles unpadded messages so short that m^e never wrapped
// around n: the plaintext is simply the integer e-th root of c, found
// by Newton's method (ntheory.NthRoot).
var CubeRoot = attack.New("cube_root", attack.Fast, attack.Standard, runCubeRoot)

func runCubeRoot(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	e := effectiveE(params)
	if !isSmallExponent(e) {
		return nil, attack.ErrNotFound
	}
	if params.C == nil {
		return nil, attack.ErrMissingParameters
	}
	c := params.C

	root := ntheory.NthRoot(c, e.Int64())
	if new(big.Int).Exp(root, e, nil).Cmp(c) != 0 {
		return nil, attack.ErrNotFound
	}
	return &key.Solution{M: root, AttackName: "cube_root"}, nil
}

// SmallE extends cube_root to messages that wrapped a few times: for
// small k, test whether c + k*n is a perfect e-th power.
var SmallE = attack.New("small_e", attack.Fast, attack.Standard, runSmallE)

func runSmallE(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	e := effectiveE(params)
	if !isSmallExponent(e) {
		return nil, attack.ErrNotFound
	}
	if params.N == nil || params.C == nil {
		return nil, attack.ErrMissingParameters
	}
	n, c := params.N, params.C

	progress.SetLength(smallEMaxK)
	enc := new(big.Int).Set(c)
	for k := int64(1); k < smallEMaxK; k++ {
		if k%100 == 0 {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			progress.SetPosition(k)
		}
		enc.Add(enc, n)
		root := ntheory.NthRoot(enc, e.Int64())
		if new(big.Int).Exp(root, e, nil).Cmp(enc) == 0 {
			return &key.Solution{M: root, AttackName: "small_e"}, nil
		}
	}
	return nil, attack.ErrNotFound
}

func isSmallExponent(e *big.Int) bool {
	return e.IsInt64() && (e.Int64() == 3 || e.Int64() == 5)
}
