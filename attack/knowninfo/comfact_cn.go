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

// ComfactCN covers the case where the ciphertext itself shares a factor
// with the modulus: p = gcd(c, n).
var ComfactCN = attack.New("comfact_cn", attack.Fast, attack.Standard, runComfactCN)

func runComfactCN(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	if params.N == nil || params.C == nil {
		return nil, attack.ErrMissingParameters
	}
	n, c := params.N, params.C

	p := ntheory.Gcd(c, n)
	if p.Cmp(big1) <= 0 || p.Cmp(n) >= 0 {
		return nil, attack.ErrNotFound
	}
	q := new(big.Int).Div(n, p)
	return solutionFromPQ("comfact_cn", params, p, q)
}
