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

// LeakedCRTExponent factors n from a single CRT exponent: for any base
// g, g^(e*dp) = g mod p, so gcd(2^(e*dp) - 2, n) is (a multiple of) p.
// Either dp or dq works.
var LeakedCRTExponent = attack.New("leaked_crt_exponent", attack.Fast, attack.KnownExtraInfo, runLeakedCRTExponent)

func runLeakedCRTExponent(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	dp := params.Dp
	if dp == nil {
		dp = params.Dq
	}
	if dp == nil {
		return nil, attack.ErrMissingParameters
	}
	n, e := params.N, effectiveE(params)

	exp := new(big.Int).Mul(e, dp)
	x := new(big.Int).Exp(big2, exp, n)
	x.Sub(x, big2)
	p := ntheory.Gcd(x, n)
	if p.Cmp(big1) <= 0 || p.Cmp(n) >= 0 {
		return nil, attack.ErrNotFound
	}
	q, rem := new(big.Int).QuoRem(n, p, new(big.Int))
	if rem.Sign() != 0 {
		return nil, attack.ErrNotFound
	}
	return solutionFromPQ("leaked_crt_exponent", params, p, q)
}
