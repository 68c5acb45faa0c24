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

// Package knowninfo collects the attacks that exploit leaked side
// information about a single key: the totient, the private exponent or
// some of its bits, CRT exponents and coefficients, partial factors,
// or structural facts like a prime modulus or a tiny public exponent.
package knowninfo

import (
	"context"
	"math/big"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/key"
)

var (
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
	big3 = big.NewInt(3)
)

func progressOrNoop(p attack.Progress) attack.Progress {
	if p == nil {
		return attack.NoopProgress{}
	}
	return p
}

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// effectiveE returns params.E, defaulting to key.DefaultE.
func effectiveE(params *key.Parameters) *big.Int {
	if params.E != nil {
		return params.E
	}
	return big.NewInt(key.DefaultE)
}

// solutionFromPQ validates a recovered factor pair and wraps it in a
// Solution.
func solutionFromPQ(name string, params *key.Parameters, p, q *big.Int) (*key.Solution, error) {
	pk, err := key.NewPrivateKey(params.N, effectiveE(params), nil, p, q, nil)
	if err != nil {
		return nil, err
	}
	return &key.Solution{PrivateKey: pk, AttackName: name}, nil
}
