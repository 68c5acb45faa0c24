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

// Package factorization collects the attacks that recover p and q from
// n alone (or from n plus a structural hint like closeness or a known
// difference shape). Every attack here is a leaf built with attack.New;
// none share state.
package factorization

import (
	"context"
	"math/big"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/key"
)

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
	big4 = big.NewInt(4)
)

// progressOrNoop lets every attack call progress methods unconditionally.
func progressOrNoop(p attack.Progress) attack.Progress {
	if p == nil {
		return attack.NoopProgress{}
	}
	return p
}

// solutionFromFactor builds a Solution once a single nontrivial factor p
// of n has been found, deriving q = n/p. e defaults to key.DefaultE when
// absent from params.
func solutionFromFactor(name string, params *key.Parameters, p *big.Int) (*key.Solution, error) {
	n := params.N
	q := new(big.Int).Div(n, p)
	e := params.E
	if e == nil {
		e = big.NewInt(key.DefaultE)
	}
	pk, err := key.NewPrivateKey(n, e, nil, p, q, nil)
	if err != nil {
		return nil, err
	}
	return &key.Solution{PrivateKey: pk, AttackName: name}, nil
}

// solutionFromFactors builds a Solution from a full prime factorization
// (two or more primes, possibly repeated) once every factor is known to
// be prime.
func solutionFromFactors(name string, params *key.Parameters, primes []*big.Int) (*key.Solution, error) {
	if len(primes) < 2 {
		return nil, attack.ErrNotFound
	}
	e := params.E
	if e == nil {
		e = big.NewInt(key.DefaultE)
	}
	factors := key.NewFactors()
	for _, p := range primes {
		factors.Add(p, 1)
	}
	pk, err := key.NewPrivateKeyFromFactors(params.N, e, nil, factors)
	if err != nil {
		return nil, err
	}
	return &key.Solution{PrivateKey: pk, AttackName: name}, nil
}

// isNontrivialFactor reports whether g is a proper, nontrivial divisor
// of n (i.e. 1 < g < n).
func isNontrivialFactor(g, n *big.Int) bool {
	return g.Cmp(big1) > 0 && g.Cmp(n) < 0
}

// cancelled reports whether ctx has been cancelled.
func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
