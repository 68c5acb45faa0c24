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

// NonCoprimeExp recovers candidate plaintexts when gcd(e, phi) > 1, so
// no private exponent exists. With phi/e coprime to a prime e the
// plaintexts form a coset of the order-e subgroup; otherwise n is
// factored from phi and e-th roots are extracted per factor with
// Adleman-Manders-Miller, then lifted by CRT.
var NonCoprimeExp = attack.New("non_coprime_exp", attack.Fast, attack.KnownExtraInfo, runNonCoprimeExp)

func runNonCoprimeExp(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	if params.N == nil || params.Phi == nil || params.C == nil {
		return nil, attack.ErrMissingParameters
	}
	e := effectiveE(params)
	if !e.IsInt64() {
		return nil, attack.ErrNotFound
	}
	n, phi, c := params.N, params.Phi, params.C

	if new(big.Int).Mod(phi, e).Sign() != 0 {
		return nil, attack.ErrNotFound
	}

	reduced := new(big.Int).Div(phi, e)
	if ntheory.Gcd(reduced, e).Cmp(big1) == 0 {
		return nonCoprimeSubgroup(ctx, n, e, reduced, c)
	}
	return nonCoprimeGeneral(ctx, params, n, e, phi, c)
}

// nonCoprimeSubgroup handles prime e with phi/e coprime to e: find a
// generator g of the order-e subgroup, decrypt with d' = e^-1 mod
// (phi/e), and enumerate the e candidates a*g^i.
func nonCoprimeSubgroup(ctx context.Context, n, e, reduced, c *big.Int) (*key.Solution, error) {
	if !e.ProbablyPrime(30) {
		return nil, attack.ErrNotFound
	}

	g := big.NewInt(1)
	ge := big.NewInt(1)
	for ge.Cmp(big1) == 0 {
		if cancelled(ctx) {
			return nil, attack.ErrNotFound
		}
		g.Add(g, big1)
		ge = new(big.Int).Exp(g, reduced, n)
	}

	d := ntheory.ModInverse(e, reduced)
	if d == nil {
		return nil, attack.ErrNotFound
	}
	a := new(big.Int).Exp(c, d, n)

	count := e.Int64()
	ms := make([]*big.Int, 0, count)
	l := new(big.Int).Set(ge)
	for i := int64(0); i < count; i++ {
		ms = append(ms, new(big.Int).Mod(new(big.Int).Mul(a, l), n))
		l.Mul(l, ge)
		l.Mod(l, n)
	}
	return &key.Solution{Ms: ms, AttackName: "non_coprime_exp"}, nil
}

// nonCoprimeGeneral factors n from phi, extracts the e-th roots of c in
// GF(p) and GF(q), and combines every pair by CRT.
func nonCoprimeGeneral(ctx context.Context, params *key.Parameters, n, e, phi, c *big.Int) (*key.Solution, error) {
	p, q, ok := ntheory.FactorFromNPhi(n, phi)
	if !ok {
		return nil, attack.ErrNotFound
	}

	mps, err := rootsModPrime(c, e, p)
	if err != nil {
		return nil, err
	}
	mqs, err := rootsModPrime(c, e, q)
	if err != nil {
		return nil, err
	}
	if len(mps) == 0 || len(mqs) == 0 {
		return nil, attack.ErrNotFound
	}

	var ms []*big.Int
	for _, mp := range mps {
		for _, mq := range mqs {
			if m, ok := ntheory.CRT([]*big.Int{mp, mq}, []*big.Int{p, q}); ok {
				ms = append(ms, m)
			}
		}
	}
	if len(ms) == 0 {
		return nil, attack.ErrNotFound
	}
	return &key.Solution{Ms: ms, AttackName: "non_coprime_exp"}, nil
}

// rootsModPrime returns the e-th roots of c modulo the prime p: a
// single root by inversion when e does not divide p-1, the full AMM
// root set otherwise.
func rootsModPrime(c, e, p *big.Int) ([]*big.Int, error) {
	pm1 := new(big.Int).Sub(p, big1)
	cp := new(big.Int).Mod(c, p)

	if new(big.Int).Mod(pm1, e).Sign() != 0 {
		d := ntheory.ModInverse(e, pm1)
		if d == nil {
			return nil, nil
		}
		return []*big.Int{new(big.Int).Exp(cp, d, p)}, nil
	}

	field, err := finitefield.NewPrimeField(p)
	if err != nil {
		return nil, attack.ErrNotFound
	}
	roots, err := finitefield.RthRoots(field, cp, int(e.Int64()))
	if err != nil {
		return nil, attack.ErrNotFound
	}
	return roots, nil
}
