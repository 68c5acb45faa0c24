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

// leakedCRTCoefficientMaxK bounds the scan for phi candidates when only
// d is known: k = (e*d - 1)/phi is close to e, so the scan is short in
// practice.
const leakedCRTCoefficientMaxK = 1_000_000

// LeakedCRTCoefficient recovers p and q from both CRT coefficients plus
// the totient (or the private exponent, from which totient candidates
// are derived). With x = q - 1, the identity pinv*p + qinv*q = 1 mod n
// collapses to the quadratic (qinv-1)x^2 + (pinv+qinv-2-phi)x +
// (pinv-1)*phi = 0.
var LeakedCRTCoefficient = attack.New("leaked_crt_coefficient", attack.Fast, attack.KnownExtraInfo, runLeakedCRTCoefficient)

func runLeakedCRTCoefficient(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	if params.Qinv == nil || params.Pinv == nil {
		return nil, attack.ErrMissingParameters
	}
	e := effectiveE(params)
	qinv, pinv := params.Qinv, params.Pinv

	if params.Phi != nil {
		p, q, ok := pqFromPhiAndCoefficients(params.Phi, qinv, pinv)
		if !ok {
			return nil, attack.ErrNotFound
		}
		return leakedCRTCoefficientSolution(params, e, p, q)
	}

	if params.D == nil {
		return nil, attack.ErrMissingParameters
	}
	d := params.D
	kfi := new(big.Int).Mul(e, d)
	kfi.Sub(kfi, big1)

	// k = ed-1 / phi is at least (ed-1)/(3d)-ish since phi > n/3 would
	// be guaranteed for balanced factors; start just below and scan up.
	k := new(big.Int).Div(kfi, new(big.Int).Mul(d, big3))
	k.Sub(k, big1)
	for i := 0; i < leakedCRTCoefficientMaxK; i++ {
		if i%1000 == 0 && cancelled(ctx) {
			return nil, attack.ErrNotFound
		}
		k.Add(k, big1)
		if k.Sign() <= 0 {
			continue
		}
		phi := new(big.Int).Div(kfi, k)
		if phi.Sign() <= 0 {
			break
		}
		d0 := ntheory.ModInverse(e, phi)
		if d0 == nil || d0.Cmp(d) != 0 {
			continue
		}
		if p, q, ok := pqFromPhiAndCoefficients(phi, qinv, pinv); ok {
			return leakedCRTCoefficientSolution(params, e, p, q)
		}
	}
	return nil, attack.ErrNotFound
}

// pqFromPhiAndCoefficients solves the coefficient quadratic for x = q-1
// and rebuilds p from phi.
func pqFromPhiAndCoefficients(phi, qinv, pinv *big.Int) (p, q *big.Int, ok bool) {
	a := new(big.Int).Sub(qinv, big1)
	b := new(big.Int).Add(pinv, qinv)
	b.Sub(b, big2)
	b.Sub(b, phi)
	c := new(big.Int).Sub(pinv, big1)
	c.Mul(c, phi)

	for _, x := range ntheory.SolveQuadratic(a, b, c) {
		if x.Sign() <= 0 {
			continue
		}
		q := new(big.Int).Add(x, big1)
		if !q.ProbablyPrime(30) {
			continue
		}
		p := new(big.Int).Div(phi, x)
		p.Add(p, big1)
		return p, q, true
	}
	return nil, nil, false
}

func leakedCRTCoefficientSolution(params *key.Parameters, e, p, q *big.Int) (*key.Solution, error) {
	n := params.N
	if n == nil {
		n = new(big.Int).Mul(p, q)
	}
	derived := &key.Parameters{N: n, E: e, C: params.C}
	return solutionFromPQ("leaked_crt_coefficient", derived, p, q)
}
