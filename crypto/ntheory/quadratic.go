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

package ntheory

import "math/big"

// SolveQuadratic returns the integer roots of ax^2 + bx + c = 0. It
// returns an empty slice when the discriminant is negative, when it is
// not a perfect square, or when a is zero and b is also zero.
func SolveQuadratic(a, b, c *big.Int) []*big.Int {
	if a.Sign() == 0 {
		if b.Sign() == 0 {
			return nil
		}
		// bx + c = 0 => x = -c/b
		negC := new(big.Int).Neg(c)
		x, rem := new(big.Int).QuoRem(negC, b, new(big.Int))
		if rem.Sign() != 0 {
			return nil
		}
		return []*big.Int{x}
	}

	// discriminant = b^2 - 4ac
	disc := new(big.Int).Mul(b, b)
	disc.Sub(disc, new(big.Int).Mul(big4, new(big.Int).Mul(a, c)))
	if disc.Sign() < 0 {
		return nil
	}
	sqrtDisc, isSquare := IsPerfectSquare(disc)
	if !isSquare {
		return nil
	}

	twoA := new(big.Int).Mul(big2, a)
	var roots []*big.Int
	for _, sign := range []int64{1, -1} {
		numerator := new(big.Int).Neg(b)
		numerator.Add(numerator, new(big.Int).Mul(big.NewInt(sign), sqrtDisc))
		x, rem := new(big.Int).QuoRem(numerator, twoA, new(big.Int))
		if rem.Sign() != 0 {
			continue
		}
		roots = append(roots, x)
	}
	if len(roots) == 2 && roots[0].Cmp(roots[1]) == 0 {
		roots = roots[:1]
	}
	return roots
}

// FactorFromNPhi recovers the two factors of n given its totient phi by
// solving x^2 - (n-phi+1)x + n = 0; the roots are p and q when the
// discriminant is a perfect square. This is the classic "trivial"
// factorization from (n, phi).
func FactorFromNPhi(n, phi *big.Int) (p, q *big.Int, ok bool) {
	// b = -(n - phi + 1)
	sum := new(big.Int).Sub(n, phi)
	sum.Add(sum, big1)
	b := new(big.Int).Neg(sum)
	roots := SolveQuadratic(big1, b, n)
	if len(roots) != 2 {
		return nil, nil, false
	}
	p, q = roots[0], roots[1]
	if p.Cmp(q) > 0 {
		p, q = q, p
	}
	return p, q, true
}
