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

package finitefield

import (
	"errors"
	"math/big"
)

// ErrNonResidue is returned when Cipolla is asked to root a non-residue.
var ErrNonResidue = errors.New("value is not a quadratic residue")

// maxCipollaSearch bounds the search for an r with r^2-a a non-residue.
const maxCipollaSearch = 1_000_000

// Cipolla finds x with x^2 = a (mod p) for prime p and quadratic residue
// a, by picking r such that r^2-a is a non-residue, then computing
// (r+sqrt(r^2-a))^((p+1)/2) in the quadratic extension GF(p)[x]/(x^2-omega);
// its real component is the square root. Returns (x, p-x) on success.
func Cipolla(a, p *big.Int) (x1, x2 *big.Int, err error) {
	field, err := NewPrimeField(p)
	if err != nil {
		return nil, nil, err
	}
	aReduced := field.Element(a)
	if aReduced.Sign() == 0 {
		return big.NewInt(0), big.NewInt(0), nil
	}

	one := big.NewInt(1)
	r := big.NewInt(1)
	var omega *big.Int
	for i := 0; i < maxCipollaSearch; i++ {
		r = r.Add(r, one)
		// omega = r^2 - a
		cand := field.Sub(field.Mul(r, r), aReduced)
		if !isResidue(cand, field) {
			omega = cand
			break
		}
	}
	if omega == nil {
		return nil, nil, ErrNonResidue
	}

	ext := NewQuadraticExtension(field, omega)
	base := ext.Elem(r, big.NewInt(1))
	exp := new(big.Int).Rsh(new(big.Int).Add(p, one), 1) // (p+1)/2
	result := ext.Pow(base, exp)

	// result.B should be 0 for a genuine residue; if not, a was not a
	// quadratic residue after all.
	if result.B.Sign() != 0 {
		return nil, nil, ErrNonResidue
	}
	x1 = result.A
	x2 = field.Sub(p, x1)
	if x2.Sign() == 0 {
		x2 = big.NewInt(0)
	}
	return x1, x2, nil
}

func isResidue(a *big.Int, field *PrimeField) bool {
	if a.Sign() == 0 {
		return true
	}
	p := field.Order()
	exp := new(big.Int).Rsh(new(big.Int).Sub(p, big1), 1)
	return field.Exp(a, exp).Cmp(big1) == 0
}
