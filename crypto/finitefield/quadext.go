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

import "math/big"

// QuadraticExtension represents GF(p)[x]/(x^2-omega), elements a+b*x.
type QuadraticExtension struct {
	field *PrimeField
	omega *big.Int
}

// QuadExtElement is a+b*x in GF(p)[x]/(x^2-omega).
type QuadExtElement struct {
	A, B *big.Int
}

// NewQuadraticExtension builds GF(p)[x]/(x^2-omega).
func NewQuadraticExtension(field *PrimeField, omega *big.Int) *QuadraticExtension {
	return &QuadraticExtension{field: field, omega: field.Element(omega)}
}

// Elem builds the reduced element a+b*x.
func (q *QuadraticExtension) Elem(a, b *big.Int) QuadExtElement {
	return QuadExtElement{A: q.field.Element(a), B: q.field.Element(b)}
}

// Mul returns x*y in the extension: (a1+b1*t)(a2+b2*t) = (a1a2+b1b2*omega) + (a1b2+a2b1)*t.
func (q *QuadraticExtension) Mul(x, y QuadExtElement) QuadExtElement {
	f := q.field
	a := f.Add(f.Mul(x.A, y.A), f.Mul(f.Mul(x.B, y.B), q.omega))
	b := f.Add(f.Mul(x.A, y.B), f.Mul(x.B, y.A))
	return QuadExtElement{A: a, B: b}
}

// Square returns x*x in the extension.
func (q *QuadraticExtension) Square(x QuadExtElement) QuadExtElement {
	return q.Mul(x, x)
}

// Pow returns x^e in the extension via square-and-multiply.
func (q *QuadraticExtension) Pow(x QuadExtElement, e *big.Int) QuadExtElement {
	result := q.Elem(big1, big0)
	base := x
	exp := new(big.Int).Set(e)
	zero := big.NewInt(0)
	for exp.Cmp(zero) > 0 {
		if exp.Bit(0) == 1 {
			result = q.Mul(result, base)
		}
		base = q.Square(base)
		exp.Rsh(exp, 1)
	}
	return result
}
