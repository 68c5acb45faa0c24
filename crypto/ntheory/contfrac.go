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

// RationalToContfrac expands x/y into its finite continued-fraction
// representation [a0; a1, a2, ...].
func RationalToContfrac(x, y *big.Int) []*big.Int {
	a := new(big.Int).Set(x)
	b := new(big.Int).Set(y)
	var terms []*big.Int
	for b.Sign() != 0 {
		q, r := new(big.Int), new(big.Int)
		q.DivMod(a, b, r)
		terms = append(terms, q)
		a, b = b, r
	}
	return terms
}

// ContfracToRational inverts a continued fraction back into x/y.
func ContfracToRational(cf []*big.Int) (*big.Int, *big.Int) {
	if len(cf) == 0 {
		return big.NewInt(0), big.NewInt(1)
	}
	num := new(big.Int).Set(cf[len(cf)-1])
	den := big.NewInt(1)
	for i := len(cf) - 2; i >= 0; i-- {
		num, den = den, num
		num = new(big.Int).Add(num, new(big.Int).Mul(cf[i], den))
	}
	return num, den
}

// ConvergentsFromContfrac returns the successive convergents p_i/q_i of a
// continued fraction, via the standard linear recurrence
// h_i = a_i*h_{i-1} + h_{i-2}.
func ConvergentsFromContfrac(cf []*big.Int) ([]*big.Int, []*big.Int) {
	nums := make([]*big.Int, len(cf))
	dens := make([]*big.Int, len(cf))
	hPrev2, hPrev1 := big.NewInt(0), big.NewInt(1)
	kPrev2, kPrev1 := big.NewInt(1), big.NewInt(0)
	for i, a := range cf {
		h := new(big.Int).Add(new(big.Int).Mul(a, hPrev1), hPrev2)
		k := new(big.Int).Add(new(big.Int).Mul(a, kPrev1), kPrev2)
		nums[i], dens[i] = h, k
		hPrev2, hPrev1 = hPrev1, h
		kPrev2, kPrev1 = kPrev1, k
	}
	return nums, dens
}
