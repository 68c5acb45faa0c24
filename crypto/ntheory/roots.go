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

// Isqrt returns floor(sqrt(n)) for n >= 0.
func Isqrt(n *big.Int) *big.Int {
	return new(big.Int).Sqrt(n)
}

// IsPerfectSquare reports whether n is a perfect square and, if so,
// returns its square root.
func IsPerfectSquare(n *big.Int) (*big.Int, bool) {
	if n.Sign() < 0 {
		return nil, false
	}
	root := Isqrt(n)
	if new(big.Int).Mul(root, root).Cmp(n) == 0 {
		return root, true
	}
	return nil, false
}

// NthRoot returns floor(n^(1/k)) via Newton's method, for n >= 0, k >= 1.
func NthRoot(n *big.Int, k int64) *big.Int {
	if n.Sign() == 0 {
		return big.NewInt(0)
	}
	if k == 1 {
		return new(big.Int).Set(n)
	}
	kBig := big.NewInt(k)
	kMinus1 := big.NewInt(k - 1)

	// Initial guess: 2^ceil(bitlen(n)/k)
	guessBits := (int64(n.BitLen()) + k - 1) / k
	if guessBits < 1 {
		guessBits = 1
	}
	x := new(big.Int).Lsh(big1, uint(guessBits))

	for {
		// x_{i+1} = ((k-1)*x_i + n/x_i^(k-1)) / k
		xPow := new(big.Int).Exp(x, kMinus1, nil)
		if xPow.Sign() == 0 {
			xPow = big1
		}
		next := new(big.Int).Mul(kMinus1, x)
		next.Add(next, new(big.Int).Div(n, xPow))
		next.Div(next, kBig)
		if next.Cmp(x) >= 0 {
			break
		}
		x = next
	}
	// x now satisfies x^k <= n < (x+1)^k, but guard against off-by-one drift.
	for new(big.Int).Exp(x, kBig, nil).Cmp(n) > 0 {
		x.Sub(x, big1)
	}
	for new(big.Int).Exp(new(big.Int).Add(x, big1), kBig, nil).Cmp(n) <= 0 {
		x.Add(x, big1)
	}
	return x
}

// NthRootRem returns floor(n^(1/k)) together with the remainder
// n - root^k.
func NthRootRem(n *big.Int, k int64) (root, rem *big.Int) {
	root = NthRoot(n, k)
	rem = new(big.Int).Sub(n, new(big.Int).Exp(root, big.NewInt(k), nil))
	return root, rem
}

// IsPerfectPower reports whether n = base^k for some k >= 2, and returns
// the smallest such base together with the exponent found.
func IsPerfectPower(n *big.Int) (base *big.Int, exponent int, ok bool) {
	if n.Cmp(big2) < 0 {
		return nil, 0, false
	}
	maxK := n.BitLen()
	for k := maxK; k >= 2; k-- {
		root := NthRoot(n, int64(k))
		if root.Cmp(big1) <= 0 {
			continue
		}
		if new(big.Int).Exp(root, big.NewInt(int64(k)), nil).Cmp(n) == 0 {
			return root, k, true
		}
	}
	return nil, 0, false
}

// LogBaseCeil returns the smallest k such that base^k >= n, defined as 0
// for n <= 1.
func LogBaseCeil(n *big.Int, base int64) int64 {
	if n.Cmp(big1) <= 0 {
		return 0
	}
	b := big.NewInt(base)
	acc := big.NewInt(1)
	var k int64
	for acc.Cmp(n) < 0 {
		acc.Mul(acc, b)
		k++
	}
	return k
}
