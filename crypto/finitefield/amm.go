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

// ErrRootDegreeTooLarge is returned by RthRoots when r exceeds the bound
// the brute-force discrete-log fallback can cover.
var ErrRootDegreeTooLarge = errors.New("root degree too large for discrete-log fallback")

// maxRootDegree bounds r for RthRoots; beyond it the brute-force discrete
// log used to peel AMM's t>1 layers would not terminate in useful time.
const maxRootDegree = 10000

// primitiveRootCandidates bounds the search for a primitive r-th root of
// unity / non-r-th-power generator.
const primitiveRootCandidates = 1000

// RthRoots returns every x in GF(p) with x^r = delta, using the
// Adleman-Manders-Miller algorithm. It returns (nil, nil) when delta has
// no r-th root (including delta=0 and r not dividing p-1).
func RthRoots(field *PrimeField, delta *big.Int, r int) ([]*big.Int, error) {
	if r <= 0 || r > maxRootDegree {
		return nil, ErrRootDegreeTooLarge
	}
	deltaElem := field.Element(delta)
	if deltaElem.Sign() == 0 {
		return nil, nil
	}

	p := field.Order()
	pm1 := new(big.Int).Sub(p, big1)
	rBig := big.NewInt(int64(r))

	if new(big.Int).Mod(pm1, rBig).Sign() != 0 {
		return nil, nil
	}

	// p-1 = r^t * s, gcd(r,s) = 1.
	t := 0
	s := new(big.Int).Set(pm1)
	for new(big.Int).Mod(s, rBig).Sign() == 0 {
		t++
		s.Div(s, rBig)
	}
	if t == 0 {
		return nil, nil
	}

	expNonPower := new(big.Int).Div(pm1, rBig)
	rho, omega := findNonRthPower(field, expNonPower)
	if rho == nil {
		return nil, nil
	}

	if t == 1 {
		invR := new(big.Int).ModInverse(rBig, s)
		if invR == nil {
			return nil, nil
		}
		root := field.Exp(deltaElem, invR)
		if field.Exp(root, rBig).Cmp(deltaElem) != 0 {
			return nil, nil
		}
		return rootsOfUnityCoset(field, root, omega, r), nil
	}

	return rthRootsDeep(field, deltaElem, rho, omega, r, t, s, pm1)
}

// findNonRthPower scans small integers for one that is not an r-th
// power: its exp-th power omega (exp = (p-1)/r) is not 1, which makes
// omega a primitive r-th root of unity. Both the base and omega are
// returned; (nil, nil) when the scan bound is exhausted.
func findNonRthPower(field *PrimeField, exp *big.Int) (base, omega *big.Int) {
	for candidate := int64(2); candidate < primitiveRootCandidates; candidate++ {
		b := field.Element(big.NewInt(candidate))
		w := field.Exp(b, exp)
		if w.Cmp(big1) != 0 {
			return b, w
		}
	}
	return nil, nil
}

// rootsOfUnityCoset returns root*omega^i for i in [0,r).
func rootsOfUnityCoset(field *PrimeField, root, omega *big.Int, r int) []*big.Int {
	roots := make([]*big.Int, 0, r)
	current := root
	for i := 0; i < r; i++ {
		roots = append(roots, new(big.Int).Set(current))
		current = field.Mul(current, omega)
	}
	return roots
}

// rthRootsDeep handles p-1 = r^t*s with t>1: each of the t-1 extra
// layers is peeled off by a discrete log in the order-r subgroup of
// roots of unity, with the log found by brute force (bounded by
// maxRootDegree above). rho is a non-r-th power and omega its
// ((p-1)/r)-th power; omega = rho^(r^(t-1)*s) therefore has order
// exactly r and generates that subgroup.
func rthRootsDeep(field *PrimeField, deltaElem, rho, omega *big.Int, r, t int, s, pm1 *big.Int) ([]*big.Int, error) {
	rBig := big.NewInt(int64(r))
	a := omega

	k := big.NewInt(1)
	for {
		lhs := new(big.Int).Mod(new(big.Int).Add(new(big.Int).Mul(k, s), big1), rBig)
		if lhs.Sign() == 0 {
			break
		}
		k.Add(k, big1)
	}
	alpha := new(big.Int).Div(new(big.Int).Add(new(big.Int).Mul(k, s), big1), rBig)

	bExp := new(big.Int).Sub(new(big.Int).Mul(rBig, alpha), big1)
	b := field.Exp(deltaElem, bExp)
	c := field.Exp(rho, s)
	h := big.NewInt(1)

	for i := 1; i < t; i++ {
		rPow := new(big.Int).Exp(rBig, big.NewInt(int64(t-1-i)), nil)
		expD := new(big.Int).Mod(rPow, pm1)
		d := field.Exp(b, expD)

		j := big.NewInt(0)
		if d.Cmp(big1) != 0 {
			dInv := field.Inverse(d)
			if dInv != nil {
				j = bruteForceDiscreteLog(field, a, dInv, r)
			}
		}

		cR := field.Exp(c, rBig)
		b = field.Mul(b, field.Exp(cR, j))
		h = field.Mul(h, field.Exp(c, j))
		c = cR
	}

	root := field.Mul(field.Exp(deltaElem, alpha), h)
	if field.Exp(root, rBig).Cmp(deltaElem) != 0 {
		return nil, nil
	}
	return rootsOfUnityCoset(field, root, omega, r), nil
}

// bruteForceDiscreteLog finds j in [0,r) with a^j = target, or 0 if none
// is found within the bound. Tractable because the search space is the
// order-r subgroup generated by a, not the full field.
func bruteForceDiscreteLog(field *PrimeField, a, target *big.Int, r int) *big.Int {
	power := big.NewInt(1)
	for j := 0; j < r; j++ {
		if power.Cmp(target) == 0 {
			return big.NewInt(int64(j))
		}
		power = field.Mul(power, a)
	}
	return big.NewInt(0)
}
