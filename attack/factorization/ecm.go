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

package factorization

import (
	"context"
	"math/big"
	"math/rand"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/crypto/ntheory"
	"github.com/getamis/rsacracker/key"
)

const (
	ecmMaxDepth = 4
	ecmCurves   = 100
	ecmSeed     = 1234
)

// ecmOptimalB1 is the stage-1 bound per target factor size, one entry
// per 5 decimal digits starting at 15.
var ecmOptimalB1 = []int64{
	2_000,      // 15 digits
	11_000,     // 20 digits
	50_000,     // 25 digits
	250_000,    // 30 digits
	1_000_000,  // 35 digits
	3_000_000,  // 40 digits
	11_000_000, // 45 digits
	44_000_000, // 50 digits
}

// ECM is Lenstra's elliptic-curve factorization. Curves are chosen from
// a deterministic seed; composite factors are refined with larger
// stage-1 bounds up to ecmMaxDepth levels, on an explicit work stack.
var ECM = attack.New("ecm", attack.Slow, attack.Standard, runECM)

func runECM(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}

	type pending struct {
		m     *big.Int
		depth int
	}
	stack := []pending{{m: new(big.Int).Set(params.N), depth: 0}}
	var primes []*big.Int
	rnd := rand.New(rand.NewSource(ecmSeed))

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.m.Cmp(big1) == 0 {
			continue
		}
		if cur.m.ProbablyPrime(30) {
			primes = append(primes, cur.m)
			continue
		}
		if cur.depth >= ecmMaxDepth {
			return nil, attack.ErrNotFound
		}

		factor := ecmFindFactor(ctx, cur.m, ecmB1For(cur.m, cur.depth), rnd, progress)
		if factor == nil {
			return nil, attack.ErrNotFound
		}
		other := new(big.Int).Div(cur.m, factor)
		stack = append(stack,
			pending{m: factor, depth: cur.depth + 1},
			pending{m: other, depth: cur.depth + 1},
		)
	}

	if len(primes) < 2 {
		return nil, attack.ErrNotFound
	}
	return solutionFromFactors("ecm", params, primes)
}

// ecmB1For picks the stage-1 bound from the digit count of the smallest
// factor worth hoping for (roughly half of m's digits), bumped by the
// refinement depth.
func ecmB1For(m *big.Int, depth int) int64 {
	digits := len(m.Text(10)) / 2
	idx := (digits - 15) / 5
	if idx < 0 {
		idx = 0
	}
	idx += depth
	if idx >= len(ecmOptimalB1) {
		idx = len(ecmOptimalB1) - 1
	}
	return ecmOptimalB1[idx]
}

// ecmFindFactor runs up to ecmCurves random curves in short Weierstrass
// form over Z/nZ. Stage 1 multiplies a random point by every prime
// power below b1; a failed modular inversion along the way exposes a
// nontrivial gcd with n, which is exactly the factor sought.
func ecmFindFactor(ctx context.Context, n *big.Int, b1 int64, rnd *rand.Rand, progress attack.Progress) *big.Int {
	b1Big := big.NewInt(b1)
	progress.SetLength(ecmCurves)

	for curve := 0; curve < ecmCurves; curve++ {
		if cancelled(ctx) {
			return nil
		}
		progress.SetPosition(int64(curve))

		// Random curve y^2 = x^3 + ax + b through a random point.
		a := randomBelow(rnd, n)
		x := randomBelow(rnd, n)
		y := randomBelow(rnd, n)

		px, py := new(big.Int).Set(x), new(big.Int).Set(y)
		infinity := false

		for _, prime := range firstPrimes() {
			if prime.Cmp(b1Big) > 0 {
				break
			}
			// Raise to the largest power of prime below b1.
			k := new(big.Int).Set(prime)
			for new(big.Int).Mul(k, prime).Cmp(b1Big) <= 0 {
				k.Mul(k, prime)
			}

			var g *big.Int
			px, py, infinity, g = ecmScalarMul(n, a, px, py, k)
			if g != nil {
				if isNontrivialFactor(g, n) {
					return g
				}
				// g == n: the whole group order collapsed, try another curve.
				infinity = true
			}
			if infinity {
				break
			}
		}
	}
	return nil
}

// ecmScalarMul computes k*P by double-and-add in affine coordinates.
// When a slope denominator is not invertible mod n it returns its gcd
// with n instead of a point.
func ecmScalarMul(n, a, px, py, k *big.Int) (rx, ry *big.Int, infinity bool, g *big.Int) {
	// Accumulator starts at the identity.
	var accX, accY *big.Int
	accInf := true
	qx, qy := new(big.Int).Set(px), new(big.Int).Set(py)
	qInf := false

	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			var gg *big.Int
			accX, accY, accInf, gg = ecmAdd(n, a, accX, accY, accInf, qx, qy, qInf)
			if gg != nil {
				return nil, nil, false, gg
			}
		}
		var gg *big.Int
		qx, qy, qInf, gg = ecmAdd(n, a, qx, qy, qInf, qx, qy, qInf)
		if gg != nil {
			return nil, nil, false, gg
		}
	}
	return accX, accY, accInf, nil
}

// ecmAdd adds two affine points on y^2 = x^3 + ax + b mod n, reporting
// a non-invertible denominator through g.
func ecmAdd(n, a, x1, y1 *big.Int, inf1 bool, x2, y2 *big.Int, inf2 bool) (x3, y3 *big.Int, inf3 bool, g *big.Int) {
	if inf1 {
		if inf2 {
			return nil, nil, true, nil
		}
		return new(big.Int).Set(x2), new(big.Int).Set(y2), false, nil
	}
	if inf2 {
		return new(big.Int).Set(x1), new(big.Int).Set(y1), false, nil
	}

	var num, den *big.Int
	if x1.Cmp(x2) == 0 {
		sum := new(big.Int).Add(y1, y2)
		sum.Mod(sum, n)
		if sum.Sign() == 0 {
			// P + (-P) = identity.
			return nil, nil, true, nil
		}
		// Tangent: (3x^2 + a) / 2y
		num = new(big.Int).Mul(x1, x1)
		num.Mul(num, big.NewInt(3))
		num.Add(num, a)
		den = new(big.Int).Lsh(y1, 1)
	} else {
		num = new(big.Int).Sub(y2, y1)
		den = new(big.Int).Sub(x2, x1)
	}
	den.Mod(den, n)

	inv := new(big.Int).ModInverse(den, n)
	if inv == nil {
		return nil, nil, false, ntheory.Gcd(den, n)
	}
	slope := new(big.Int).Mul(num, inv)
	slope.Mod(slope, n)

	x3 = new(big.Int).Mul(slope, slope)
	x3.Sub(x3, x1)
	x3.Sub(x3, x2)
	x3.Mod(x3, n)

	y3 = new(big.Int).Sub(x1, x3)
	y3.Mul(y3, slope)
	y3.Sub(y3, y1)
	y3.Mod(y3, n)
	return x3, y3, false, nil
}

func randomBelow(rnd *rand.Rand, n *big.Int) *big.Int {
	v := new(big.Int).Rand(rnd, n)
	if v.Sign() == 0 {
		v.SetInt64(1)
	}
	return v
}
