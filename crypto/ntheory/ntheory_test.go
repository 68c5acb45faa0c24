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

import (
	"crypto/rand"
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func TestNtheory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ntheory Suite")
}

func big_(i int64) *big.Int { return big.NewInt(i) }

var _ = Describe("Ntheory", func() {
	DescribeTable("Gcd()", func(a, b int64, expected int64) {
		Expect(Gcd(big_(a), big_(b))).Should(Equal(big_(expected)))
	},
		Entry("coprime", int64(35), int64(64), int64(1)),
		Entry("common factor", int64(54), int64(24), int64(6)),
		Entry("zero", int64(0), int64(5), int64(5)),
	)

	DescribeTable("Lcm()", func(a, b int64, expected int64, expectErr bool) {
		got, err := Lcm(big_(a), big_(b))
		if expectErr {
			Expect(err).ShouldNot(BeNil())
			return
		}
		Expect(err).Should(BeNil())
		Expect(got).Should(Equal(big_(expected)))
	},
		Entry("basic", int64(4), int64(6), int64(12), false),
		Entry("non-positive", int64(-4), int64(6), int64(0), true),
	)

	DescribeTable("IsPerfectSquare()", func(n int64, isSquare bool) {
		_, ok := IsPerfectSquare(big_(n))
		Expect(ok).Should(Equal(isSquare))
	},
		Entry("0", int64(0), true),
		Entry("1", int64(1), true),
		Entry("144", int64(144), true),
		Entry("143", int64(143), false),
		Entry("negative", int64(-4), false),
	)

	DescribeTable("NthRoot()", func(n int64, k int64, expected int64) {
		Expect(NthRoot(big_(n), k)).Should(Equal(big_(expected)))
	},
		Entry("cube of 27", int64(27), int64(3), int64(3)),
		Entry("cube root rounds down", int64(26), int64(3), int64(2)),
		Entry("square", int64(100), int64(2), int64(10)),
		Entry("large power", int64(1024), int64(10), int64(2)),
	)

	DescribeTable("NthRootRem()", func(n int64, k int64, expectedRoot, expectedRem int64) {
		root, rem := NthRootRem(big_(n), k)
		Expect(root).Should(Equal(big_(expectedRoot)))
		Expect(rem.Cmp(big_(expectedRem))).Should(Equal(0))
	},
		Entry("exact", int64(27), int64(3), int64(3), int64(0)),
		Entry("with remainder", int64(30), int64(3), int64(3), int64(3)),
	)

	DescribeTable("IsPerfectPower()", func(n int64, expectOk bool) {
		_, _, ok := IsPerfectPower(big_(n))
		Expect(ok).Should(Equal(expectOk))
	},
		Entry("2^10", int64(1024), true),
		Entry("3^5", int64(243), true),
		Entry("prime", int64(97), false),
	)

	DescribeTable("LogBaseCeil()", func(n int64, base int64, expected int64) {
		Expect(LogBaseCeil(big_(n), base)).Should(Equal(expected))
	},
		Entry("n<=1", int64(1), int64(2), int64(0)),
		Entry("exact power", int64(8), int64(2), int64(3)),
		Entry("rounds up", int64(9), int64(2), int64(4)),
	)

	It("round-trips continued fractions through convergents", func() {
		x, y := big_(17993), big_(90581)
		cf := RationalToContfrac(x, y)
		num, den := ContfracToRational(cf)
		Expect(num).Should(Equal(x))
		Expect(den).Should(Equal(y))

		nums, dens := ConvergentsFromContfrac(cf)
		Expect(nums[len(nums)-1]).Should(Equal(x))
		Expect(dens[len(dens)-1]).Should(Equal(y))
	})

	It("solves CRT for pairwise coprime moduli", func() {
		x, ok := CRT([]*big.Int{big_(2), big_(3), big_(2)}, []*big.Int{big_(3), big_(5), big_(7)})
		Expect(ok).Should(BeTrue())
		Expect(x).Should(Equal(big_(23)))
	})

	It("fails CRT when moduli are not coprime", func() {
		_, ok := CRT([]*big.Int{big_(1), big_(1)}, []*big.Int{big_(4), big_(6)})
		Expect(ok).Should(BeFalse())
	})

	DescribeTable("SolveQuadratic()", func(a, b, c int64, expectedRoots []int64) {
		roots := SolveQuadratic(big_(a), big_(b), big_(c))
		Expect(len(roots)).Should(Equal(len(expectedRoots)))
		for i, r := range expectedRoots {
			Expect(roots[i]).Should(Equal(big_(r)))
		}
	},
		Entry("x^2-5x+6=0 -> 2,3", int64(1), int64(-5), int64(6), []int64{3, 2}),
		Entry("no real roots", int64(1), int64(0), int64(1), []int64(nil)),
		Entry("double root", int64(1), int64(-2), int64(1), []int64{1}),
	)

	It("recovers p,q from n and phi", func() {
		p, q := big_(54269), big_(93089)
		n := new(big.Int).Mul(p, q)
		phi := new(big.Int).Mul(new(big.Int).Sub(p, big1), new(big.Int).Sub(q, big1))
		gotP, gotQ, ok := FactorFromNPhi(n, phi)
		Expect(ok).Should(BeTrue())
		Expect(gotP).Should(Equal(p))
		Expect(gotQ).Should(Equal(q))
	})

	It("generates a safe prime whose Q is also prime", func() {
		sp, err := GenerateRandomSafePrime(rand.Reader, 64)
		Expect(err).Should(BeNil())
		Expect(sp.P.ProbablyPrime(20)).Should(BeTrue())
		Expect(sp.Q.ProbablyPrime(20)).Should(BeTrue())
		twoQPlus1 := new(big.Int).Add(new(big.Int).Lsh(sp.Q, 1), big1)
		Expect(sp.P).Should(Equal(twoQPlus1))
	})
})
