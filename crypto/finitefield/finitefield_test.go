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
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func TestFiniteField(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "FiniteField Suite")
}

func big_(i int64) *big.Int { return big.NewInt(i) }

var _ = Describe("PrimeField", func() {
	It("performs modular arithmetic correctly", func() {
		f, err := NewPrimeField(big_(17))
		Expect(err).Should(BeNil())
		Expect(f.Add(big_(5), big_(12))).Should(Equal(big_(0)))
		Expect(f.Sub(big_(5), big_(12))).Should(Equal(big_(10)))
		Expect(f.Mul(big_(5), big_(12))).Should(Equal(big_(9)))
		Expect(f.Inverse(big_(5))).Should(Equal(big_(7)))
	})

	It("rejects a field order too small to be useful", func() {
		_, err := NewPrimeField(big_(2))
		Expect(err).Should(Equal(ErrLessOrEqualBig2))
	})
})

var _ = Describe("Cipolla", func() {
	DescribeTable("finds a square root of a known residue", func(a, p int64) {
		f, err := NewPrimeField(big_(p))
		Expect(err).Should(BeNil())
		x1, x2, err := Cipolla(big_(a), big_(p))
		Expect(err).Should(BeNil())
		Expect(f.Mul(x1, x1)).Should(Equal(f.Element(big_(a))))
		Expect(f.Mul(x2, x2)).Should(Equal(f.Element(big_(a))))
	},
		Entry("10 mod 13", int64(10), int64(13)),
		Entry("5 mod 41", int64(5), int64(41)),
		Entry("56 mod 101", int64(56), int64(101)),
	)

	It("rejects a non-residue", func() {
		_, _, err := Cipolla(big_(2), big_(11))
		Expect(err).Should(Equal(ErrNonResidue))
	})
})

var _ = Describe("RthRoots", func() {
	It("finds all square roots (r=2, t=2 on the deep AMM path)", func() {
		// p=13: p-1=12=2^2*3, so t=2 for r=2; exercises the deep AMM path.
		p := big_(13)
		f, _ := NewPrimeField(p)
		delta := big_(10) // 6^2=36=10 mod 13, 7^2=49=10 mod 13
		roots, err := RthRoots(f, delta, 2)
		Expect(err).Should(BeNil())
		Expect(len(roots)).Should(Equal(2))
		for _, r := range roots {
			Expect(f.Mul(r, r)).Should(Equal(f.Element(delta)))
		}
	})

	It("finds all cube roots (r=3, t=1)", func() {
		// p=7: p-1=6=3^1*2, so t=1 for r=3.
		p := big_(7)
		f, _ := NewPrimeField(p)
		delta := big_(1) // 1,2,4 are the cube roots of 1 mod 7
		roots, err := RthRoots(f, delta, 3)
		Expect(err).Should(BeNil())
		Expect(len(roots)).Should(Equal(3))
		seen := map[string]bool{}
		for _, r := range roots {
			cubed := f.Mul(f.Mul(r, r), r)
			Expect(cubed).Should(Equal(f.Element(delta)))
			seen[r.String()] = true
		}
		Expect(len(seen)).Should(Equal(3))
	})

	It("finds all cube roots on the deep path (r=3, t=2)", func() {
		// p=19: p-1=18=3^2*2, so t=2 for r=3.
		p := big_(19)
		f, _ := NewPrimeField(p)
		delta := big_(8) // 2^3 = 8; the full root set is {2, 3, 14}
		roots, err := RthRoots(f, delta, 3)
		Expect(err).Should(BeNil())
		Expect(len(roots)).Should(Equal(3))
		seen := map[string]bool{}
		for _, r := range roots {
			cubed := f.Mul(f.Mul(r, r), r)
			Expect(cubed).Should(Equal(f.Element(delta)))
			seen[r.String()] = true
		}
		Expect(len(seen)).Should(Equal(3))
	})

	It("returns no roots for a non-residue on the deep path", func() {
		// 2 is not a quadratic residue mod 13.
		f, _ := NewPrimeField(big_(13))
		roots, err := RthRoots(f, big_(2), 2)
		Expect(err).Should(BeNil())
		Expect(roots).Should(BeNil())
	})

	It("returns no roots when r does not divide p-1", func() {
		p := big_(7) // p-1=6, 5 does not divide 6
		f, _ := NewPrimeField(p)
		roots, err := RthRoots(f, big_(3), 5)
		Expect(err).Should(BeNil())
		Expect(roots).Should(BeNil())
	})

	It("rejects a root degree beyond the discrete-log bound", func() {
		p := big_(7)
		f, _ := NewPrimeField(p)
		_, err := RthRoots(f, big_(3), 10001)
		Expect(err).Should(Equal(ErrRootDegreeTooLarge))
	})
})
