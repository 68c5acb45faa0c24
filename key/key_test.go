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

package key

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestKey(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Key Suite")
}

func big_(i int64) *big.Int { return big.NewInt(i) }

var _ = Describe("Parameters", func() {
	It("defaults E and merges left-biased", func() {
		p := NewParameters()
		Expect(p.E).Should(Equal(big_(DefaultE)))

		pub := NewParameters()
		pub.N = big_(3233)

		priv := NewParameters()
		priv.N = big_(9999)
		priv.E = big_(17)

		merged := pub.Merge(priv)
		Expect(merged.N).Should(Equal(big_(3233)))
		Expect(merged.E).Should(Equal(big_(17)))
	})

	It("never lets a non-default E be overwritten", func() {
		a := NewParameters()
		a.E = big_(3)
		b := NewParameters()
		b.E = big_(17)

		merged := a.Merge(b)
		Expect(merged.E).Should(Equal(big_(3)))
	})

	It("is idempotent", func() {
		a := NewParameters()
		a.N = big_(15)
		b := NewParameters()
		b.P = big_(3)

		once := a.Merge(b)
		twice := once.Merge(b)
		Expect(twice.N).Should(Equal(once.N))
		Expect(twice.P).Should(Equal(once.P))
	})
})

var _ = Describe("Factors", func() {
	It("computes product, totient and flatten", func() {
		f := NewFactors()
		f.Add(big_(3), 2)
		f.Add(big_(5), 1)

		Expect(f.Product()).Should(Equal(big_(45))) // 3^2 * 5
		Expect(f.Totient()).Should(Equal(big_(24))) // (3-1)*3^1 * (5-1)
		Expect(f.Flatten()).Should(HaveLen(3))
	})
})

var _ = Describe("PrivateKey", func() {
	It("builds a valid key and decrypts via CRT", func() {
		p, q := big_(61), big_(53)
		n := new(big.Int).Mul(p, q) // 3233
		e := big_(17)

		pk, err := NewPrivateKey(n, e, nil, p, q, nil)
		Expect(err).Should(BeNil())
		Expect(pk.P).Should(Equal(big_(53)))
		Expect(pk.Q).Should(Equal(big_(61)))

		m := big_(65)
		c := new(big.Int).Exp(m, e, n)
		Expect(pk.Decrypt(c)).Should(Equal(m))
	})

	It("rejects non-prime factors", func() {
		_, err := NewPrivateKey(big_(20), big_(3), nil, big_(4), big_(5), nil)
		Expect(err).Should(Equal(ErrFactorsAreNotPrime))
	})
})
