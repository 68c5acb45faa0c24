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

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Message encoding", func() {
	DescribeTable("round-trips bytes through integers", func(input string) {
		v := BytesToInteger([]byte(input))
		Expect(IntegerToBytes(v)).Should(Equal([]byte(input)))
	},
		Entry("ascii", "RsaCracker!"),
		Entry("single byte", "\x01"),
		Entry("high bytes", "\xff\xfe\xfd"),
		Entry("utf8", "flag{日本語}"),
	)

	It("round-trips strings", func() {
		s, valid := IntegerToString(StringToInteger("Multi-key RSA attack!"))
		Expect(valid).Should(BeTrue())
		Expect(s).Should(Equal("Multi-key RSA attack!"))
	})

	It("flags invalid UTF-8", func() {
		_, valid := IntegerToString(big.NewInt(0xfffe))
		Expect(valid).Should(BeFalse())
	})

	It("encodes big-endian", func() {
		Expect(StringToInteger("hi")).Should(Equal(big.NewInt(0x6869)))
	})
})
