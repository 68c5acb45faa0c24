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
	"unicode/utf8"
)

// BytesToInteger interprets b as a big-endian unsigned integer, the
// textbook-RSA message encoding.
func BytesToInteger(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// IntegerToBytes is the inverse of BytesToInteger (up to leading zero
// bytes, which no integer can represent).
func IntegerToBytes(v *big.Int) []byte {
	return v.Bytes()
}

// StringToInteger encodes a plaintext string as an integer message.
func StringToInteger(s string) *big.Int {
	return BytesToInteger([]byte(s))
}

// IntegerToString decodes an integer message back into a string,
// reporting whether the bytes form valid UTF-8.
func IntegerToString(v *big.Int) (string, bool) {
	b := IntegerToBytes(v)
	return string(b), utf8.Valid(b)
}
