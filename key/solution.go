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

import "math/big"

// Solution is what a successful attack returns: a recovered private
// key, a plaintext (or several candidates, for attacks with multiple
// roots), and the name of the attack that found it.
type Solution struct {
	PrivateKey *PrivateKey
	M          *big.Int
	Ms         []*big.Int
	AttackName string
}
