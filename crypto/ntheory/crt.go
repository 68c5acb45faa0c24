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

// CRT solves the system x = residues[i] (mod moduli[i]) for pairwise
// coprime moduli and returns the unique solution modulo the product of
// the moduli. It returns ok=false if any modular inverse required along
// the way does not exist (moduli are not pairwise coprime) or if the
// slices are empty or mismatched in length.
func CRT(residues, moduli []*big.Int) (x *big.Int, ok bool) {
	if len(residues) == 0 || len(residues) != len(moduli) {
		return nil, false
	}
	x = new(big.Int).Mod(residues[0], moduli[0])
	m := new(big.Int).Set(moduli[0])
	for i := 1; i < len(residues); i++ {
		mi := moduli[i]
		inv := new(big.Int).ModInverse(m, mi)
		if inv == nil {
			return nil, false
		}
		// t = (r_i - x) * m^-1 mod m_i
		diff := new(big.Int).Sub(residues[i], x)
		t := new(big.Int).Mul(diff, inv)
		t.Mod(t, mi)
		x.Add(x, new(big.Int).Mul(m, t))
		m.Mul(m, mi)
		x.Mod(x, m)
	}
	return x, true
}
