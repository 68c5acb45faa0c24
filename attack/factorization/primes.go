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
	"math/big"
	"sync"
)

const (
	firstPrimesCount      = 1_000_000
	firstPrimesSieveBound = 16_500_000 // comfortably above the 1,000,000th prime (15,485,863)
)

var (
	firstPrimesOnce  sync.Once
	firstPrimesCache []*big.Int
)

// firstPrimes returns the first firstPrimesCount primes, computed once
// via a sieve of Eratosthenes and shared by every attack that needs
// small-prime trial division (small_prime, xy_gcd).
func firstPrimes() []*big.Int {
	firstPrimesOnce.Do(func() {
		sieve := make([]bool, firstPrimesSieveBound+1)
		primes := make([]*big.Int, 0, firstPrimesCount)
		for i := 2; i <= firstPrimesSieveBound && len(primes) < firstPrimesCount; i++ {
			if sieve[i] {
				continue
			}
			primes = append(primes, big.NewInt(int64(i)))
			for j := i * i; j <= firstPrimesSieveBound; j += i {
				sieve[j] = true
			}
		}
		firstPrimesCache = primes
	})
	return firstPrimesCache
}
