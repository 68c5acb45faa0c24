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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/key"
)

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "invalid big integer literal %q", s)
	return v
}

func paramsWithN(n *big.Int) *key.Parameters {
	params := key.NewParameters()
	params.N = n
	return params
}

func assertFactors(t *testing.T, solution *key.Solution, err error, p, q *big.Int) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, solution.PrivateKey)
	assert.Equal(t, p, solution.PrivateKey.P)
	assert.Equal(t, q, solution.PrivateKey.Q)
}

func TestSmallPrime(t *testing.T) {
	n := big.NewInt(5_051_846_941) // 54269 * 93089
	solution, err := SmallPrime.Run(context.Background(), paramsWithN(n), nil)
	assertFactors(t, solution, err, big.NewInt(54269), big.NewInt(93089))
}

func TestFermatClosePrimes(t *testing.T) {
	solution, err := Fermat.Run(context.Background(), paramsWithN(big.NewInt(5959)), nil)
	assertFactors(t, solution, err, big.NewInt(59), big.NewInt(101))
}

func TestPollardRho(t *testing.T) {
	n := big.NewInt(3_387_878_860_881_074_723) // 1779681653 * 1903643191
	solution, err := PollardRho.Run(context.Background(), paramsWithN(n), nil)
	assertFactors(t, solution, err, big.NewInt(1_779_681_653), big.NewInt(1_903_643_191))
}

func TestBrent(t *testing.T) {
	n := big.NewInt(3_387_878_860_881_074_723)
	solution, err := Brent.Run(context.Background(), paramsWithN(n), nil)
	assertFactors(t, solution, err, big.NewInt(1_779_681_653), big.NewInt(1_903_643_191))
}

func TestPower(t *testing.T) {
	p := big.NewInt(1_073_741_827) // 2^30 + 3
	n := new(big.Int).Mul(p, p)
	solution, err := Power.Run(context.Background(), paramsWithN(n), nil)
	require.NoError(t, err)
	require.NotNil(t, solution.PrivateKey)
	assert.Equal(t, p, solution.PrivateKey.P)
	assert.Equal(t, p, solution.PrivateKey.Q)
}

func TestMersennePrime(t *testing.T) {
	p := new(big.Int).Sub(new(big.Int).Lsh(big1, 61), big1)
	q := new(big.Int).Sub(new(big.Int).Lsh(big1, 89), big1)
	n := new(big.Int).Mul(p, q)
	solution, err := MersennePrime.Run(context.Background(), paramsWithN(n), nil)
	assertFactors(t, solution, err, p, q)
}

func TestTwinPrime(t *testing.T) {
	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(36), nil)
	p := new(big.Int).Add(base, big.NewInt(16879))
	q := new(big.Int).Add(base, big.NewInt(16881))
	n := new(big.Int).Mul(p, q)
	solution, err := TwinPrime.Run(context.Background(), paramsWithN(n), nil)
	assertFactors(t, solution, err, p, q)
}

func TestSparse(t *testing.T) {
	p := bigFromString(t, "7729848568775352075615583091837654172059095741143868092188926149647651947207100509260263762608517411743825830918928309404832038536720454350643554760215479")
	q := new(big.Int).Xor(p, new(big.Int).Lsh(big1, 42))
	require.True(t, q.ProbablyPrime(30))
	n := new(big.Int).Mul(p, q)

	solution, err := Sparse.Run(context.Background(), paramsWithN(n), nil)
	require.NoError(t, err)
	require.NotNil(t, solution.PrivateKey)
	assert.Equal(t, n, new(big.Int).Mul(solution.PrivateKey.P, solution.PrivateKey.Q))
}

func TestECM(t *testing.T) {
	n := big.NewInt(2503 * 2609)
	solution, err := ECM.Run(context.Background(), paramsWithN(n), nil)
	assertFactors(t, solution, err, big.NewInt(2503), big.NewInt(2609))
}

func TestSequenceGCDMersenne(t *testing.T) {
	// p = 2^127 - 1 is a Mersenne prime, caught by gcd(term - 1, n) with
	// term = 2^128 - 1, since term - 1 = 2p.
	p := new(big.Int).Sub(new(big.Int).Lsh(big1, 127), big1)
	q := big.NewInt(93089)
	n := new(big.Int).Mul(p, q)
	solution, err := MersenneGCD.Run(context.Background(), paramsWithN(n), nil)
	require.NoError(t, err)
	require.NotNil(t, solution.PrivateKey)
	assert.Equal(t, n, new(big.Int).Mul(solution.PrivateKey.P, solution.PrivateKey.Q))
}

func TestCancellationStopsSearch(t *testing.T) {
	// A 256-bit RSA modulus with no structure: fermat cannot finish,
	// but it must return promptly once the context is cancelled.
	n := bigFromString(t, "93901293825225594148571852116608544011611612594577564341572533157372521325763")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fermat.Run(ctx, paramsWithN(n), nil)
	assert.ErrorIs(t, err, attack.ErrNotFound)
}

func TestMissingParameters(t *testing.T) {
	for _, a := range []attack.Attack{SmallPrime, Fermat, PollardRho, TwinPrime, Sparse, ECM} {
		_, err := a.Run(context.Background(), key.NewParameters(), nil)
		assert.ErrorIs(t, err, attack.ErrMissingParameters, a.Name())
	}
}
