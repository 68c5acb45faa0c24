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

package engine

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/key"
)

func TestRegistryOrdering(t *testing.T) {
	t.Setenv("NO_FACTORDB", "1")
	registry := NewRegistry()
	require.NotZero(t, registry.Len())

	last := attack.Fast
	for _, a := range registry.Attacks() {
		assert.LessOrEqual(t, a.Speed(), last, a.Name())
		last = a.Speed()
	}
	assert.Nil(t, registry.Find("factordb"))
	assert.NotNil(t, registry.Find("small_prime"))
}

func TestShortCircuitKnownFactors(t *testing.T) {
	t.Setenv("NO_FACTORDB", "1")
	p, q := big.NewInt(59), big.NewInt(101)
	m := big.NewInt(42)

	params := key.NewParameters()
	params.P = p
	params.Q = q
	params.N = new(big.Int).Mul(p, q)
	params.C = new(big.Int).Exp(m, params.E, params.N)

	eng := New(NewRegistry(), nil)
	solution, err := eng.Run(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "known_factors", solution.AttackName)
	assert.Equal(t, m, solution.M)
}

func TestRunSequential(t *testing.T) {
	t.Setenv("NO_FACTORDB", "1")
	params := key.NewParameters()
	params.N = big.NewInt(5_051_846_941) // 54269 * 93089

	eng := New(NewRegistry(), nil)
	solution, err := eng.Run(context.Background(), params)
	require.NoError(t, err)
	require.NotNil(t, solution.PrivateKey)
	assert.Equal(t, big.NewInt(54269), solution.PrivateKey.P)
	assert.Equal(t, big.NewInt(93089), solution.PrivateKey.Q)
}

func TestRunParallel(t *testing.T) {
	t.Setenv("NO_FACTORDB", "1")
	m := big.NewInt(123456)
	params := key.NewParameters()
	params.N = big.NewInt(5_051_846_941)
	params.C = new(big.Int).Exp(m, params.E, params.N)

	eng := New(NewRegistry(), &Options{Threads: 4})
	solution, err := eng.Run(context.Background(), params)
	require.NoError(t, err)
	require.NotNil(t, solution.PrivateKey)
	assert.Equal(t, params.N, solution.PrivateKey.N)
	assert.Equal(t, m, solution.M)
}

func TestRunNothingApplicable(t *testing.T) {
	t.Setenv("NO_FACTORDB", "1")
	// Only an exponent: every attack reports MissingParameters.
	params := key.NewParameters()

	eng := New(NewRegistry(), nil)
	_, err := eng.Run(context.Background(), params)
	assert.ErrorIs(t, err, ErrNoAttackSucceeded)
}

func TestRunMultiKey(t *testing.T) {
	t.Setenv("NO_FACTORDB", "1")
	m := key.StringToInteger("Multi-key RSA attack!")
	n, ok := new(big.Int).SetString("166270918338126577330758828592535648964989469159127542778196697837221437733066780089912708466193803018826184715618764250423068066614662326811797974314176667", 10)
	require.True(t, ok)
	e1, e2 := big.NewInt(17), big.NewInt(65537)

	params := key.NewParameters()
	params.N = n
	params.E = e1
	params.C = new(big.Int).Exp(m, e1, n)
	params.Keys = []key.AuxKey{{N: n, E: e2, C: new(big.Int).Exp(m, e2, n)}}

	eng := New(NewRegistry(), nil)
	solution, err := eng.Run(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, m, solution.M)
}
