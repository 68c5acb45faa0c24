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

package multikey

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

func TestCommonModulus(t *testing.T) {
	m := key.StringToInteger("Multi-key RSA attack!")
	n := bigFromString(t, "166270918338126577330758828592535648964989469159127542778196697837221437733066780089912708466193803018826184715618764250423068066614662326811797974314176667")
	e1 := big.NewInt(17)
	e2 := big.NewInt(65537)
	c1 := new(big.Int).Exp(m, e1, n)
	c2 := new(big.Int).Exp(m, e2, n)

	params := key.NewParameters()
	params.N = n
	params.E = e1
	params.C = c1
	params.Keys = []key.AuxKey{{N: n, E: e2, C: c2}}

	solution, err := CommonModulus.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, m, solution.M)
}

func TestCommonFactor(t *testing.T) {
	p := big.NewInt(104729)
	q1 := big.NewInt(104723)
	q2 := big.NewInt(104717)
	n1 := new(big.Int).Mul(p, q1)
	n2 := new(big.Int).Mul(p, q2)

	params := key.NewParameters()
	params.N = n1
	params.Keys = []key.AuxKey{{N: n2, E: big.NewInt(key.DefaultE)}}

	solution, err := CommonFactor.Run(context.Background(), params, nil)
	require.NoError(t, err)
	require.NotNil(t, solution.PrivateKey)
	assert.Equal(t, n1, new(big.Int).Mul(solution.PrivateKey.P, solution.PrivateKey.Q))
}

func TestHastadBroadcast(t *testing.T) {
	m := key.StringToInteger("RsaCracker!")
	e := big.NewInt(3)
	moduli := []*big.Int{
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 89), big.NewInt(1)),
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 107), big.NewInt(1)),
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1)),
	}

	params := key.NewParameters()
	params.E = e
	params.N = moduli[0]
	params.C = new(big.Int).Exp(m, e, moduli[0])
	for _, n := range moduli[1:] {
		params.Keys = append(params.Keys, key.AuxKey{
			N: n,
			E: e,
			C: new(big.Int).Exp(m, e, n),
		})
	}

	solution, err := HastadBroadcast.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, m, solution.M)
}

func TestHastadBroadcastTooFewCiphertexts(t *testing.T) {
	params := key.NewParameters()
	params.E = big.NewInt(3)
	params.N = big.NewInt(5959)
	params.C = big.NewInt(1234)
	_, err := HastadBroadcast.Run(context.Background(), params, nil)
	assert.ErrorIs(t, err, attack.ErrMissingParameters)
}

func TestCommonFactorNeedsTwoKeys(t *testing.T) {
	params := key.NewParameters()
	params.N = big.NewInt(5959)
	_, err := CommonFactor.Run(context.Background(), params, nil)
	assert.ErrorIs(t, err, attack.ErrMissingParameters)
}
