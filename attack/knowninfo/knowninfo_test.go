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

package knowninfo

import (
	"context"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/crypto/ntheory"
	"github.com/getamis/rsacracker/key"
)

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 0)
	require.True(t, ok, "invalid big integer literal %q", s)
	return v
}

// fixturePrimes generates a realistic factor pair for attacks whose
// inputs are derived from a working key: safe primes, so neither
// factor falls to the small-order structure the cheap attacks exploit.
func fixturePrimes(t *testing.T, bits int) (p, q *big.Int) {
	t.Helper()
	sp, err := ntheory.GenerateRandomSafePrime(rand.Reader, bits)
	require.NoError(t, err)
	sq, err := ntheory.GenerateRandomSafePrime(rand.Reader, bits)
	require.NoError(t, err)
	p, q = sp.P, sq.P
	if p.Cmp(q) > 0 {
		p, q = q, p
	}
	return p, q
}

func TestKnownPhiTwoFactors(t *testing.T) {
	p, q := big.NewInt(54269), big.NewInt(93089)
	n := new(big.Int).Mul(p, q)
	phi := new(big.Int).Mul(big.NewInt(54268), big.NewInt(93088))

	params := key.NewParameters()
	params.N = n
	params.Phi = phi
	solution, err := KnownPhi.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, p, solution.PrivateKey.P)
	assert.Equal(t, q, solution.PrivateKey.Q)
}

func TestKnownPhiMultiFactor(t *testing.T) {
	n := bigFromString(t, "101944608207205828373234136985536127422758789188321061203233970866512105752389494532109758175073247548389686570704851101289141025209074305203459165089172207956558339993794255871893298918197670129098361534364062718759980887842594439938816962085529619977722435671024746830146652610211084398772129518078361766394000325505666361018996382168237814399")
	phi := bigFromString(t, "101944607938544789583331239048519959294698102607886324393128120389399874129497315153018585963284614983040398803726604034782757560581739754229841910703215832926475159513862093763187745099680421838752895446425172704303481984530969498702763652186288580132507738455103266082927816136366288633207465666651081767959552975436188098172823697096704000000")

	params := key.NewParameters()
	params.N = n
	params.Phi = phi
	solution, err := KnownPhi.Run(context.Background(), params, nil)
	require.NoError(t, err)

	pk := solution.PrivateKey
	product := new(big.Int).Mul(pk.P, pk.Q)
	if pk.OtherFactors != nil {
		product.Mul(product, pk.OtherFactors.Product())
	}
	assert.Equal(t, n, product)

	check := new(big.Int).Mul(pk.E, pk.D)
	check.Mod(check, pk.Phi)
	assert.Equal(t, big.NewInt(1), check)
}

func TestKnownD(t *testing.T) {
	p, q := big.NewInt(54269), big.NewInt(93089)
	n := new(big.Int).Mul(p, q)
	phi := new(big.Int).Mul(big.NewInt(54268), big.NewInt(93088))
	e := big.NewInt(key.DefaultE)
	d := new(big.Int).ModInverse(e, phi)
	require.NotNil(t, d)

	params := key.NewParameters()
	params.N = n
	params.D = d
	solution, err := KnownD.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, p, solution.PrivateKey.P)
	assert.Equal(t, q, solution.PrivateKey.Q)
}

func TestWienerPicoCTF2019(t *testing.T) {
	params := key.NewParameters()
	params.E = bigFromString(t, "4708503942244531610412322050538380910464733587871346275242432482284172101654236392984351984736443874878619953997560462921684047223032295966275936840295028523100178681588438643078390223940196199462888217663017181144875784696389582284452463871005887179492829406998155699758511305944828728291175254965579734641")
	params.N = bigFromString(t, "97007614857868553332786026477879242291457794765270173165848254508474626540746208892491504565756781586897238580678440760295003899043026589356122625810253174167582254002039074288705601809994964567448726499789901382169786422460213679785185749261959865537609841120269032153551390379219708186340703132361021118307")

	solution, err := Wiener.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, "9472090416832180505222839110776048392526166787348746842452446085500515696125957623544939387999897705237887376448494288653148060344989742295261565644606969", solution.PrivateKey.P.String())
	assert.Equal(t, "10241415631493888275651396682764104183382306992555324367637459719689109785062731629753925177075296483804475760194443584159595916911022433443178975445964603", solution.PrivateKey.Q.String())
}

func TestPartialD(t *testing.T) {
	p, q := fixturePrimes(t, 128)
	n := new(big.Int).Mul(p, q)
	phi := new(big.Int).Mul(new(big.Int).Sub(p, big.NewInt(1)), new(big.Int).Sub(q, big.NewInt(1)))
	e := big.NewInt(key.DefaultE)
	d := new(big.Int).ModInverse(e, phi)
	require.NotNil(t, d)

	// Leak all but the top 50 bits of d; the estimate (n*k+1)/e is
	// accurate well past that point.
	knownBits := uint(d.BitLen() - 50)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), knownBits), big.NewInt(1))
	dLSB := new(big.Int).And(d, mask)

	params := key.NewParameters()
	params.N = n
	params.D = dLSB
	solution, err := PartialD.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, n, solution.PrivateKey.N)
}

func TestPartialPrimeMSBKnown(t *testing.T) {
	p, q := big.NewInt(54269), big.NewInt(93089)
	n := new(big.Int).Mul(p, q)

	params := key.NewParameters()
	params.N = n
	params.PartialP = key.MSBKnown(new(big.Int).Rsh(p, 8), 8)
	solution, err := PartialPrime.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, p, solution.PrivateKey.P)
	assert.Equal(t, q, solution.PrivateKey.Q)
}

func TestPartialPrimeLSBKnown(t *testing.T) {
	p, q := big.NewInt(54269), big.NewInt(93089)
	n := new(big.Int).Mul(p, q)

	// Low 8 bits of p are known; the high span is brute-forced.
	params := key.NewParameters()
	params.N = n
	params.PartialP = key.LSBKnown(new(big.Int).And(p, big.NewInt(0xff)), p.BitLen()-8)
	solution, err := PartialPrime.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, p, solution.PrivateKey.P)
}

func TestSumPQ(t *testing.T) {
	params := key.NewParameters()
	params.N = big.NewInt(5959)
	params.SumPQ = big.NewInt(160)
	solution, err := SumPQ.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(59), solution.PrivateKey.P)
	assert.Equal(t, big.NewInt(101), solution.PrivateKey.Q)
}

func TestZ3BalancedOddFactors(t *testing.T) {
	params := key.NewParameters()
	params.N = big.NewInt(5959)
	solution, err := Z3.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(59), solution.PrivateKey.P)
	assert.Equal(t, big.NewInt(101), solution.PrivateKey.Q)
}

func TestComfactCN(t *testing.T) {
	p, q := big.NewInt(54269), big.NewInt(93089)
	n := new(big.Int).Mul(p, q)

	params := key.NewParameters()
	params.N = n
	params.C = new(big.Int).Mul(p, big.NewInt(7))
	solution, err := ComfactCN.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, p, solution.PrivateKey.P)
}

func TestPrimeModulus(t *testing.T) {
	n := big.NewInt(1_000_003)
	e := big.NewInt(key.DefaultE)
	m := big.NewInt(4242)
	c := new(big.Int).Exp(m, e, n)

	params := key.NewParameters()
	params.N = n
	params.C = c
	solution, err := PrimeModulus.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, m, solution.M)
}

func TestCipolla(t *testing.T) {
	n := big.NewInt(1_000_003)
	e := big.NewInt(2 * 65537)
	m := big.NewInt(271828)
	c := new(big.Int).Exp(m, e, n)

	params := key.NewParameters()
	params.N = n
	params.E = e
	params.C = c
	solution, err := Cipolla.Run(context.Background(), params, nil)
	require.NoError(t, err)
	require.Len(t, solution.Ms, 2)
	for _, candidate := range solution.Ms {
		assert.Equal(t, c, new(big.Int).Exp(candidate, e, n))
	}
}

func TestCubeRoot(t *testing.T) {
	m := big.NewInt(424242)
	params := key.NewParameters()
	params.E = big.NewInt(3)
	params.C = new(big.Int).Exp(m, big.NewInt(3), nil)
	solution, err := CubeRoot.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, m, solution.M)
}

func TestSmallE(t *testing.T) {
	n := big.NewInt(5959)
	m := big.NewInt(100)
	c := new(big.Int).Exp(m, big.NewInt(3), n)

	params := key.NewParameters()
	params.N = n
	params.E = big.NewInt(3)
	params.C = c
	solution, err := SmallE.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, m, solution.M)
}

func TestLeakedPQ(t *testing.T) {
	params := key.NewParameters()
	params.P = big.NewInt(59)
	params.Q = big.NewInt(101)
	solution, err := LeakedPQ.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5959), solution.PrivateKey.N)
}

func TestLeakedCRTExponent(t *testing.T) {
	p, q := big.NewInt(54269), big.NewInt(93089)
	n := new(big.Int).Mul(p, q)
	phi := new(big.Int).Mul(big.NewInt(54268), big.NewInt(93088))
	e := big.NewInt(key.DefaultE)
	d := new(big.Int).ModInverse(e, phi)
	require.NotNil(t, d)

	params := key.NewParameters()
	params.N = n
	params.Dp = new(big.Int).Mod(d, big.NewInt(54268))
	solution, err := LeakedCRTExponent.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, p, solution.PrivateKey.P)
}

func TestLeakedCRTExponents(t *testing.T) {
	p, q := fixturePrimes(t, 128)
	e := big.NewInt(key.DefaultE)
	pm1 := new(big.Int).Sub(p, big.NewInt(1))
	qm1 := new(big.Int).Sub(q, big.NewInt(1))
	phi := new(big.Int).Mul(pm1, qm1)
	d := new(big.Int).ModInverse(e, phi)
	require.NotNil(t, d)

	params := key.NewParameters()
	params.Dp = new(big.Int).Mod(d, pm1)
	params.Dq = new(big.Int).Mod(d, qm1)
	params.Qinv = new(big.Int).ModInverse(q, p)
	solution, err := LeakedCRTExponents.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(p, q), solution.PrivateKey.N)
}

func TestLeakedCRTCoefficient(t *testing.T) {
	p, q := big.NewInt(54269), big.NewInt(93089)
	phi := new(big.Int).Mul(big.NewInt(54268), big.NewInt(93088))

	params := key.NewParameters()
	params.Phi = phi
	params.Qinv = new(big.Int).ModInverse(q, p)
	params.Pinv = new(big.Int).ModInverse(p, q)
	solution, err := LeakedCRTCoefficient.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(p, q), solution.PrivateKey.N)
}

func TestGAA(t *testing.T) {
	params := key.NewParameters()
	params.N = bigFromString(t, "25443213484803330676546636060506767271319211956273880351374351825462561580132551177398365004567302649029372469108528581383182366032879612606427513826234802141122998206193459531773833796480172789254233470084592231117946043667803816674367149523326731127008733355361824250743661733271951270041603994991855260193100644339351409446036601574046698036751560570936645802773832960804417075002671744354815841155246667831512956948961180313537576080810878904128457697494633264997808381810844117016959712493847383233300377347818990874284472761519902676254694772586325941589525740707826852095908188649384624121217162949627607660163")
	params.PartialP = key.LSBKnown(bigFromString(t, "0b101111001001"), 0)
	params.PartialQ = key.LSBKnown(bigFromString(t, "0b100111101011"), 0)

	solution, err := GAA.Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, "122539608741316849829261726098688957114502463272691906657106165887494465656483627796660671278978213477051915433597161268345944097932917669169852614268434890176706523882967335716979529907163623313323845921267400475000574500531377847942396759927437400904034577111052905698000623411296101838403579267392100002539", solution.PrivateKey.P.String())
	assert.Equal(t, "207632566695348090325106198564354306872362493463538154841386314580707220972445801440409737589803024013035554181699335224061662229162879643933792870833231736875142501533422110427899095351781206012327937258761409973123340262144886588093314114536052456895922041585909651666335476791456709509341751911472100003017", solution.PrivateKey.Q.String())
}

func TestNonCoprimeExpSubgroup(t *testing.T) {
	params := key.NewParameters()
	params.E = big.NewInt(97)
	params.N = bigFromString(t, "70614516511653681890499154979132584270226272722256500214622787223610550854997589832081078823061362723307592045336521542508756980750403350846458509885757683321317161650232926804838167800574962335211603765250113548044716181309168596871119574945614348011364785106756383385817704733682831382361355046945990826439")
	params.Phi = bigFromString(t, "70614516511653681890499154979132584270226272722256500214622787223610550854997589832081078823061362723307592045336521542508756980750403350846458509885757666513301563453991037566801998355853698264049064088558494760523929055515901945246240176149856235173437476447914167628671612210755973209476747909997877210160")
	params.C = bigFromString(t, "64661204029135964132889081687074860054712654034863010536364556786624954291098513345987672476667793926002424442735780851035670961910729632679400018424471981200856732422764873547195622843355994005181303652821475568881690325047489311603051064285114386559008168851547245493284359148537891567724376626953690183719")

	solution, err := NonCoprimeExp.Run(context.Background(), params, nil)
	require.NoError(t, err)
	require.Len(t, solution.Ms, 97)

	expected := key.StringToInteger("RsaCracker!")
	found := false
	for _, m := range solution.Ms {
		if m.Cmp(expected) == 0 {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestNonCoprimeExpGeneral(t *testing.T) {
	// e divides both p-1 and q-1 with multiplicity 2 (p=19, q=37), so
	// gcd(phi/e, e) != 1 and the AMM/CRT branch runs.
	p, q := big.NewInt(19), big.NewInt(37)
	n := new(big.Int).Mul(p, q)
	phi := big.NewInt(18 * 36)
	e := big.NewInt(3)
	m := big.NewInt(2)
	c := new(big.Int).Exp(m, e, n)

	params := key.NewParameters()
	params.N = n
	params.E = e
	params.Phi = phi
	params.C = c

	solution, err := NonCoprimeExp.Run(context.Background(), params, nil)
	require.NoError(t, err)
	require.Len(t, solution.Ms, 9)

	found := false
	for _, candidate := range solution.Ms {
		assert.Equal(t, c, new(big.Int).Exp(candidate, e, n))
		if candidate.Cmp(m) == 0 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMissingParametersKnownInfo(t *testing.T) {
	for _, a := range []attack.Attack{KnownPhi, KnownD, PartialD, PartialPrime, GAA, LeakedCRTExponent, LeakedCRTExponents, LeakedCRTCoefficient, SumPQ, NonCoprimeExp, ComfactCN, LeakedPQ} {
		_, err := a.Run(context.Background(), key.NewParameters(), nil)
		assert.ErrorIs(t, err, attack.ErrMissingParameters, a.Name())
	}
}
