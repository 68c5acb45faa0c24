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
	"math/big"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/key"
)

// partialPrimeMaxUnknownBits is the widest unknown span the exhaustive
// search will attempt. Wider gaps need a Coppersmith small-roots
// lattice, which this attack does not implement; it reports NotFound
// instead.
const partialPrimeMaxUnknownBits = 40

// partialPrimeTickMask paces cancellation checks inside the brute-force
// loops.
const partialPrimeTickMask = 1<<16 - 1

// PartialPrime recovers a factor from partial knowledge of its bits,
// either the low end or the high end, by brute-forcing the unknown
// span and testing divisibility of n.
var PartialPrime = attack.New("partial_prime", attack.Medium, attack.KnownExtraInfo, runPartialPrime)

func runPartialPrime(ctx context.Context, params *key.Parameters, progress attack.Progress) (*key.Solution, error) {
	progress = progressOrNoop(progress)
	if params.N == nil || (params.PartialP == nil && params.PartialQ == nil) {
		return nil, attack.ErrMissingParameters
	}
	n := params.N

	p, err := recoverPartial(ctx, n, params.PartialP, progress)
	if err != nil {
		return nil, err
	}
	q, err := recoverPartial(ctx, n, params.PartialQ, progress)
	if err != nil {
		return nil, err
	}

	switch {
	case p != nil && q != nil:
		return solutionFromPQ("partial_prime", params, p, q)
	case p != nil:
		q, rem := new(big.Int).QuoRem(n, p, new(big.Int))
		if rem.Sign() != 0 {
			return nil, attack.ErrNotFound
		}
		return solutionFromPQ("partial_prime", params, p, q)
	case q != nil:
		p, rem := new(big.Int).QuoRem(n, q, new(big.Int))
		if rem.Sign() != 0 {
			return nil, attack.ErrNotFound
		}
		return solutionFromPQ("partial_prime", params, p, q)
	default:
		return nil, attack.ErrMissingParameters
	}
}

// recoverPartial completes one partially known factor, or passes a full
// value through. A nil partial yields a nil factor with no error.
func recoverPartial(ctx context.Context, n *big.Int, partial *key.PartialValue, progress attack.Progress) (*big.Int, error) {
	if partial == nil {
		return nil, nil
	}
	switch partial.Kind {
	case key.PartialFull:
		return partial.Known, nil
	case key.PartialLSBKnown:
		return recoverUnknownSpan(ctx, n, partial.Known, partial.UnknownBits, true, progress)
	case key.PartialMSBKnown:
		return recoverUnknownSpan(ctx, n, partial.Known, partial.UnknownBits, false, progress)
	default:
		return nil, attack.ErrMissingParameters
	}
}

// recoverUnknownSpan brute-forces unknownBits missing bits of a factor.
// For lsbKnown the candidates are known + x*2^knownBits (missing high
// bits above the known low ones); otherwise known*2^unknownBits + x
// (missing low bits below the known high ones).
func recoverUnknownSpan(ctx context.Context, n, known *big.Int, unknownBits int, lsbKnown bool, progress attack.Progress) (*big.Int, error) {
	if unknownBits <= 0 || unknownBits > partialPrimeMaxUnknownBits {
		return nil, attack.ErrNotFound
	}

	var base, step *big.Int
	if lsbKnown {
		base = new(big.Int).Set(known)
		step = new(big.Int).Lsh(big1, uint(known.BitLen()))
	} else {
		base = new(big.Int).Lsh(known, uint(unknownBits))
		step = big1
	}

	total := int64(1) << uint(unknownBits)
	progress.SetLength(total)
	candidate := new(big.Int).Set(base)

	for x := int64(0); x < total; x++ {
		if x&partialPrimeTickMask == 0 {
			if cancelled(ctx) {
				return nil, attack.ErrNotFound
			}
			progress.SetPosition(x)
		}
		if candidate.Cmp(big1) > 0 && candidate.Cmp(n) < 0 {
			if new(big.Int).Rem(n, candidate).Sign() == 0 {
				return new(big.Int).Set(candidate), nil
			}
		}
		candidate.Add(candidate, step)
	}
	return nil, attack.ErrNotFound
}
