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
	"os"
	"sort"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/attack/factorization"
	"github.com/getamis/rsacracker/attack/knowninfo"
	"github.com/getamis/rsacracker/attack/multikey"
)

// Registry is the immutable, ordered collection of every known attack.
// It is built once at startup and safely shared across goroutines.
type Registry struct {
	attacks []attack.Attack
}

// NewRegistry assembles the full attack suite, ordered fastest first
// (registry order is the observable execution order in sequential
// mode). The NO_FACTORDB environment variable drops the network attack
// at build time.
func NewRegistry() *Registry {
	attacks := []attack.Attack{
		// factorization
		factorization.SmallPrime,
		factorization.Power,
		factorization.MersennePrime,
		factorization.Fermat,
		factorization.Hart,
		factorization.PollardRho,
		factorization.PollardP1,
		factorization.Brent,
		factorization.Kraitchik,
		factorization.SQUFOF,
		factorization.Londahl,
		factorization.MersenneGCD,
		factorization.FermatGCD,
		factorization.FibonacciGCD,
		factorization.LucasGCD,
		factorization.JacobsthalGCD,
		factorization.FactorialGCD,
		factorization.PrimorialGCD,
		factorization.XYGCD,
		factorization.TwinPrime,
		factorization.Sparse,
		factorization.ECM,
		// single-key known information
		knowninfo.KnownPhi,
		knowninfo.KnownD,
		knowninfo.PartialD,
		knowninfo.PartialPrime,
		knowninfo.GAA,
		knowninfo.LeakedCRTExponent,
		knowninfo.LeakedCRTExponents,
		knowninfo.LeakedCRTCoefficient,
		knowninfo.Wiener,
		knowninfo.SumPQ,
		knowninfo.Z3,
		knowninfo.ComfactCN,
		knowninfo.Cipolla,
		knowninfo.NonCoprimeExp,
		knowninfo.CubeRoot,
		knowninfo.SmallE,
		knowninfo.PrimeModulus,
		knowninfo.LeakedPQ,
		// multi-key
		multikey.CommonFactor,
		multikey.CommonModulus,
		multikey.HastadBroadcast,
	}
	if _, disabled := os.LookupEnv("NO_FACTORDB"); !disabled {
		attacks = append(attacks, factorization.FactorDB)
	}

	sort.SliceStable(attacks, func(i, j int) bool {
		return attacks[i].Speed() > attacks[j].Speed()
	})
	return &Registry{attacks: attacks}
}

// Attacks returns the registry contents in execution order. Callers
// must not mutate the returned slice.
func (r *Registry) Attacks() []attack.Attack {
	return r.attacks
}

// Len returns the number of registered attacks.
func (r *Registry) Len() int {
	return len(r.attacks)
}

// Find returns the attack with the given name, or nil.
func (r *Registry) Find(name string) attack.Attack {
	for _, a := range r.attacks {
		if a.Name() == name {
			return a
		}
	}
	return nil
}
