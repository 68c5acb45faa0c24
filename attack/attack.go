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

// Package attack defines the contract every factorization and
// key-recovery procedure implements, and the small set of sentinel
// errors the dispatch engine treats specially.
package attack

import (
	"context"
	"errors"

	"github.com/getamis/rsacracker/key"
)

// Speed is a coarse cost class an attack self-reports, used to order
// the registry so cheap attacks run before expensive ones.
type Speed int

const (
	// Slow is the default: no cost estimate, try it last.
	Slow Speed = iota
	Medium
	Fast
)

// Kind classifies what an attack needs beyond the bare modulus.
type Kind int

const (
	// Standard attacks work from n (and e, c) alone.
	Standard Kind = iota
	// KnownExtraInfo attacks require some additional leaked quantity
	// (phi, d, partial bits, CRT exponents, ...).
	KnownExtraInfo
	// MultiKey attacks require more than one (n, e, c) triple.
	MultiKey
)

var (
	// ErrMissingParameters means the attack's required inputs were
	// absent; it never had a chance to run.
	ErrMissingParameters = errors.New("attack: required parameters are missing")
	// ErrNotFound means the attack ran but did not succeed within its
	// iteration budget.
	ErrNotFound = errors.New("attack: no solution found")
)

// Attack is the polymorphic capability every procedure in
// attack/factorization, attack/knowninfo, and attack/multikey
// implements.
type Attack interface {
	// Name is a stable, snake_case identifier used in logs and reports.
	Name() string
	Speed() Speed
	Kind() Kind
	// Run attempts to recover a Solution from params. It returns
	// ErrMissingParameters or ErrNotFound as sentinel failures the
	// engine expects; any other error also aborts just this attack.
	Run(ctx context.Context, params *key.Parameters, progress Progress) (*key.Solution, error)
}

// Progress is an optional reporting channel. Attacks must tolerate a
// nil-safe no-op implementation when the caller does not want ticks.
type Progress interface {
	SetLength(total int64)
	Inc(delta int64)
	SetPosition(pos int64)
}

// NoopProgress discards every report; it is the zero value used when a
// caller passes no progress channel.
type NoopProgress struct{}

func (NoopProgress) SetLength(int64)   {}
func (NoopProgress) Inc(int64)         {}
func (NoopProgress) SetPosition(int64) {}

// RunFunc is the procedure body of an attack built with New.
type RunFunc func(ctx context.Context, params *key.Parameters, progress Progress) (*key.Solution, error)

// simple is a leaf Attack assembled from a name, its two classification
// attributes, and a run function. Every concrete attack in
// attack/factorization, attack/knowninfo and attack/multikey is built
// this way rather than through an inheritance hierarchy.
type simple struct {
	name  string
	speed Speed
	kind  Kind
	run   RunFunc
}

// New builds an Attack from its descriptor and procedure.
func New(name string, speed Speed, kind Kind, run RunFunc) Attack {
	return &simple{name: name, speed: speed, kind: kind, run: run}
}

func (s *simple) Name() string  { return s.name }
func (s *simple) Speed() Speed  { return s.speed }
func (s *simple) Kind() Kind    { return s.kind }
func (s *simple) Run(ctx context.Context, params *key.Parameters, progress Progress) (*key.Solution, error) {
	return s.run(ctx, params, progress)
}
