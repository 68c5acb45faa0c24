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

// Package engine dispatches the attack registry over a set of
// parameters, sequentially or across a worker pool, and returns the
// first Solution found.
package engine

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"runtime"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/key"
	"github.com/getamis/rsacracker/logger"
)

// ErrNoAttackSucceeded is returned when every attack reported
// MissingParameters or NotFound.
var ErrNoAttackSucceeded = errors.New("engine: no attack succeeded")

// networkAttacks must not occupy a worker-pool slot while blocked on
// I/O; they are dispatched on their own goroutines.
var networkAttacks = map[string]bool{
	"factordb": true,
}

// Options controls a single Run.
type Options struct {
	// Threads selects parallel dispatch across a pool of this many
	// workers; zero (or negative) runs the registry sequentially in
	// order.
	Threads int
	// NewProgress, when set, supplies a progress channel per attack.
	NewProgress func(name string) attack.Progress
}

// DefaultThreads is the worker-pool size used when parallel mode is
// requested without an explicit count.
func DefaultThreads() int {
	return runtime.NumCPU()
}

// Engine couples a registry with dispatch options.
type Engine struct {
	registry *Registry
	options  *Options
}

// New builds an Engine. A nil options runs sequentially.
func New(registry *Registry, options *Options) *Engine {
	if options == nil {
		options = &Options{}
	}
	return &Engine{registry: registry, options: options}
}

// Run tries to recover a Solution from params. When both factors are
// already supplied it short-circuits without dispatching any attack;
// otherwise attacks run until the first success. The returned Solution
// always has M filled when a private key and a ciphertext are both
// available.
func (e *Engine) Run(ctx context.Context, params *key.Parameters) (*key.Solution, error) {
	if solution := shortCircuit(params); solution != nil {
		return e.postProcess(params, solution), nil
	}

	var solution *key.Solution
	var err error
	if e.options.Threads > 0 {
		solution, err = e.runParallel(ctx, params)
	} else {
		solution, err = e.runSequential(ctx, params)
	}
	if err != nil {
		return nil, err
	}
	return e.postProcess(params, solution), nil
}

// shortCircuit builds a key directly when p and q are both present and
// actually factor n. A pair that does not multiply to n is left for
// the attacks that interpret p/q differently (e.g. gaa's leaked bits).
func shortCircuit(params *key.Parameters) *key.Solution {
	if params.P == nil || params.Q == nil {
		return nil
	}
	n := params.N
	e := params.E
	if e == nil {
		e = new(big.Int).SetInt64(key.DefaultE)
	}
	if n == nil {
		n = new(big.Int).Mul(params.P, params.Q)
	}
	pk, err := key.NewPrivateKey(n, e, params.D, params.P, params.Q, nil)
	if err != nil {
		return nil
	}
	return &key.Solution{PrivateKey: pk, AttackName: "known_factors"}
}

func (e *Engine) runSequential(ctx context.Context, params *key.Parameters) (*key.Solution, error) {
	log := logger.Logger()
	for _, a := range e.registry.Attacks() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		solution, err := e.runOne(ctx, a, params)
		if err != nil {
			log.Debug("Attack failed", "attack", a.Name(), "task", taskID(a.Name()), "err", err)
			continue
		}
		return solution, nil
	}
	return nil, ErrNoAttackSucceeded
}

func (e *Engine) runParallel(ctx context.Context, params *key.Parameters) (*key.Solution, error) {
	log := logger.Logger()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	attacks := e.registry.Attacks()
	pending := make(chan attack.Attack, len(attacks))
	results := make(chan *key.Solution, 1)
	var wg sync.WaitGroup

	run := func(a attack.Attack) {
		defer wg.Done()
		solution, err := e.runOne(ctx, a, params)
		if err != nil {
			log.Debug("Attack failed", "attack", a.Name(), "task", taskID(a.Name()), "err", err)
			return
		}
		select {
		case results <- solution:
			cancel()
		default:
		}
	}

	workers := e.options.Threads
	for i := 0; i < workers; i++ {
		go func() {
			for a := range pending {
				run(a)
			}
		}()
	}

	for _, a := range attacks {
		wg.Add(1)
		if networkAttacks[a.Name()] {
			// Blocking I/O gets its own goroutine so it never holds a
			// pool slot during the network wait.
			go run(a)
			continue
		}
		pending <- a
	}
	close(pending)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case solution := <-results:
		return solution, nil
	case <-done:
		select {
		case solution := <-results:
			return solution, nil
		default:
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrNoAttackSucceeded
	}
}

// runOne runs a single attack with a cloned Parameters so no attack
// can observe another's mutations.
func (e *Engine) runOne(ctx context.Context, a attack.Attack, params *key.Parameters) (*key.Solution, error) {
	var progress attack.Progress
	if e.options.NewProgress != nil {
		progress = e.options.NewProgress(a.Name())
	}
	cloned := &key.Parameters{}
	*cloned = *params
	return a.Run(ctx, cloned, progress)
}

// postProcess decrypts the ciphertext when an attack recovered the key
// but not the plaintext.
func (e *Engine) postProcess(params *key.Parameters, solution *key.Solution) *key.Solution {
	if solution == nil {
		return nil
	}
	if solution.PrivateKey != nil && solution.M == nil && params.C != nil {
		solution.M = solution.PrivateKey.Decrypt(params.C)
	}
	return solution
}

// taskID is a short stable identifier correlating one attack's log
// lines within a run.
func taskID(name string) string {
	sum := blake2b.Sum256([]byte(name))
	return hex.EncodeToString(sum[:4])
}
