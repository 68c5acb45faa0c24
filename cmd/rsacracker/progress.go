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

package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/getamis/rsacracker/attack"
)

// stderrProgress is a rate-limited percentage ticker on stderr. It is
// deliberately plain: one line per attack, rewritten at most a few
// times per second.
type stderrProgress struct {
	name string

	mu       sync.Mutex
	total    int64
	position int64
	lastTick time.Time
}

func newStderrProgress(name string) attack.Progress {
	return &stderrProgress{name: name}
}

func (p *stderrProgress) SetLength(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

func (p *stderrProgress) Inc(delta int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position += delta
	p.render()
}

func (p *stderrProgress) SetPosition(pos int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = pos
	p.render()
}

func (p *stderrProgress) render() {
	now := time.Now()
	if now.Sub(p.lastTick) < 250*time.Millisecond {
		return
	}
	p.lastTick = now
	if p.total > 0 {
		fmt.Fprintf(os.Stderr, "\r%s: %d%%", p.name, 100*p.position/p.total)
	} else {
		fmt.Fprintf(os.Stderr, "\r%s: %d", p.name, p.position)
	}
}
