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

package keyio

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/getamis/rsacracker/key"
)

// ParseBigInt parses a decimal, 0x hex, 0b binary, or 0o octal
// integer.
func ParseBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("keyio: invalid integer %q", s)
	}
	return v, nil
}

// ParseRawParameters reads the newline-separated key = value format.
// Lines starting with # are comments. Single-key names (n, e, c, p, q,
// d, phi, dp, dq, qinv, pinv, sum_pq) fill the primary parameters;
// indexed names (n2, e2, c10, ...) populate the auxiliary key list for
// multi-key attacks.
func ParseRawParameters(r io.Reader) (*key.Parameters, error) {
	params := key.NewParameters()
	aux := map[int]*key.AuxKey{}
	var auxOrder []int

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("keyio: line %d: expected key = value", lineNo)
		}
		name = strings.TrimSpace(strings.ToLower(name))
		v, err := ParseBigInt(value)
		if err != nil {
			return nil, fmt.Errorf("keyio: line %d: %w", lineNo, err)
		}

		base, index := splitIndexed(name)
		if index > 0 {
			entry, ok := aux[index]
			if !ok {
				entry = &key.AuxKey{}
				aux[index] = entry
				auxOrder = append(auxOrder, index)
			}
			switch base {
			case "n":
				entry.N = v
			case "e":
				entry.E = v
			case "c":
				entry.C = v
			default:
				return nil, fmt.Errorf("keyio: line %d: unknown indexed key %q", lineNo, name)
			}
			continue
		}

		if err := setParameter(params, name, v); err != nil {
			return nil, fmt.Errorf("keyio: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for _, idx := range auxOrder {
		entry := aux[idx]
		if entry.E == nil {
			entry.E = big.NewInt(key.DefaultE)
		}
		params.Keys = append(params.Keys, *entry)
	}
	return params, nil
}

// splitIndexed recognizes names like n2, e15 and returns the base name
// with its index; unindexed names return index 0.
func splitIndexed(name string) (string, int) {
	switch {
	case strings.HasPrefix(name, "n"), strings.HasPrefix(name, "e"), strings.HasPrefix(name, "c"):
	default:
		return name, 0
	}
	suffix := name[1:]
	if suffix == "" {
		return name, 0
	}
	index, err := strconv.Atoi(suffix)
	if err != nil || index < 2 {
		return name, 0
	}
	return name[:1], index
}

func setParameter(params *key.Parameters, name string, v *big.Int) error {
	switch name {
	case "n":
		params.N = v
	case "e":
		params.E = v
	case "c":
		params.C = v
	case "p":
		params.P = v
	case "q":
		params.Q = v
	case "d":
		params.D = v
	case "phi":
		params.Phi = v
	case "dp":
		params.Dp = v
	case "dq":
		params.Dq = v
	case "qinv":
		params.Qinv = v
	case "pinv":
		params.Pinv = v
	case "sum_pq", "sumpq":
		params.SumPQ = v
	default:
		return fmt.Errorf("keyio: unknown key %q", name)
	}
	return nil
}
