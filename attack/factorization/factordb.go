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
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"time"

	"github.com/getamis/rsacracker/attack"
	"github.com/getamis/rsacracker/key"
)

const factorDBEndpoint = "http://factordb.com/api"

var factorDBClient = &http.Client{Timeout: 30 * time.Second}

// FactorDB looks n up in the online factordb.com database. The
// NO_FACTORDB environment variable disables it entirely.
var FactorDB = attack.New("factordb", attack.Fast, attack.Standard, runFactorDB)

type factorDBResponse struct {
	Status string `json:"status"`
	// Each entry is ["prime", exponent]: a decimal string plus a
	// number.
	Factors [][2]json.RawMessage `json:"factors"`
}

func decodeFactorEntry(entry [2]json.RawMessage) (*big.Int, int, bool) {
	var primeStr string
	if err := json.Unmarshal(entry[0], &primeStr); err != nil {
		return nil, 0, false
	}
	prime, ok := new(big.Int).SetString(primeStr, 10)
	if !ok {
		return nil, 0, false
	}
	var count int
	if err := json.Unmarshal(entry[1], &count); err != nil {
		return nil, 0, false
	}
	return prime, count, count >= 1
}

func runFactorDB(ctx context.Context, params *key.Parameters, _ attack.Progress) (*key.Solution, error) {
	if _, disabled := os.LookupEnv("NO_FACTORDB"); disabled {
		return nil, attack.ErrNotFound
	}
	if params.N == nil {
		return nil, attack.ErrMissingParameters
	}
	n := params.N

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?query=%s", factorDBEndpoint, n.String()), nil)
	if err != nil {
		return nil, attack.ErrNotFound
	}
	resp, err := factorDBClient.Do(req)
	if err != nil {
		return nil, attack.ErrNotFound
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, attack.ErrNotFound
	}

	var body factorDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, attack.ErrNotFound
	}
	// FF means fully factored; anything else may contain composite or
	// placeholder entries.
	if body.Status != "FF" {
		return nil, attack.ErrNotFound
	}

	factors := key.NewFactors()
	for _, entry := range body.Factors {
		prime, count, ok := decodeFactorEntry(entry)
		if !ok {
			return nil, attack.ErrNotFound
		}
		factors.Add(prime, count)
	}

	primes := factors.Flatten()
	if len(primes) < 2 {
		return nil, attack.ErrNotFound
	}
	return solutionFromFactors("factordb", params, primes)
}
