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
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/getamis/sirius/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/getamis/rsacracker/engine"
	"github.com/getamis/rsacracker/key"
	"github.com/getamis/rsacracker/keyio"
	"github.com/getamis/rsacracker/logger"
)

var cmd = &cobra.Command{
	Use:   "rsacracker",
	Short: `Recover RSA private keys and plaintexts from weak public parameters`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		return nil
	},
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cmd.Flags().StringP("ciphertext", "c", "", "ciphertext to decrypt")
	cmd.Flags().StringP("modulus", "n", "", "public modulus")
	cmd.Flags().StringP("exponent", "e", "", "public exponent (default 65537)")
	cmd.Flags().StringP("p", "p", "", "first prime factor (full or partial)")
	cmd.Flags().StringP("q", "q", "", "second prime factor (full or partial)")
	cmd.Flags().StringP("d", "d", "", "private exponent (full or low bits)")
	cmd.Flags().String("phi", "", "Euler totient of n")
	cmd.Flags().String("dp", "", "CRT exponent d mod (p-1)")
	cmd.Flags().String("dq", "", "CRT exponent d mod (q-1)")
	cmd.Flags().String("qinv", "", "CRT coefficient q^-1 mod p")
	cmd.Flags().String("pinv", "", "CRT coefficient p^-1 mod q")
	cmd.Flags().String("sum-pq", "", "known p+q")
	cmd.Flags().String("raw", "", "raw key = value parameter file (multi-key input)")
	cmd.Flags().String("publickey", "", "public key file (PEM/DER/certificate/OpenSSH)")
	cmd.Flags().String("privatekey", "", "private key file (PEM/DER/OpenSSH)")
	cmd.Flags().String("password", "", "password for an encrypted private key")
	cmd.Flags().Bool("dumppublickey", false, "dump the recovered public key as PEM")
	cmd.Flags().Bool("dumpkey", false, "dump the recovered key components")
	cmd.Flags().Bool("dumpextkey", false, "dump the recovered key components with CRT values")
	cmd.Flags().Bool("printkey", false, "print the recovered private key as PEM")
	cmd.Flags().String("addpassword", "", "re-encrypt the dumped private key with this password")
	cmd.Flags().IntP("threads", "t", 0, "run attacks in parallel across this many workers")
	cmd.Flags().Bool("verbose", false, "log attack progress and failures to stderr")
}

func run(cmd *cobra.Command, args []string) error {
	if viper.GetBool("verbose") {
		logger.SetLogger(log.New("service", "rsacracker"))
	}

	params, err := gatherParameters()
	if err != nil {
		return err
	}

	options := &engine.Options{}
	if threads := viper.GetInt("threads"); threads > 0 {
		options.Threads = threads
	} else if cmd.Flags().Changed("threads") {
		options.Threads = engine.DefaultThreads()
	}
	if os.Getenv("CI") == "" {
		options.NewProgress = newStderrProgress
	}

	eng := engine.New(engine.NewRegistry(), options)
	solution, err := eng.Run(context.Background(), params)
	if err != nil {
		return fmt.Errorf("no attack succeeded")
	}

	return printSolution(solution)
}

// gatherParameters merges the three input sources: command-line
// integers first, then the raw parameter file, then key files. Merge
// is left-biased, so explicit flags win.
func gatherParameters() (*key.Parameters, error) {
	params := key.NewParameters()

	flagFields := []struct {
		name string
		dst  **big.Int
	}{
		{"ciphertext", &params.C},
		{"modulus", &params.N},
		{"exponent", &params.E},
		{"p", &params.P},
		{"q", &params.Q},
		{"d", &params.D},
		{"phi", &params.Phi},
		{"dp", &params.Dp},
		{"dq", &params.Dq},
		{"qinv", &params.Qinv},
		{"pinv", &params.Pinv},
		{"sum-pq", &params.SumPQ},
	}
	for _, field := range flagFields {
		raw := viper.GetString(field.name)
		if raw == "" {
			continue
		}
		v, err := keyio.ParseBigInt(raw)
		if err != nil {
			return nil, err
		}
		*field.dst = v
	}

	if path := viper.GetString("raw"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		fromFile, err := keyio.ParseRawParameters(f)
		if err != nil {
			return nil, err
		}
		params = params.Merge(fromFile)
	}

	if path := viper.GetString("publickey"); path != "" {
		pub, err := keyio.LoadPublicKey(path)
		if err != nil {
			return nil, err
		}
		params = params.Merge(pub)
	}
	if path := viper.GetString("privatekey"); path != "" {
		priv, err := keyio.LoadPrivateKey(path, viper.GetString("password"))
		if err != nil {
			return nil, err
		}
		params = params.Merge(priv)
	}

	if params.N == nil && params.P == nil && params.Q == nil && len(params.Keys) == 0 && params.C == nil {
		return nil, fmt.Errorf("nothing to attack: supply at least a modulus, a ciphertext, or key material")
	}
	return params, nil
}

func printSolution(solution *key.Solution) error {
	if solution.M != nil || len(solution.Ms) > 0 {
		fmt.Print(keyio.FormatSolution(solution))
	}

	pk := solution.PrivateKey
	if pk == nil {
		return nil
	}
	fmt.Printf("# recovered by %s\n", solution.AttackName)

	if viper.GetBool("dumppublickey") {
		out, err := keyio.DumpPublicKey(pk)
		if err != nil {
			return err
		}
		fmt.Print(out)
	}
	if viper.GetBool("dumpkey") || viper.GetBool("dumpextkey") {
		out, err := keyio.DumpComponents(pk, viper.GetBool("dumpextkey"))
		if err != nil {
			return err
		}
		fmt.Print(out)
	}
	if viper.GetBool("printkey") || viper.GetString("addpassword") != "" {
		out, err := keyio.DumpPrivateKey(pk, viper.GetString("addpassword"))
		if err != nil {
			return err
		}
		fmt.Print(out)
	}
	return nil
}

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
