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
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"math/big"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/getamis/rsacracker/key"
)

// DumpPublicKey renders the public half of a recovered key as PKCS#1
// PEM.
func DumpPublicKey(pk *key.PrivateKey) (string, error) {
	priv, err := ToRSAPrivateKey(pk)
	if err != nil {
		return "", err
	}
	der := x509.MarshalPKCS1PublicKey(&priv.PublicKey)
	return string(pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: der})), nil
}

// DumpPrivateKey renders a recovered key as PKCS#1 PEM, optionally
// encrypting the block with a password.
func DumpPrivateKey(pk *key.PrivateKey, password string) (string, error) {
	priv, err := ToRSAPrivateKey(pk)
	if err != nil {
		return "", err
	}
	der := x509.MarshalPKCS1PrivateKey(priv)
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: der}
	if password != "" {
		block, err = x509.EncryptPEMBlock(rand.Reader, block.Type, der, []byte(password), x509.PEMCipherAES256)
		if err != nil {
			return "", err
		}
	}
	return string(pem.EncodeToMemory(block)), nil
}

// DumpPrivateKeyPKCS8 renders a recovered key as PKCS#8 PEM.
func DumpPrivateKeyPKCS8(pk *key.PrivateKey) (string, error) {
	priv, err := ToRSAPrivateKey(pk)
	if err != nil {
		return "", err
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})), nil
}

// keyDump is the YAML layout of DumpComponents.
type keyDump struct {
	N    string `yaml:"n"`
	E    string `yaml:"e"`
	D    string `yaml:"d"`
	P    string `yaml:"p"`
	Q    string `yaml:"q"`
	Phi  string `yaml:"phi,omitempty"`
	Dp   string `yaml:"dp,omitempty"`
	Dq   string `yaml:"dq,omitempty"`
	Qinv string `yaml:"qinv,omitempty"`
	Pinv string `yaml:"pinv,omitempty"`

	OtherFactors []string `yaml:"other_factors,omitempty"`
}

// DumpComponents renders the components of a recovered key as YAML;
// phi and the CRT values are included only when extended is set.
func DumpComponents(pk *key.PrivateKey, extended bool) (string, error) {
	dump := keyDump{
		N: pk.N.String(),
		E: pk.E.String(),
		D: pk.D.String(),
		P: pk.P.String(),
		Q: pk.Q.String(),
	}
	if extended {
		dump.Phi = pk.Phi.String()
		dump.Dp = pk.Dp().String()
		dump.Dq = pk.Dq().String()
		if qinv := pk.Qinv(); qinv != nil {
			dump.Qinv = qinv.String()
		}
		if pinv := pk.Pinv(); pinv != nil {
			dump.Pinv = pinv.String()
		}
	}
	if pk.OtherFactors != nil {
		for _, f := range pk.OtherFactors.Flatten() {
			dump.OtherFactors = append(dump.OtherFactors, f.String())
		}
	}
	out, err := yaml.Marshal(&dump)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FormatSolution renders the recovered plaintext in the three standard
// displays: decimal, hex, and UTF-8 (or a quoted byte string when the
// bytes are not valid UTF-8).
func FormatSolution(solution *key.Solution) string {
	var b strings.Builder
	for i, m := range solutionPlaintexts(solution) {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "int = %s\n", m.String())
		fmt.Fprintf(&b, "hex = 0x%x\n", m)
		if s, valid := key.IntegerToString(m); valid {
			fmt.Fprintf(&b, "utf8 = %s\n", s)
		} else {
			fmt.Fprintf(&b, "bytes = %q\n", key.IntegerToBytes(m))
		}
	}
	return b.String()
}

func solutionPlaintexts(solution *key.Solution) []*big.Int {
	if solution.M != nil {
		return []*big.Int{solution.M}
	}
	return solution.Ms
}
