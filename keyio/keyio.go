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

// Package keyio sits at the boundary between the core and the outside
// world: it loads RSA key material from the usual file formats into
// Parameters, dumps recovered keys back out, and parses the raw
// key=value parameter files used for multi-key input.
package keyio

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/getamis/rsacracker/key"
)

var (
	// ErrNotRSA is returned when a key file parses but does not hold an
	// RSA key.
	ErrNotRSA = errors.New("keyio: not an RSA key")
	// ErrUnknownFormat is returned when no supported codec recognizes
	// the file.
	ErrUnknownFormat = errors.New("keyio: unknown key format")
)

// LoadPublicKey reads a public key file (PKCS#1/PKIX PEM or DER, X.509
// certificate, or OpenSSH authorized-key line) into Parameters holding
// n and e.
func LoadPublicKey(path string) (*key.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pub, err := parsePublicKey(data)
	if err != nil {
		return nil, err
	}
	return &key.Parameters{
		N: new(big.Int).Set(pub.N),
		E: big.NewInt(int64(pub.E)),
	}, nil
}

// LoadPrivateKey reads a private key file (PKCS#1/PKCS#8 PEM or DER,
// or OpenSSH, optionally password protected) into Parameters holding
// every quantity present in the key.
func LoadPrivateKey(path, password string) (*key.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	priv, err := parsePrivateKey(data, password)
	if err != nil {
		return nil, err
	}
	priv.Precompute()

	params := &key.Parameters{
		N: new(big.Int).Set(priv.N),
		E: big.NewInt(int64(priv.E)),
		D: new(big.Int).Set(priv.D),
	}
	if len(priv.Primes) >= 2 {
		params.P = new(big.Int).Set(priv.Primes[0])
		params.Q = new(big.Int).Set(priv.Primes[1])
	}
	if priv.Precomputed.Dp != nil {
		params.Dp = new(big.Int).Set(priv.Precomputed.Dp)
	}
	if priv.Precomputed.Dq != nil {
		params.Dq = new(big.Int).Set(priv.Precomputed.Dq)
	}
	if priv.Precomputed.Qinv != nil {
		params.Qinv = new(big.Int).Set(priv.Precomputed.Qinv)
	}
	return params, nil
}

func parsePublicKey(data []byte) (*rsa.PublicKey, error) {
	if block, _ := pem.Decode(data); block != nil {
		data = block.Bytes
	}
	if pub, err := x509.ParsePKCS1PublicKey(data); err == nil {
		return pub, nil
	}
	if pub, err := x509.ParsePKIXPublicKey(data); err == nil {
		return asRSAPublicKey(pub)
	}
	if cert, err := x509.ParseCertificate(data); err == nil {
		return asRSAPublicKey(cert.PublicKey)
	}
	if pub, _, _, _, err := ssh.ParseAuthorizedKey(data); err == nil {
		return sshToRSAPublicKey(pub)
	}
	return nil, ErrUnknownFormat
}

func parsePrivateKey(data []byte, password string) (*rsa.PrivateKey, error) {
	if block, _ := pem.Decode(data); block != nil {
		if strings.Contains(block.Type, "OPENSSH") {
			return parseOpenSSHPrivateKey(data, password)
		}
		blockData := block.Bytes
		if x509.IsEncryptedPEMBlock(block) {
			decrypted, err := x509.DecryptPEMBlock(block, []byte(password))
			if err != nil {
				return nil, err
			}
			blockData = decrypted
		}
		return parseDERPrivateKey(blockData)
	}
	if priv, err := parseDERPrivateKey(data); err == nil {
		return priv, nil
	}
	return parseOpenSSHPrivateKey(data, password)
}

func parseDERPrivateKey(der []byte) (*rsa.PrivateKey, error) {
	if priv, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return priv, nil
	}
	if parsed, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		priv, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, ErrNotRSA
		}
		return priv, nil
	}
	return nil, ErrUnknownFormat
}

func parseOpenSSHPrivateKey(data []byte, password string) (*rsa.PrivateKey, error) {
	var parsed interface{}
	var err error
	if password != "" {
		parsed, err = ssh.ParseRawPrivateKeyWithPassphrase(data, []byte(password))
	} else {
		parsed, err = ssh.ParseRawPrivateKey(data)
	}
	if err != nil {
		return nil, err
	}
	priv, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return priv, nil
}

func asRSAPublicKey(parsed interface{}) (*rsa.PublicKey, error) {
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return pub, nil
}

func sshToRSAPublicKey(pub ssh.PublicKey) (*rsa.PublicKey, error) {
	cryptoPub, ok := pub.(ssh.CryptoPublicKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return asRSAPublicKey(cryptoPub.CryptoPublicKey())
}

// ToRSAPrivateKey converts a recovered PrivateKey into the standard
// library representation. The key must have exactly two prime factors.
func ToRSAPrivateKey(pk *key.PrivateKey) (*rsa.PrivateKey, error) {
	if pk.OtherFactors != nil && pk.OtherFactors.Len() > 0 {
		return nil, fmt.Errorf("keyio: only two-prime keys can be exported, got %d extra factors", pk.OtherFactors.Len())
	}
	priv := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{
			N: new(big.Int).Set(pk.N),
			E: int(pk.E.Int64()),
		},
		D:      new(big.Int).Set(pk.D),
		Primes: []*big.Int{new(big.Int).Set(pk.P), new(big.Int).Set(pk.Q)},
	}
	priv.Precompute()
	return priv, nil
}
