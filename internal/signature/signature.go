/**
 * @description
 * This file implements verification of lexoffice webhook signatures.
 * lexoffice signs every webhook delivery with its RSA private key and
 * transmits the signature base64-encoded in the X-Lxo-Signature header.
 *
 * @notes
 * - The signed input is not the body as delivered: lexoffice strips all
 *   whitespace from the JSON body before hashing, including whitespace
 *   inside string values. Verification reproduces that exact
 *   canonicalization, so callers must pass the body through unmodified.
 * - The scheme is RSA PKCS#1 v1.5 over a SHA-512 digest.
 * - Key material is loaded once at startup; Verify itself is a pure
 *   function and safe for concurrent use.
 */
package signature

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
)

// Header is the HTTP request header that carries the webhook signature.
const Header = "X-Lxo-Signature"

// ParsePublicKey parses a PEM-encoded RSA public key. Both PKIX and PKCS#1
// encodings are accepted.
func ParsePublicKey(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in key material")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		if key, pkcs1Err := x509.ParsePKCS1PublicKey(block.Bytes); pkcs1Err == nil {
			return key, nil
		}
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is %T, expected an RSA key", parsed)
	}
	return key, nil
}

// LoadPublicKey reads and parses a PEM-encoded RSA public key from a file.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	pemData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file: %w", err)
	}
	return ParsePublicKey(pemData)
}

// Canonicalize strips all ASCII whitespace from a webhook body, matching
// the transformation the lexoffice signer applies before hashing.
func Canonicalize(payload []byte) []byte {
	out := make([]byte, 0, len(payload))
	for _, b := range payload {
		switch b {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			continue
		}
		out = append(out, b)
	}
	return out
}

// Verify reports whether signatureB64 is a valid signature over payload.
func Verify(publicKey *rsa.PublicKey, signatureB64 string, payload []byte) bool {
	if publicKey == nil || signatureB64 == "" {
		return false
	}

	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return false
	}

	digest := sha512.Sum512(Canonicalize(payload))
	return rsa.VerifyPKCS1v15(publicKey, crypto.SHA512, digest[:], sig) == nil
}
