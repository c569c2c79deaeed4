package signature

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
)

func generateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	return key
}

func sign(t *testing.T, key *rsa.PrivateKey, payload []byte) string {
	t.Helper()
	digest := sha512.Sum512(Canonicalize(payload))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA512, digest[:])
	if err != nil {
		t.Fatalf("failed to sign test payload: %v", err)
	}
	return base64.StdEncoding.EncodeToString(sig)
}

func encodePKIX(t *testing.T, key *rsa.PublicKey) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func TestVerifyValidSignature(t *testing.T) {
	key := generateKey(t)
	payload := []byte(`{"organizationId":"aa93e8a8","eventType":"contact.changed","resourceId":"e9066f04"}`)

	if !Verify(&key.PublicKey, sign(t, key, payload), payload) {
		t.Error("expected a valid signature to verify")
	}
}

func TestVerifyIgnoresWhitespaceDifferences(t *testing.T) {
	key := generateKey(t)
	compact := []byte(`{"eventType":"contact.changed","resourceId":"e9066f04"}`)
	pretty := []byte("{\n  \"eventType\": \"contact.changed\",\r\n  \"resourceId\": \"e9066f04\"\n}\n")

	sig := sign(t, key, compact)

	if !Verify(&key.PublicKey, sig, pretty) {
		t.Error("expected a reformatted body to verify against the same signature")
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	key := generateKey(t)
	payload := []byte(`{"eventType":"contact.changed","resourceId":"e9066f04"}`)
	sig := sign(t, key, payload)

	tampered := make([]byte, len(payload))
	copy(tampered, payload)
	tampered[len(tampered)-3] ^= 0x01

	if Verify(&key.PublicKey, sig, tampered) {
		t.Error("expected a single flipped bit to fail verification")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	signer := generateKey(t)
	other := generateKey(t)
	payload := []byte(`{"eventType":"contact.created"}`)

	if Verify(&other.PublicKey, sign(t, signer, payload), payload) {
		t.Error("expected a signature from a different key to fail verification")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	key := generateKey(t)
	payload := []byte(`{}`)

	if Verify(&key.PublicKey, "not-base64!!", payload) {
		t.Error("expected invalid base64 to fail verification")
	}
	if Verify(&key.PublicKey, "", payload) {
		t.Error("expected an empty signature to fail verification")
	}
	if Verify(nil, sign(t, key, payload), payload) {
		t.Error("expected a nil key to fail verification")
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "compact body unchanged",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "structural whitespace stripped",
			in:   "{\n  \"a\": 1,\r\n  \"b\": 2\n}",
			want: `{"a":1,"b":2}`,
		},
		{
			name: "whitespace inside strings stripped too",
			in:   `{"name": "Bike & Ride GmbH"}`,
			want: `{"name":"Bike&RideGmbH"}`,
		},
		{
			name: "vertical tab and form feed stripped",
			in:   "{\v\"a\":\f1}",
			want: `{"a":1}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := string(Canonicalize([]byte(tc.in))); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParsePublicKey(t *testing.T) {
	key := generateKey(t)

	t.Run("PKIX", func(t *testing.T) {
		parsed, err := ParsePublicKey(encodePKIX(t, &key.PublicKey))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if parsed.N.Cmp(key.PublicKey.N) != 0 {
			t.Error("expected the parsed key to match the generated key")
		}
	})

	t.Run("PKCS1", func(t *testing.T) {
		der := x509.MarshalPKCS1PublicKey(&key.PublicKey)
		pemData := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: der})
		if _, err := ParsePublicKey(pemData); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("no PEM block", func(t *testing.T) {
		if _, err := ParsePublicKey([]byte("not a key")); err == nil {
			t.Error("expected an error for non-PEM input")
		}
	})

	t.Run("non-RSA key", func(t *testing.T) {
		ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			t.Fatalf("failed to generate EC key: %v", err)
		}
		der, err := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
		if err != nil {
			t.Fatalf("failed to marshal EC key: %v", err)
		}
		pemData := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
		if _, err := ParsePublicKey(pemData); err == nil {
			t.Error("expected an error for a non-RSA key")
		}
	})
}

func TestLoadPublicKey(t *testing.T) {
	key := generateKey(t)
	path := filepath.Join(t.TempDir(), "lexoffice_public_key.pub")
	if err := os.WriteFile(path, encodePKIX(t, &key.PublicKey), 0o600); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}

	loaded, err := LoadPublicKey(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if loaded.N.Cmp(key.PublicKey.N) != 0 {
		t.Error("expected the loaded key to match the generated key")
	}

	if _, err := LoadPublicKey(filepath.Join(t.TempDir(), "missing.pub")); err == nil {
		t.Error("expected an error for a missing key file")
	}
}
