package httpsig

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"hash"
)

// Algorithm identifies a signature algorithm from the draft-cavage HTTP
// Signatures registry.
type Algorithm string

const (
	// AlgorithmHMACSHA1 is HMAC using SHA-1.
	AlgorithmHMACSHA1 Algorithm = "hmac-sha1"

	// AlgorithmHMACSHA256 is HMAC using SHA-256.
	AlgorithmHMACSHA256 Algorithm = "hmac-sha256"

	// AlgorithmHMACSHA512 is HMAC using SHA-512.
	AlgorithmHMACSHA512 Algorithm = "hmac-sha512"

	// AlgorithmRSASHA1 is RSASSA-PKCS1-v1_5 using SHA-1.
	AlgorithmRSASHA1 Algorithm = "rsa-sha1"

	// AlgorithmRSASHA256 is RSASSA-PKCS1-v1_5 using SHA-256.
	AlgorithmRSASHA256 Algorithm = "rsa-sha256"

	// AlgorithmRSASHA512 is RSASSA-PKCS1-v1_5 using SHA-512.
	AlgorithmRSASHA512 Algorithm = "rsa-sha512"

	// AlgorithmECDSASHA256 is ECDSA using SHA-256 with an ASN.1-encoded
	// signature.
	AlgorithmECDSASHA256 Algorithm = "ecdsa-sha256"

	// AlgorithmEd25519 is Edwards-Curve Digital Signature Algorithm
	// using curve 25519.
	AlgorithmEd25519 Algorithm = "ed25519"
)

// String returns the string representation of the algorithm as it appears
// in the algorithm signature parameter.
func (a Algorithm) String() string {
	return string(a)
}

// verifySignature checks signature over message using the given algorithm
// and secret material.
//
// For HMAC algorithms the secret is the shared key; no minimum length is
// imposed, key strength is the embedding application's policy. For the
// asymmetric algorithms the secret is a PEM-encoded public key (PKIX or
// PKCS#1 for RSA).
func verifySignature(alg Algorithm, secret, message, signature []byte) error {
	switch alg {
	case AlgorithmHMACSHA1:
		return verifyHMAC(sha1.New, secret, message, signature)

	case AlgorithmHMACSHA256:
		return verifyHMAC(sha256.New, secret, message, signature)

	case AlgorithmHMACSHA512:
		return verifyHMAC(sha512.New, secret, message, signature)

	case AlgorithmRSASHA1:
		return verifyRSA(crypto.SHA1, secret, message, signature)

	case AlgorithmRSASHA256:
		return verifyRSA(crypto.SHA256, secret, message, signature)

	case AlgorithmRSASHA512:
		return verifyRSA(crypto.SHA512, secret, message, signature)

	case AlgorithmECDSASHA256:
		return verifyECDSA(secret, message, signature)

	case AlgorithmEd25519:
		return verifyEd25519(secret, message, signature)

	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
}

func verifyHMAC(newHash func() hash.Hash, key, message, signature []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("%w: empty hmac key", ErrInvalidKey)
	}

	mac := hmac.New(newHash, key)
	mac.Write(message)

	if !hmac.Equal(mac.Sum(nil), signature) {
		return ErrSignatureMismatch
	}

	return nil
}

func verifyRSA(h crypto.Hash, keyPEM, message, signature []byte) error {
	pub, err := parsePublicKey(keyPEM)
	if err != nil {
		return err
	}

	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: not an rsa public key", ErrInvalidKey)
	}

	hasher := h.New()
	hasher.Write(message)

	if err := rsa.VerifyPKCS1v15(rsaPub, h, hasher.Sum(nil), signature); err != nil {
		return ErrSignatureMismatch
	}

	return nil
}

func verifyECDSA(keyPEM, message, signature []byte) error {
	pub, err := parsePublicKey(keyPEM)
	if err != nil {
		return err
	}

	ecdsaPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: not an ecdsa public key", ErrInvalidKey)
	}

	digest := sha256.Sum256(message)
	if !ecdsa.VerifyASN1(ecdsaPub, digest[:], signature) {
		return ErrSignatureMismatch
	}

	return nil
}

func verifyEd25519(keyPEM, message, signature []byte) error {
	pub, err := parsePublicKey(keyPEM)
	if err != nil {
		return err
	}

	edPub, ok := pub.(ed25519.PublicKey)
	if !ok {
		return fmt.Errorf("%w: not an ed25519 public key", ErrInvalidKey)
	}

	if !ed25519.Verify(edPub, message, signature) {
		return ErrSignatureMismatch
	}

	return nil
}

// parsePublicKey decodes PEM-encoded public key material. PKIX
// ("PUBLIC KEY") and PKCS#1 ("RSA PUBLIC KEY") blocks are accepted.
func parsePublicKey(keyPEM []byte) (any, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, fmt.Errorf("%w: no pem block found", ErrInvalidKey)
	}

	switch block.Type {
	case "PUBLIC KEY":
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}

		return pub, nil

	case "RSA PUBLIC KEY":
		pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}

		return pub, nil

	default:
		return nil, fmt.Errorf("%w: unsupported pem block %q", ErrInvalidKey, block.Type)
	}
}
