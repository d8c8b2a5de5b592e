// Package keystore provides a static credential source for the httpsig
// authenticator. Credentials and impersonation targets are declared in
// code or loaded from a YAML file, making it suitable for small
// deployments and tests; larger systems implement httpsig.Resolver
// against their own storage.
//
// A store file looks like:
//
//	credentials:
//	  - key_id: some-key
//	    algorithm: hmac-sha256
//	    secret: my secret string
//	    principal: alice
//	  - key_id: old-key
//	    algorithm: hmac-sha256
//	    secret: retired secret
//	    principal: alice
//	    disabled: true
//
//	users:
//	  - id: bob
//	    name: Bob Example
package keystore

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrDuplicateKeyID is returned when two credentials share a key_id.
var ErrDuplicateKeyID = errors.New("keystore: duplicate key id")

// ErrMissingKeyID is returned when a credential has an empty key_id.
var ErrMissingKeyID = errors.New("keystore: credential missing key id")

// Credential is one signing credential known to the store.
type Credential struct {
	// KeyID is the identifier clients present in the keyId parameter.
	KeyID string `yaml:"key_id"`

	// Algorithm pins the credential to one signature algorithm. When
	// set, requests declaring a different algorithm do not resolve.
	// When empty, the client-declared algorithm is accepted as-is.
	Algorithm string `yaml:"algorithm"`

	// Secret is the key material: the shared key for HMAC algorithms,
	// or a PEM-encoded public key for asymmetric ones.
	Secret string `yaml:"secret"`

	// Principal names the identity this credential authenticates.
	Principal string `yaml:"principal"`

	// Disabled credentials never resolve. They stay in the file so key
	// retirement does not reassign the key id.
	Disabled bool `yaml:"disabled"`
}

// User is an impersonation target referenced by On-Behalf-Of values.
type User struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// file is the YAML document layout.
type file struct {
	Credentials []Credential `yaml:"credentials"`
	Users       []User       `yaml:"users"`
}

// Store is an immutable credential source implementing httpsig.Resolver.
// It is safe for concurrent use.
type Store struct {
	credentials map[string]Credential
	users       map[string]User
}

// New builds a Store from credential and user lists.
func New(credentials []Credential, users []User) (*Store, error) {
	store := &Store{
		credentials: make(map[string]Credential, len(credentials)),
		users:       make(map[string]User, len(users)),
	}

	for _, cred := range credentials {
		if cred.KeyID == "" {
			return nil, ErrMissingKeyID
		}

		if _, exists := store.credentials[cred.KeyID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKeyID, cred.KeyID)
		}

		store.credentials[cred.KeyID] = cred
	}

	for _, user := range users {
		store.users[user.ID] = user
	}

	return store, nil
}

// Parse builds a Store from YAML document bytes.
func Parse(data []byte) (*Store, error) {
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("keystore: parse: %w", err)
	}

	return New(doc.Credentials, doc.Users)
}

// Load builds a Store from a YAML file on disk.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keystore: load: %w", err)
	}

	return Parse(data)
}

// ResolveCredential implements httpsig.Resolver. Unknown key ids,
// disabled credentials, and algorithm mismatches all return the same
// empty result.
func (s *Store) ResolveCredential(keyID, algorithm string) (any, []byte, error) {
	cred, ok := s.credentials[keyID]
	if !ok || cred.Disabled {
		return nil, nil, nil
	}

	if cred.Algorithm != "" && cred.Algorithm != algorithm {
		return nil, nil, nil
	}

	return cred.Principal, []byte(cred.Secret), nil
}

// ResolveImpersonation implements httpsig.Resolver.
func (s *Store) ResolveImpersonation(id string) (any, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}

	return user, nil
}
