// Package envfile converts a Google service-account JSON credential into a
// Cloud-Run-compatible environment file. The transform is deterministic:
// load, validate, render fully in memory, then one atomic write.
package envfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Sentinel errors distinguishing the credential failure modes.
var (
	// ErrCredentialNotFound reports a missing input file.
	ErrCredentialNotFound = errors.New("service account file not found")
	// ErrCredentialMalformed reports undecodable JSON.
	ErrCredentialMalformed = errors.New("malformed service account file")
	// ErrCredentialIncomplete reports a required field that is empty.
	ErrCredentialIncomplete = errors.New("incomplete service account file")
)

// ServiceAccount is the fixed allow-list of fields extracted from a
// service-account JSON document. Keys outside this set are ignored.
//
// PrivateKey holds the decoded key material (real newlines); rendering
// re-applies JSON string escaping so the emitted value carries literal \n
// sequences exactly as the source file did.
type ServiceAccount struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
	UniverseDomain          string `json:"universe_domain"`
}

// requiredFields lists the JSON keys a usable credential must carry. A blank
// private key or client email would silently produce an unusable env file,
// so absence is an error unless lenient mode is requested.
var requiredFields = []struct {
	key   string
	value func(*ServiceAccount) string
}{
	{"type", func(sa *ServiceAccount) string { return sa.Type }},
	{"project_id", func(sa *ServiceAccount) string { return sa.ProjectID }},
	{"private_key_id", func(sa *ServiceAccount) string { return sa.PrivateKeyID }},
	{"private_key", func(sa *ServiceAccount) string { return sa.PrivateKey }},
	{"client_email", func(sa *ServiceAccount) string { return sa.ClientEmail }},
	{"client_id", func(sa *ServiceAccount) string { return sa.ClientID }},
	{"auth_uri", func(sa *ServiceAccount) string { return sa.AuthURI }},
	{"token_uri", func(sa *ServiceAccount) string { return sa.TokenURI }},
	{"auth_provider_x509_cert_url", func(sa *ServiceAccount) string { return sa.AuthProviderX509CertURL }},
	{"client_x509_cert_url", func(sa *ServiceAccount) string { return sa.ClientX509CertURL }},
}

// Load reads and decodes a service-account JSON file, mapping failures to the
// typed credential errors.
func Load(path string) (*ServiceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCredentialNotFound, path)
		}
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialMalformed, err)
	}
	return &sa, nil
}

// Validate checks that every required field is present and non-empty.
func (sa *ServiceAccount) Validate() error {
	for _, f := range requiredFields {
		if f.value(sa) == "" {
			return fmt.Errorf("%w: missing %s", ErrCredentialIncomplete, f.key)
		}
	}
	return nil
}
