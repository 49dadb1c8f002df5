package envfile

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultUniverseDomain is emitted as a commented placeholder when the
// credential carries no universe_domain of its own.
const DefaultUniverseDomain = "googleapis.com"

// Placeholder defaults for the deployment variables when neither a flag nor
// an environment value supplies them.
const (
	PlaceholderSerpAPIKey    = "your-serpapi-api-key"
	PlaceholderAgentEngineID = "projects/PROJECT_NUMBER/locations/LOCATION/reasoningEngines/ENGINE_ID"
	PlaceholderProject       = "your-gcp-project"
	DefaultLocation          = "us-central1"
)

// Options are the named inputs of the transform. The four deployment values
// are resolved by the caller (flags and process environment) before the
// transform runs; the transform itself performs no ambient lookups.
type Options struct {
	SerpAPIKey    string
	AgentEngineID string
	Project       string
	Location      string

	// Lenient tolerates missing required credential fields, rendering them
	// as empty quoted strings the way the original shell pipeline did.
	Lenient bool
}

// withDefaults fills unset options. The project falls back to the
// credential's own project id before the generic placeholder.
func (o Options) withDefaults(sa *ServiceAccount) Options {
	if o.SerpAPIKey == "" {
		o.SerpAPIKey = PlaceholderSerpAPIKey
	}
	if o.AgentEngineID == "" {
		o.AgentEngineID = PlaceholderAgentEngineID
	}
	if o.Project == "" {
		o.Project = sa.ProjectID
	}
	if o.Project == "" {
		o.Project = PlaceholderProject
	}
	if o.Location == "" {
		o.Location = DefaultLocation
	}
	return o
}

// Render produces the full environment-file content in memory. Field order is
// fixed: four deployment vars, a blank line, the ten credential vars, and the
// universe-domain line last (active when present, commented default when not).
func Render(sa *ServiceAccount, opts Options) (string, error) {
	if sa == nil {
		return "", fmt.Errorf("%w: no credential", ErrCredentialMalformed)
	}
	if !opts.Lenient {
		if err := sa.Validate(); err != nil {
			return "", err
		}
	}
	opts = opts.withDefaults(sa)

	var b strings.Builder
	writeLine := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(quote(value))
		b.WriteByte('\n')
	}

	writeLine("SERPAPI_API_KEY", opts.SerpAPIKey)
	writeLine("VERTEX_AI_AGENT_ENGINE_ID", opts.AgentEngineID)
	writeLine("GOOGLE_CLOUD_PROJECT", opts.Project)
	writeLine("GOOGLE_CLOUD_LOCATION", opts.Location)
	b.WriteByte('\n')

	writeLine("VERTEXAI_SERVICE_ACCOUNT_TYPE", sa.Type)
	writeLine("VERTEXAI_SERVICE_ACCOUNT_PROJECT_ID", sa.ProjectID)
	writeLine("VERTEXAI_SERVICE_ACCOUNT_PRIVATE_KEY_ID", sa.PrivateKeyID)

	// The private key must round-trip with its embedded newline escapes
	// intact, so it is re-serialised with JSON string escaping rather than
	// the generic quoting routine.
	keyJSON, err := json.Marshal(sa.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("encode private key: %w", err)
	}
	b.WriteString("VERTEXAI_SERVICE_ACCOUNT_PRIVATE_KEY: ")
	b.Write(keyJSON)
	b.WriteByte('\n')

	writeLine("VERTEXAI_SERVICE_ACCOUNT_CLIENT_EMAIL", sa.ClientEmail)
	writeLine("VERTEXAI_SERVICE_ACCOUNT_CLIENT_ID", sa.ClientID)
	writeLine("VERTEXAI_SERVICE_ACCOUNT_AUTH_URI", sa.AuthURI)
	writeLine("VERTEXAI_SERVICE_ACCOUNT_TOKEN_URI", sa.TokenURI)
	writeLine("VERTEXAI_SERVICE_ACCOUNT_AUTH_PROVIDER_X509_CERT_URL", sa.AuthProviderX509CertURL)
	writeLine("VERTEXAI_SERVICE_ACCOUNT_CLIENT_X509_CERT_URL", sa.ClientX509CertURL)

	if sa.UniverseDomain != "" {
		writeLine("VERTEXAI_SERVICE_ACCOUNT_UNIVERSE_DOMAIN", sa.UniverseDomain)
	} else {
		b.WriteString("# VERTEXAI_SERVICE_ACCOUNT_UNIVERSE_DOMAIN: ")
		b.WriteString(quote(DefaultUniverseDomain))
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// quote wraps a value in double quotes, escaping backslashes and embedded
// quotes. Used for every field except the private key.
func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}
