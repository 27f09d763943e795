package secrets

// DefaultRules returns the default set of secret detection rules. Persona's
// own credentials come first; the rest are common credentials that show up
// in free-text fields and API log bodies.
func DefaultRules() []Rule {
	return []Rule{
		// Persona (prefixes are self-identifying)
		{
			ID:          "persona-api-key",
			Description: "Persona API Key",
			Pattern:     `persona_(?:sandbox|production)_[A-Za-z0-9_\-]{16,}`,
			Severity:    "high",
		},
		{
			ID:          "persona-webhook-secret",
			Description: "Persona Webhook Signing Secret",
			Pattern:     `wbhsec_[A-Za-z0-9_\-]{16,}`,
			Severity:    "high",
		},

		// AWS
		{
			ID:          "aws-access-key-id",
			Description: "AWS Access Key ID",
			Pattern:     `(?:A3T[A-Z0-9]|AKIA|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASIA)[A-Z0-9]{16}`,
			Severity:    "high",
		},
		{
			ID:          "aws-secret-access-key",
			Description: "AWS Secret Access Key",
			Pattern:     `(?i)(?:aws_secret_access_key|aws_secret_key|secret_access_key)\s*[:=]\s*['"]?([A-Za-z0-9/+=]{40})['"]?`,
			Keywords:    []string{"aws", "secret"},
			Severity:    "high",
		},

		// Generic
		{
			ID:          "generic-api-key",
			Description: "Generic API Key",
			Pattern:     `(?i)(?:api[_-]?key|apikey)\s*[:=]\s*['"]?([A-Za-z0-9_\-]{16,64})['"]?`,
			Keywords:    []string{"api", "key"},
			Severity:    "high",
		},
		{
			ID:          "bearer-token",
			Description: "Bearer Token",
			Pattern:     `(?i)bearer\s+[A-Za-z0-9_\-\.=]{20,}`,
			Keywords:    []string{"bearer"},
			Severity:    "medium",
		},
		{
			ID:          "private-key",
			Description: "Private Key",
			Pattern:     `-----BEGIN (?:RSA |DSA |EC |OPENSSH |PGP )?PRIVATE KEY(?:[- ]BLOCK)?-----`,
			Severity:    "high",
		},
	}
}
