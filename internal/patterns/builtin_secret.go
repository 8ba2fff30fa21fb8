package patterns

// builtinSecrets is ordered by priority: when two patterns match
// overlapping text, the earlier one claims it.
var builtinSecrets = []SecretPattern{
	{
		ID: "pem-private-key", Type: PrivateKey, FixedFormat: true,
		Regex:       `(?s)-----BEGIN [A-Z0-9 ]*PRIVATE KEY-----.*?-----END [A-Z0-9 ]*PRIVATE KEY-----`,
		Keep:        `-----BEGIN [A-Z0-9 ]*PRIVATE KEY-----`,
		Description: "PEM-encoded private key block",
	},
	{
		ID: "pem-private-key-truncated", Type: PrivateKey, FixedFormat: true,
		Regex:       `-----BEGIN [A-Z0-9 ]*PRIVATE KEY-----[A-Za-z0-9+/=\s]*`,
		Keep:        `-----BEGIN [A-Z0-9 ]*PRIVATE KEY-----`,
		Description: "PEM private key header without a closing line",
	},
	{
		ID: "credential-url", Type: DatabaseURL, FixedFormat: true,
		Regex:       `\b[a-zA-Z][a-zA-Z0-9+.-]*://[^\s:/@'"]+:[^\s@/'"]+@[^\s'"]+`,
		Keep:        `[a-zA-Z][a-zA-Z0-9+.-]*://`,
		Description: "Connection string with an embedded password",
	},
	{
		ID: "anthropic-api-key", Type: APIKey, FixedFormat: true,
		Regex:       `\bsk-ant-[A-Za-z0-9_-]{20,}`,
		Keep:        `sk-ant-(?:[a-z]+[0-9]{2}-)?`,
		Description: "Anthropic API key",
	},
	{
		ID: "openai-project-key", Type: APIKey, FixedFormat: true,
		Regex:       `\bsk-(?:proj|svcacct|admin)-[A-Za-z0-9_-]{20,}`,
		Keep:        `sk-[a-z]+-`,
		Description: "OpenAI project or service account key",
	},
	{
		ID: "openai-api-key", Type: APIKey, FixedFormat: true,
		Regex:       `\bsk-[A-Za-z0-9]{32,}`,
		Keep:        `sk-`,
		Description: "OpenAI legacy API key",
	},
	{
		ID: "github-token", Type: APIKey, FixedFormat: true,
		Regex:       `\b(?:gh[pousr]_[A-Za-z0-9]{36,}|github_pat_[A-Za-z0-9_]{22,})`,
		Keep:        `gh[pousr]_|github_pat_`,
		Description: "GitHub personal access or app token",
	},
	{
		ID: "aws-access-key-id", Type: AWSKey, FixedFormat: true,
		Regex:       `\b(?:AKIA|ASIA|AGPA|AIDA|AROA|ANPA|ANVA|AIPA)[A-Z0-9]{16}\b`,
		Keep:        `[A-Z]{4}`,
		Description: "AWS access key ID",
	},
	{
		ID: "aws-secret-access-key", Type: AWSKey, FixedFormat: true,
		Regex:       `(?i)aws_?secret_?(?:access_?)?key["']?\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})(?:[^A-Za-z0-9/+=]|$)`,
		Description: "AWS secret access key assignment",
	},
	{
		ID: "slack-token", Type: APIKey, FixedFormat: true,
		Regex:       `\bxox[baprs]-[A-Za-z0-9-]{10,}`,
		Keep:        `xox[baprs]-`,
		Description: "Slack token",
	},
	{
		ID: "stripe-key", Type: APIKey, FixedFormat: true,
		Regex:       `\b[rs]k_(?:live|test)_[A-Za-z0-9]{16,}`,
		Keep:        `[rs]k_(?:live|test)_`,
		Description: "Stripe secret or restricted key",
	},
	{
		ID: "google-api-key", Type: APIKey, FixedFormat: true,
		Regex:       `\bAIza[0-9A-Za-z_-]{35}`,
		Keep:        `AIza`,
		Description: "Google API key",
	},

	// Entropy candidates.
	{
		ID: "quoted-assignment", Type: GenericHighEntropy,
		Regex:       `[A-Za-z_][A-Za-z0-9_.-]*["']?\s*[:=]\s*(?:"([^"\s]{8,})"|'([^'\s]{8,})')`,
		Description: "Quoted value assigned to a name, with high entropy",
	},
	{
		ID: "credential-assignment", Type: GenericHighEntropy,
		Regex:       `(?i)\b[a-z0-9_.-]*(?:key|token|secret|passw(?:or)?d|pwd|credential|auth)[a-z0-9_]*\s*[:=]\s*([^\s"'` + "`" + `;,&|<>()]{8,})`,
		Description: "Unquoted credential-like assignment with high entropy",
	},
}

// BuiltinSecrets returns a compiled copy of the built-in secret table.
func BuiltinSecrets() []SecretPattern {
	return append([]SecretPattern(nil), compiledSecrets...)
}

var compiledSecrets = mustCompileSecrets(builtinSecrets)

func mustCompileSecrets(in []SecretPattern) []SecretPattern {
	out := make([]SecretPattern, len(in))
	copy(out, in)
	for i := range out {
		if err := out[i].Compile(); err != nil {
			panic(err)
		}
	}
	return out
}
