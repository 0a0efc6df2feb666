package contracts

import "fmt"

// ProviderKeyMapping ties an LLM provider to the environment variable that
// holds its API key.
type ProviderKeyMapping struct {
	ProviderID string `json:"provider_id"`
	APIKeyEnv  string `json:"api_key_env"`
	// Required providers must have a key for the runner to start.
	Required    bool    `json:"required"`
	DisplayName *string `json:"display_name,omitempty"`
}

// Name is DisplayName when set, otherwise ProviderID.
func (m ProviderKeyMapping) Name() string {
	if m.DisplayName != nil && *m.DisplayName != "" {
		return *m.DisplayName
	}
	return m.ProviderID
}

type RunnerProviderConfig struct {
	Providers map[string]ProviderKeyMapping `json:"providers"`
	// SkipValidation mirrors the runner's --skip-key-check flag.
	SkipValidation *bool `json:"skip_validation,omitempty"`
}

type ProviderValidationCheck struct {
	ProviderID string `json:"provider_id"`
	APIKeyEnv  string `json:"api_key_env"`
	Present    bool   `json:"present"`
	Required   bool   `json:"required"`
	Message    string `json:"message"`
}

type ProviderValidationResult struct {
	Valid           bool                      `json:"valid"`
	Checks          []ProviderValidationCheck `json:"checks"`
	MissingRequired []string                  `json:"missing_required"`
	MissingOptional []string                  `json:"missing_optional"`
}

func strptr(s string) *string { return &s }

// DefaultProviderMappings returns the stock provider table. Each call returns
// a fresh map.
func DefaultProviderMappings() map[string]ProviderKeyMapping {
	return map[string]ProviderKeyMapping{
		"anthropic": {
			ProviderID:  "anthropic",
			APIKeyEnv:   "ANTHROPIC_API_KEY",
			Required:    true,
			DisplayName: strptr("Anthropic"),
		},
		"openai": {
			ProviderID:  "openai",
			APIKeyEnv:   "OPENAI_API_KEY",
			Required:    false,
			DisplayName: strptr("OpenAI"),
		},
	}
}

// ValidateProviderKeys checks each provider's key variable through lookup,
// which has the signature of os.LookupEnv. A variable that is set but empty
// counts as missing. Providers are reported in key order.
func ValidateProviderKeys(providers map[string]ProviderKeyMapping, lookup func(string) (string, bool)) ProviderValidationResult {
	res := ProviderValidationResult{
		Valid:           true,
		Checks:          make([]ProviderValidationCheck, 0, len(providers)),
		MissingRequired: []string{},
		MissingOptional: []string{},
	}
	for _, id := range sortedKeys(providers) {
		m := providers[id]
		val, ok := lookup(m.APIKeyEnv)
		present := ok && val != ""
		chk := ProviderValidationCheck{
			ProviderID: m.ProviderID,
			APIKeyEnv:  m.APIKeyEnv,
			Present:    present,
			Required:   m.Required,
		}
		switch {
		case present:
			chk.Message = fmt.Sprintf("%s key found in %s", m.Name(), m.APIKeyEnv)
		case m.Required:
			chk.Message = fmt.Sprintf("%s key missing: set %s", m.Name(), m.APIKeyEnv)
			res.MissingRequired = append(res.MissingRequired, m.ProviderID)
			res.Valid = false
		default:
			chk.Message = fmt.Sprintf("%s key not set (%s); provider disabled", m.Name(), m.APIKeyEnv)
			res.MissingOptional = append(res.MissingOptional, m.ProviderID)
		}
		res.Checks = append(res.Checks, chk)
	}
	return res
}

func checkProviderKeyMapping(c *checker) {
	c.str("provider_id")
	c.str("api_key_env")
	c.boolean("required")
	c.optStr("display_name")
}

func CheckProviderKeyMapping(v any) error {
	return check("provider_key_mapping", v, checkProviderKeyMapping)
}

func IsProviderKeyMapping(v any) bool { return CheckProviderKeyMapping(v) == nil }

func checkRunnerProviderConfig(c *checker) {
	c.entries("providers", checkProviderKeyMapping)
	c.optBoolean("skip_validation")
}

func CheckRunnerProviderConfig(v any) error {
	return check("runner_provider_config", v, checkRunnerProviderConfig)
}

func checkProviderValidationCheck(c *checker) {
	c.str("provider_id")
	c.str("api_key_env")
	c.boolean("present")
	c.boolean("required")
	c.str("message")
}

func checkProviderValidationResult(c *checker) {
	c.boolean("valid")
	c.list("checks", checkProviderValidationCheck)
	c.strs("missing_required")
	c.strs("missing_optional")
}

func CheckProviderValidationResult(v any) error {
	return check("provider_validation_result", v, checkProviderValidationResult)
}
