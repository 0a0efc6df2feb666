package contracts

import (
	"slices"
	"time"
)

// DeploymentProfile selects the self-hosted storage stack: plain Postgres
// with a PostgREST sidecar, or hosted Supabase.
type DeploymentProfile string

const (
	ProfilePostgres DeploymentProfile = "postgres"
	ProfileSupabase DeploymentProfile = "supabase"
)

var deploymentProfiles = []DeploymentProfile{ProfilePostgres, ProfileSupabase}

func DeploymentProfiles() []DeploymentProfile { return slices.Clone(deploymentProfiles) }
func (p DeploymentProfile) Valid() bool       { return slices.Contains(deploymentProfiles, p) }
func IsDeploymentProfile(v any) bool          { return member(deploymentProfiles, v) }

type SSLMode string

const (
	SSLDisable    SSLMode = "disable"
	SSLRequire    SSLMode = "require"
	SSLVerifyCA   SSLMode = "verify-ca"
	SSLVerifyFull SSLMode = "verify-full"
)

var sslModes = []SSLMode{SSLDisable, SSLRequire, SSLVerifyCA, SSLVerifyFull}

func IsSSLMode(v any) bool { return member(sslModes, v) }

// DatabaseConfig never carries the password itself, only the name of the
// environment variable that holds it.
type DatabaseConfig struct {
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	Database    string   `json:"database"`
	User        string   `json:"user"`
	PasswordEnv string   `json:"password_env"`
	SSLMode     *SSLMode `json:"ssl_mode,omitempty"`
}

type PostgRESTConfig struct {
	URL          string `json:"url"`
	DBSchemas    string `json:"db_schemas"`
	DBAnonRole   string `json:"db_anon_role"`
	JWTSecretEnv string `json:"jwt_secret_env"`
}

// ComposeConfig describes a docker compose deployment. Database and
// PostgREST apply to the postgres profile; the Supabase fields to the
// supabase profile.
type ComposeConfig struct {
	Profile                   DeploymentProfile `json:"profile"`
	ComposeFile               string            `json:"compose_file"`
	Database                  *DatabaseConfig   `json:"database,omitempty"`
	PostgREST                 *PostgRESTConfig  `json:"postgrest,omitempty"`
	SupabaseURL               *string           `json:"supabase_url,omitempty"`
	SupabaseServiceRoleKeyEnv *string           `json:"supabase_service_role_key_env,omitempty"`
	ControlPort               int               `json:"control_port"`
	RunnerName                *string           `json:"runner_name,omitempty"`
}

// ProfileChecks reports which profile-specific settings are missing, one
// check per setting.
func (c ComposeConfig) ProfileChecks() []SelfHostedValidationCheck {
	present := func(name string, ok bool) SelfHostedValidationCheck {
		if ok {
			return SelfHostedValidationCheck{Name: name, Status: StatusPass, Message: name + " configured"}
		}
		fix := "set " + name + " for the " + string(c.Profile) + " profile"
		return SelfHostedValidationCheck{Name: name, Status: StatusFail, Message: name + " missing", Remediation: &fix}
	}
	switch c.Profile {
	case ProfilePostgres:
		return []SelfHostedValidationCheck{
			present("database", c.Database != nil),
			present("postgrest", c.PostgREST != nil),
		}
	case ProfileSupabase:
		return []SelfHostedValidationCheck{
			present("supabase_url", c.SupabaseURL != nil && *c.SupabaseURL != ""),
			present("supabase_service_role_key_env", c.SupabaseServiceRoleKeyEnv != nil && *c.SupabaseServiceRoleKeyEnv != ""),
		}
	}
	return nil
}

type SelfHostedValidationCheck struct {
	Name        string       `json:"name"`
	Status      ResultStatus `json:"status"`
	Message     string       `json:"message"`
	Remediation *string      `json:"remediation,omitempty"`
}

type SelfHostedValidationResult struct {
	Profile   DeploymentProfile           `json:"profile"`
	Passed    bool                        `json:"passed"`
	Checks    []SelfHostedValidationCheck `json:"checks"`
	Timestamp time.Time                   `json:"timestamp"`
}

// NewSelfHostedValidationResult sets Passed when no check failed.
func NewSelfHostedValidationResult(profile DeploymentProfile, checks []SelfHostedValidationCheck, at time.Time) SelfHostedValidationResult {
	passed := !slices.ContainsFunc(checks, func(c SelfHostedValidationCheck) bool { return c.Status == StatusFail })
	if checks == nil {
		checks = []SelfHostedValidationCheck{}
	}
	return SelfHostedValidationResult{Profile: profile, Passed: passed, Checks: checks, Timestamp: at.UTC()}
}

func checkDatabaseConfig(c *checker) {
	c.str("host")
	c.required("port", "port number", func(v any) bool {
		f, ok := numberOf(v)
		return ok && isInteger(v) && f > 0 && f < 65536
	})
	c.str("database")
	c.str("user")
	c.str("password_env")
	c.optional("ssl_mode", "ssl mode", IsSSLMode)
}

func checkPostgRESTConfig(c *checker) {
	c.str("url")
	c.str("db_schemas")
	c.str("db_anon_role")
	c.str("jwt_secret_env")
}

func checkComposeConfig(c *checker) {
	c.required("profile", "deployment profile", IsDeploymentProfile)
	c.str("compose_file")
	c.optNested("database", checkDatabaseConfig)
	c.optNested("postgrest", checkPostgRESTConfig)
	c.optStr("supabase_url")
	c.optStr("supabase_service_role_key_env")
	c.count("control_port")
	c.optStr("runner_name")
}

func CheckComposeConfig(v any) error { return check("compose_config", v, checkComposeConfig) }

func checkSelfHostedValidationCheck(c *checker) {
	c.str("name")
	c.required("status", "pass, fail, skip or warn", predicate(validationStatuses))
	c.str("message")
	c.optStr("remediation")
}

func checkSelfHostedValidationResult(c *checker) {
	c.required("profile", "deployment profile", IsDeploymentProfile)
	c.boolean("passed")
	c.list("checks", checkSelfHostedValidationCheck)
	c.timestamp("timestamp")
}

func CheckSelfHostedValidationResult(v any) error {
	return check("self_hosted_validation_result", v, checkSelfHostedValidationResult)
}
