// Package profile holds the runtime configuration of the assistant.
package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultModel      = "gpt-5.2"
	DefaultAppName    = "Safar Travel AI Agent"
	DefaultAddr       = "127.0.0.1:8081"
	DefaultPolicyPath = "data/company_policy.txt"
	DefaultMaxSteps   = 5
	DefaultLLMTimeout = 30 * time.Second
)

// ErrMissingCredentials is the startup precondition failure reported when the
// completion endpoint is not configured.
var ErrMissingCredentials = errors.New("AVALAI_API_KEY and AVALAI_BASE_URL must be set in the environment or a .env file")

// Profile is the configuration for a running assistant.
type Profile struct {
	// AIModel is the completion model identifier.
	AIModel string
	APIKey  string
	BaseURL string
	// AppName is the display name shown to users.
	AppName string

	Addr   string
	Driver string
	DSN    string

	PolicyPath string
	// EmbeddingModel selects an OpenAI-compatible embedding model for the policy
	// index. Empty keeps embeddings local.
	EmbeddingModel string

	MaxSteps   int
	LLMTimeout time.Duration
	JWTSecret  string

	LogLevel  string
	LogPretty bool
}

// NewViper returns a viper instance with defaults applied and the environment
// (including a .env file in the working directory, if any) bound.
func NewViper() *viper.Viper {
	// A missing .env file is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("MODEL_NAME", DefaultModel)
	v.SetDefault("APP_NAME", DefaultAppName)
	v.SetDefault("SAFAR_ADDR", DefaultAddr)
	v.SetDefault("SAFAR_DRIVER", "memory")
	v.SetDefault("SAFAR_POLICY_PATH", DefaultPolicyPath)
	v.SetDefault("SAFAR_MAX_STEPS", DefaultMaxSteps)
	v.SetDefault("SAFAR_LLM_TIMEOUT", DefaultLLMTimeout)
	v.SetDefault("SAFAR_LOG_LEVEL", "info")
	v.SetDefault("SAFAR_LOG_PRETTY", true)
	for _, key := range []string{"AVALAI_API_KEY", "AVALAI_BASE_URL", "SAFAR_DSN", "SAFAR_EMBEDDING_MODEL", "SAFAR_JWT_SECRET"} {
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()
	return v
}

// FromViper builds a profile from v. It does not validate.
func FromViper(v *viper.Viper) *Profile {
	return &Profile{
		AIModel:        v.GetString("MODEL_NAME"),
		APIKey:         v.GetString("AVALAI_API_KEY"),
		BaseURL:        v.GetString("AVALAI_BASE_URL"),
		AppName:        v.GetString("APP_NAME"),
		Addr:           v.GetString("SAFAR_ADDR"),
		Driver:         v.GetString("SAFAR_DRIVER"),
		DSN:            v.GetString("SAFAR_DSN"),
		PolicyPath:     v.GetString("SAFAR_POLICY_PATH"),
		EmbeddingModel: v.GetString("SAFAR_EMBEDDING_MODEL"),
		MaxSteps:       v.GetInt("SAFAR_MAX_STEPS"),
		LLMTimeout:     v.GetDuration("SAFAR_LLM_TIMEOUT"),
		JWTSecret:      v.GetString("SAFAR_JWT_SECRET"),
		LogLevel:       v.GetString("SAFAR_LOG_LEVEL"),
		LogPretty:      v.GetBool("SAFAR_LOG_PRETTY"),
	}
}

// Validate checks startup preconditions and fills defaults for zero values.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.APIKey) == "" || strings.TrimSpace(p.BaseURL) == "" {
		return ErrMissingCredentials
	}
	if p.AIModel == "" {
		p.AIModel = DefaultModel
	}
	if p.AppName == "" {
		p.AppName = DefaultAppName
	}
	if p.MaxSteps <= 0 {
		p.MaxSteps = DefaultMaxSteps
	}
	if p.LLMTimeout <= 0 {
		p.LLMTimeout = DefaultLLMTimeout
	}
	switch p.Driver {
	case "", "memory":
		p.Driver = "memory"
	case "sqlite":
	case "postgres", "mysql":
		if p.DSN == "" {
			return fmt.Errorf("SAFAR_DSN is required for driver %q", p.Driver)
		}
	default:
		return fmt.Errorf("unsupported driver %q", p.Driver)
	}
	return nil
}
