package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	OIDC struct {
		Issuer       string
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	Encryption struct {
		// Key is a base64-encoded 256-bit key for API-key encryption.
		Key string
	}
	LLM struct {
		// Base URL overrides for OpenAI-compatible gateways and tests.
		OpenAIBaseURL    string
		AnthropicBaseURL string
	}
	Generation      Generation
	SessionLifetime time.Duration
	InsecureCookies bool
}

// Generation holds the validation bounds and defaults for flashcard
// generation. The source-of-truth values live here, not in code, because
// deployments legitimately disagree on them.
type Generation struct {
	MinWords          int
	MaxWords          int
	MinCards          int
	MaxCards          int
	DefaultLanguage   string
	DefaultCardCount  int
	DefaultDifficulty string
	DefaultStyle      string
	DefaultFocusTypes []string
	// MaxImageBytes bounds the decoded size of an uploaded image data URI.
	MaxImageBytes int
}

// Load reads config from environment (SF_ prefix) and optional studyforge.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("studyforge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("generation.min_words", 20)
	v.SetDefault("generation.max_words", 5000)
	v.SetDefault("generation.min_cards", 5)
	v.SetDefault("generation.max_cards", 30)
	v.SetDefault("generation.default_language", "en")
	v.SetDefault("generation.default_card_count", 10)
	v.SetDefault("generation.default_difficulty", "basic")
	v.SetDefault("generation.default_style", "qa")
	v.SetDefault("generation.default_focus_types", []string{"definitions"})
	v.SetDefault("generation.max_image_bytes", 10*1024*1024)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.OIDC.Issuer = v.GetString("oidc.issuer")
	cfg.OIDC.ClientID = v.GetString("oidc.client_id")
	cfg.OIDC.ClientSecret = v.GetString("oidc.client_secret")
	cfg.OIDC.RedirectURL = v.GetString("oidc.redirect_url")
	cfg.Encryption.Key = v.GetString("encryption.key")
	cfg.LLM.OpenAIBaseURL = v.GetString("llm.openai_base_url")
	cfg.LLM.AnthropicBaseURL = v.GetString("llm.anthropic_base_url")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	cfg.Generation.MinWords = v.GetInt("generation.min_words")
	cfg.Generation.MaxWords = v.GetInt("generation.max_words")
	cfg.Generation.MinCards = v.GetInt("generation.min_cards")
	cfg.Generation.MaxCards = v.GetInt("generation.max_cards")
	cfg.Generation.DefaultLanguage = v.GetString("generation.default_language")
	cfg.Generation.DefaultCardCount = v.GetInt("generation.default_card_count")
	cfg.Generation.DefaultDifficulty = v.GetString("generation.default_difficulty")
	cfg.Generation.DefaultStyle = v.GetString("generation.default_style")
	cfg.Generation.DefaultFocusTypes = v.GetStringSlice("generation.default_focus_types")
	cfg.Generation.MaxImageBytes = v.GetInt("generation.max_image_bytes")

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid SF_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("SF_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("SF_DB_DSN is required")
	}
	if cfg.OIDC.Issuer == "" {
		return nil, fmt.Errorf("SF_OIDC_ISSUER is required")
	}
	if cfg.OIDC.ClientID == "" {
		return nil, fmt.Errorf("SF_OIDC_CLIENT_ID is required")
	}
	if cfg.OIDC.ClientSecret == "" {
		return nil, fmt.Errorf("SF_OIDC_CLIENT_SECRET is required")
	}
	if cfg.OIDC.RedirectURL == "" {
		return nil, fmt.Errorf("SF_OIDC_REDIRECT_URL is required")
	}
	if cfg.Encryption.Key == "" {
		return nil, fmt.Errorf("SF_ENCRYPTION_KEY is required (run `studyforge genkey`)")
	}
	if cfg.Generation.MinWords <= 0 || cfg.Generation.MaxWords < cfg.Generation.MinWords {
		return nil, fmt.Errorf("invalid generation word bounds: %d-%d",
			cfg.Generation.MinWords, cfg.Generation.MaxWords)
	}
	if cfg.Generation.MinCards <= 0 || cfg.Generation.MaxCards < cfg.Generation.MinCards {
		return nil, fmt.Errorf("invalid generation card bounds: %d-%d",
			cfg.Generation.MinCards, cfg.Generation.MaxCards)
	}

	return cfg, nil
}
