package server

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the companion backend settings, read from the environment
type Config struct {
	Port          string
	LLMBaseURL    string
	LLMAPIKey     string
	LLMModel      string
	PromptsFile   string
	AllowedOrigin string
	LogLevel      string
}

// LoadConfig reads .env (if present) and the environment.
// Values already set in the environment win over .env.
func LoadConfig(envFiles ...string) Config {
	_ = godotenv.Load(envFiles...)
	return Config{
		Port:          getEnvDefault("PORT", "5000"),
		LLMBaseURL:    getEnvDefault("LLM_BASE_URL", "http://127.0.0.1:8080/v1"),
		LLMAPIKey:     os.Getenv("LLM_API_KEY"),
		LLMModel:      getEnvDefault("LLM_MODEL", "neural-chat-7b-v3-1"),
		PromptsFile:   os.Getenv("PROMPTS_FILE"),
		AllowedOrigin: getEnvDefault("ALLOWED_ORIGIN", "*"),
		LogLevel:      getEnvDefault("LOG_LEVEL", "info"),
	}
}

// Addr returns the listen address
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// origins splits ALLOWED_ORIGIN on commas
func (c Config) origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getEnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
