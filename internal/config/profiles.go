package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Built-in profile names
const (
	ProfileAssistant   = "assistant"
	ProfileECrypto     = "ecrypto"
	DefaultProfileName = ProfileAssistant
)

// Profile selects the endpoint a chat session talks to and how it presents itself
type Profile struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// EndpointURL receives free-text messages
	EndpointURL string `json:"endpoint_url"`
	// OptionEndpointURL receives preset options; EndpointURL is used when empty
	OptionEndpointURL string `json:"option_endpoint_url,omitempty"`
	// ErrorMessage is shown as the assistant's turn when a request fails
	ErrorMessage string `json:"error_message"`
	// FreeText enables the text input; when false only Options can be sent
	FreeText bool     `json:"free_text"`
	Options  []string `json:"options,omitempty"`
}

// OptionEndpoint returns the endpoint used for preset options
func (p Profile) OptionEndpoint() string {
	if p.OptionEndpointURL != "" {
		return p.OptionEndpointURL
	}
	return p.EndpointURL
}

// ProfileConfig stores user-defined profiles
type ProfileConfig struct {
	Profiles []Profile `json:"profiles"`
}

// DefaultProfiles returns the built-in profiles
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Name:         ProfileAssistant,
			Title:        "AI Assistant",
			Description:  "Start a conversation by typing a message below",
			EndpointURL:  "http://127.0.0.1:5000/api/chat",
			ErrorMessage: "⚠️ Error al conectar con la IA",
			FreeText:     true,
		},
		{
			Name:  ProfileECrypto,
			Title: "E-Crypto",
			Description: "Asistente de inversión en criptomonedas impulsado por IA, que analiza datos en tiempo real " +
				"mediante web scraping para ofrecer recomendaciones precisas. Utilizando noticias, tendencias sociales " +
				"y datos de mercado para identificar oportunidades y riesgos, ayudando a usuarios a tomar decisiones " +
				"informadas con lenguaje claro y accesible.",
			EndpointURL:       "http://localhost:8000/option/",
			OptionEndpointURL: "http://localhost:8000/option/",
			ErrorMessage:      "⚠️ Error al conectar con el servidor",
			FreeText:          false,
			Options: []string{
				"Cual es tu mejor prediccion en este momento?",
				"Que me recomiendas segun el comportamiendo de los ultimos 4 meses?",
				"Que me recomiendas en un largo plazo?",
				"Que me recomiendas en un corto plazo?",
				"Hablame de las cotizaciones en este momento",
			},
		},
	}
}

// GetProfilesPath returns the path to the profiles file
func GetProfilesPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "profiles.json"), nil
}

// LoadProfiles loads built-in profiles merged with user-defined ones
func LoadProfiles() (*ProfileConfig, error) {
	path, err := GetProfilesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProfileConfig{Profiles: DefaultProfiles()}, nil
		}
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	var cfg ProfileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	cfg.Profiles = mergeProfiles(DefaultProfiles(), cfg.Profiles)

	return &cfg, nil
}

// SaveProfiles saves the profile configuration
func SaveProfiles(cfg *ProfileConfig) error {
	path, err := GetProfilesPath()
	if err != nil {
		return err
	}

	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// GetProfile returns a profile by name
func GetProfile(name string) (*Profile, error) {
	cfg, err := LoadProfiles()
	if err != nil {
		return nil, err
	}

	for _, p := range cfg.Profiles {
		if p.Name == name {
			return &p, nil
		}
	}

	return nil, fmt.Errorf("profile '%s' not found", name)
}

// ListProfiles returns all profiles, built-ins first
func ListProfiles() ([]Profile, error) {
	cfg, err := LoadProfiles()
	if err != nil {
		return nil, err
	}
	return cfg.Profiles, nil
}

// loadCustomProfiles reads only the user-defined profiles from disk
func loadCustomProfiles() (*ProfileConfig, error) {
	path, err := GetProfilesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProfileConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	var cfg ProfileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}
	return &cfg, nil
}

// AddProfile adds a new user-defined profile
func AddProfile(profile Profile) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}

	if _, err := GetProfile(profile.Name); err == nil {
		return fmt.Errorf("profile '%s' already exists", profile.Name)
	}

	cfg, err := loadCustomProfiles()
	if err != nil {
		return err
	}
	cfg.Profiles = append(cfg.Profiles, profile)
	return SaveProfiles(cfg)
}

// DeleteProfile removes a user-defined profile. Deleting a custom profile
// that replaced a built-in one restores the built-in.
func DeleteProfile(name string) error {
	cfg, err := loadCustomProfiles()
	if err != nil {
		return err
	}

	for i, p := range cfg.Profiles {
		if p.Name == name {
			cfg.Profiles = append(cfg.Profiles[:i], cfg.Profiles[i+1:]...)
			return SaveProfiles(cfg)
		}
	}

	if isBuiltinProfile(name) {
		return fmt.Errorf("cannot delete built-in profile '%s'", name)
	}
	return fmt.Errorf("profile '%s' not found", name)
}

func isBuiltinProfile(name string) bool {
	for _, p := range DefaultProfiles() {
		if p.Name == name {
			return true
		}
	}
	return false
}

// ResolveProfile picks the active profile and applies endpoint overrides.
// The name comes from override when set, then cfg.Profile, then the default.
func ResolveProfile(cfg Config, override string) (*Profile, error) {
	name := strings.TrimSpace(override)
	if name == "" {
		name = cfg.Profile
	}
	if name == "" {
		name = DefaultProfileName
	}

	profile, err := GetProfile(name)
	if err != nil {
		return nil, err
	}

	if cfg.EndpointURL != "" {
		// a lone endpoint override redirects presets too
		profile.EndpointURL = cfg.EndpointURL
		profile.OptionEndpointURL = ""
	}
	if cfg.OptionEndpointURL != "" {
		profile.OptionEndpointURL = cfg.OptionEndpointURL
	}

	return profile, nil
}

func mergeProfiles(defaults, custom []Profile) []Profile {
	result := make([]Profile, len(defaults))
	copy(result, defaults)

	for _, cp := range custom {
		found := false
		for i, dp := range result {
			if dp.Name == cp.Name {
				result[i] = cp
				found = true
				break
			}
		}
		if !found {
			result = append(result, cp)
		}
	}

	return result
}

// Validation constants
const (
	MaxNameLength  = 50
	MaxOptionCount = 9
)

// ValidateProfile validates a profile's fields
func ValidateProfile(p Profile) error {
	fieldErrors := make(map[string]string)

	if p.Name == "" {
		fieldErrors["name"] = "name is required"
	} else if len(p.Name) > MaxNameLength {
		fieldErrors["name"] = fmt.Sprintf("name too long (max %d characters)", MaxNameLength)
	} else if !isValidProfileName(p.Name) {
		fieldErrors["name"] = "name must contain only alphanumeric characters, underscores, and hyphens"
	}

	if p.EndpointURL == "" {
		fieldErrors["endpoint_url"] = "endpoint_url is required"
	} else if !strings.HasPrefix(p.EndpointURL, "http://") && !strings.HasPrefix(p.EndpointURL, "https://") {
		fieldErrors["endpoint_url"] = "endpoint_url must be an http(s) URL"
	}

	if !p.FreeText && len(p.Options) == 0 {
		fieldErrors["options"] = "a profile without free text needs at least one option"
	}
	if len(p.Options) > MaxOptionCount {
		fieldErrors["options"] = fmt.Sprintf("too many options (max %d)", MaxOptionCount)
	}
	for _, o := range p.Options {
		if strings.TrimSpace(o) == "" {
			fieldErrors["options"] = "options cannot be empty"
			break
		}
	}

	if len(fieldErrors) > 0 {
		return fmt.Errorf("validation failed: %v", fieldErrors)
	}

	return nil
}

func isValidProfileName(name string) bool {
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-') {
			return false
		}
	}
	return true
}
