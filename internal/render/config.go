package render

import (
	"os"

	"github.com/ecrypto/chatclient/internal/config"
)

// EnvStyle overrides the configured markdown style
const EnvStyle = "GLAMOUR_STYLE"

// LoadOptions builds render options from cfg. GLAMOUR_STYLE takes precedence
// over the config file.
func LoadOptions(cfg config.Config) Options {
	opts := FromMarkdownConfig(cfg.Markdown)

	if style := os.Getenv(EnvStyle); style != "" {
		opts.Style = style
	}

	return opts
}
