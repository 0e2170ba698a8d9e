package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ecrypto/chatclient/internal/api"
	"github.com/ecrypto/chatclient/internal/config"
	"github.com/ecrypto/chatclient/internal/conversation"
	"github.com/ecrypto/chatclient/internal/dispatch"
	"github.com/ecrypto/chatclient/internal/logging"
)

// chatSession is everything a command needs to talk to one profile
type chatSession struct {
	ID         string
	Config     config.Config
	Profile    *config.Profile
	Dispatcher *dispatch.Dispatcher
	Logger     zerolog.Logger

	closeLog func() error
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// resolveConfig loads the config file and applies env and flag overrides
func resolveConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	cfg = config.ApplyEnv(cfg)
	if v := strings.TrimSpace(endpointFlag); v != "" {
		cfg.EndpointURL = v
	}
	return cfg, nil
}

// openSession resolves config and profile and wires a dispatcher over a fresh conversation.
// The caller must Close the session.
func openSession(ctx context.Context) (*chatSession, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}

	profile, err := config.ResolveProfile(cfg, profileFlag)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.SetupClient(cfg)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger = logger.With().
		Str("session", id).
		Str("profile", profile.Name).
		Logger()

	client := deps.Client
	if client == nil {
		c, err := api.NewClient(api.WithTimeout(cfg.Timeout()))
		if err != nil {
			_ = closeLog()
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
		client = c
	}

	d := dispatch.New(ctx, conversation.NewStore(), client, dispatch.Config{
		EndpointURL:       profile.EndpointURL,
		OptionEndpointURL: profile.OptionEndpoint(),
		ErrorMessage:      profile.ErrorMessage,
	}, dispatch.WithLogger(logger))

	logger.Debug().
		Str("endpoint", profile.EndpointURL).
		Str("option_endpoint", profile.OptionEndpoint()).
		Msg("session opened")

	return &chatSession{
		ID:         id,
		Config:     cfg,
		Profile:    profile,
		Dispatcher: d,
		Logger:     logger,
		closeLog:   closeLog,
	}, nil
}

// Close ends the session; a reply still in flight is discarded
func (s *chatSession) Close() {
	s.Dispatcher.Close()
	s.Logger.Debug().Int("messages", s.Dispatcher.Store().Len()).Msg("session closed")
	if s.closeLog != nil {
		_ = s.closeLog()
	}
}
