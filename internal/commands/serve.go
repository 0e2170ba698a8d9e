package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ecrypto/chatclient/internal/logging"
	"github.com/ecrypto/chatclient/internal/server"
)

var (
	servePortFlag    string
	serveEnvFileFlag string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the companion chat backend",
	Long: `Run the HTTP backend the built-in profiles talk to.

  POST /api/chat   free text, answered in Spanish
  POST /option/    E-Crypto preset questions
  GET  /health

Answers come from an OpenAI-compatible API (OpenAI, or a local llama.cpp
server). Settings are read from the environment and a .env file:
  PORT (5000), LLM_BASE_URL, LLM_API_KEY, LLM_MODEL, PROMPTS_FILE, ALLOWED_ORIGIN`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var envFiles []string
		if serveEnvFileFlag != "" {
			envFiles = append(envFiles, serveEnvFileFlag)
		}
		cfg := server.LoadConfig(envFiles...)
		if servePortFlag != "" {
			cfg.Port = servePortFlag
		}

		logger := logging.SetupServer(cfg.LogLevel)

		prompts, err := server.LoadPrompts(cfg.PromptsFile)
		if err != nil {
			return err
		}
		if cfg.LLMAPIKey == "" {
			logger.Warn().Msg("LLM_API_KEY is not set; fine for a local llama.cpp server, OpenAI will reject requests")
		}

		llm := server.NewOpenAILLM(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
		srv := server.New(cfg, llm, prompts, logger)

		ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := srv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePortFlag, "port", "", "Listen port (overrides PORT)")
	serveCmd.Flags().StringVar(&serveEnvFileFlag, "env-file", "", "Read settings from this file instead of ./.env")
}
