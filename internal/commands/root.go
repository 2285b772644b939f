// Package commands provides the openai-chat command line.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thedracle/openai-chat/internal/config"
	"github.com/thedracle/openai-chat/internal/tui"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootFlags holds the values bound to the root command's flags
type rootFlags struct {
	apiURL     string
	model      string
	apiKey     string
	org        string
	timeout    int
	configPath string
	theme      string
	logFile    string
	logLevel   string
	markdown   bool
	version    bool
}

// rootCmd is the command run by Execute
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd creates the openai-chat command
func NewRootCmd(deps *Dependencies) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "openai-chat",
		Short: "Chat with an OpenAI-compatible model in the terminal",
		Long: `openai-chat opens an interactive chat window backed by an OpenAI
compatible chat completion endpoint. Each line you send is added to the
conversation and answered in order; the whole conversation is sent with
every request.

Settings come from flags, then ~/.openai-chat/config.toml, then defaults.

Examples:
  openai-chat -q sk-...
  openai-chat -d http://localhost:8080/v1/ -g llama3
  openai-chat config                 Show the resolved configuration
  openai-chat config init            Write a default config file`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.version {
				fmt.Fprintf(cmd.OutOrStdout(), "openai-chat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			cfg, _, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), cfg, deps)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.apiURL, "api_url", "d", "", "base URL of the completion API (default "+config.DefaultAPIURL+")")
	pf.StringVarP(&flags.model, "gpt_model", "g", "", "model name sent with every request, e.g. "+
		strings.Join(config.AvailableModels(), ", ")+" (default "+config.DefaultModel+")")
	pf.StringVarP(&flags.apiKey, "api_key", "q", "", "API key used as the bearer token")
	pf.StringVar(&flags.org, "organization", "", "OpenAI organization ID sent with every request")
	pf.IntVar(&flags.timeout, "timeout", 0, "seconds to wait for each reply (default 60)")
	pf.StringVar(&flags.configPath, "config", "", "path to the config file (default ~/.openai-chat/config.toml)")
	pf.StringVar(&flags.theme, "theme", "", "TUI colour theme (default "+config.DefaultTUITheme+")")
	pf.StringVar(&flags.logFile, "log-file", "", "file receiving the session log")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&flags.markdown, "markdown", true, "render replies as markdown")
	cmd.Flags().BoolVarP(&flags.version, "version", "v", false, "show version and exit")

	cmd.AddCommand(newConfigCmd(flags))

	return cmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, tui.FormatError(err))
		stop()
		os.Exit(1)
	}
}

// resolveConfig loads the config file and applies the command line on top.
// It returns the config file path alongside the result.
func resolveConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, string, error) {
	path := flags.configPath
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return config.Config{}, "", err
		}
		path = p
	}

	cfg, err := config.LoadConfigFrom(path)
	if err != nil {
		return config.Config{}, path, err
	}

	overrides := config.Overrides{
		APIURL:       flags.apiURL,
		Model:        flags.model,
		APIKey:       flags.apiKey,
		Organization: flags.org,
		TUITheme:     flags.theme,
		LogLevel:     flags.logLevel,
		LogFile:      flags.logFile,
	}
	if cmd.Flags().Changed("timeout") {
		timeout := flags.timeout
		overrides.TimeoutSeconds = &timeout
	}
	if cmd.Flags().Changed("markdown") {
		md := flags.markdown
		overrides.Markdown = &md
	}
	cfg = cfg.Apply(overrides)

	if err := cfg.Validate(); err != nil {
		return cfg, path, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, nil
}
