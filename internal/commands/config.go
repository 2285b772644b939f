package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thedracle/openai-chat/internal/config"
	"github.com/thedracle/openai-chat/internal/render"
)

// newConfigCmd creates the config command and its subcommands
func newConfigCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Print the configuration openai-chat would run with after applying
flags, the config file and defaults. The API key is masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg, path)
			return nil
		},
	}

	cmd.AddCommand(newConfigInitCmd(flags))
	cmd.AddCommand(newConfigThemesCmd())
	return cmd
}

func newConfigInitCmd(flags *rootFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		Long: `Write the resolved configuration to the config file so it can be
edited by hand. An existing file is kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}

			if err := config.SaveConfigTo(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newConfigThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the available colour and markdown themes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "TUI themes (--theme, tui_theme):")
			for _, name := range render.TUIThemeNames() {
				theme, _ := render.GetTUIThemeByName(name)
				fmt.Fprintf(out, "  %-12s %s\n", name, theme.Description)
			}

			fmt.Fprintln(out, "\nMarkdown styles ([markdown] style):")
			for _, t := range render.AvailableThemes() {
				fmt.Fprintf(out, "  %-12s %s\n", t.Name, t.Description)
			}
		},
	}
}

func printConfig(w io.Writer, cfg config.Config, path string) {
	source := path
	if _, err := os.Stat(path); err != nil {
		source += " (not found, using defaults)"
	}

	rows := [][2]string{
		{"config_file", source},
		{"api_url", cfg.APIURL},
		{"gpt_model", cfg.Model},
		{"api_key", cfg.MaskedAPIKey()},
		{"organization", cfg.Organization},
		{"timeout", cfg.Timeout().String()},
		{"tui_theme", cfg.TUITheme},
		{"markdown", fmt.Sprintf("%t (style %s)", cfg.Markdown.Enabled, cfg.Markdown.Style)},
		{"log_file", cfg.LogFile},
		{"log_level", cfg.LogLevel},
		{"system_prompt", strings.TrimSpace(cfg.SystemPrompt)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-14s %s\n", r[0], r[1])
	}
}
