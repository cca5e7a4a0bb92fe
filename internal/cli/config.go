package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/WajidKarimm/legalease-ai/internal/config"
	"github.com/WajidKarimm/legalease-ai/internal/emoji"
	"github.com/WajidKarimm/legalease-ai/internal/ui"
)

// defaultConfigFile is where config init writes by default
const defaultConfigFile = ".legalease.yaml"

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage LegalEase configuration",
		Long: `Manage LegalEase configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating and locating configuration files.`,
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		outputPath  string
		force       bool
		interactive bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Write a configuration file with the default values.

Use --interactive to be asked for the backend URL, the comparison
industry, the dashboard theme and the storage driver first.`,
		Example: `  # Create .legalease.yaml in the current directory
  legalease config init

  # Answer a few questions first
  legalease config init --interactive

  # Create config at a specific path, overwriting it
  legalease config init --file ~/.config/legalease/config.yaml --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = defaultConfigFile
			}
			path := config.ExpandPath(outputPath)

			if !force && fileExists(path) {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()
			if interactive {
				if err := runConfigWizard(cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration file created at: %s\n", emoji.GetEmoji("success"), path)
			return nil
		},
	}

	initCmd.Flags().StringVar(&outputPath, "file", "", "output path for config file (default: "+defaultConfigFile+")")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "ask for the main settings")

	return initCmd
}

// runConfigWizard asks for the settings most people change
func runConfigWizard(cfg *config.Config) error {
	urlPrompt := promptui.Prompt{
		Label:   "Analysis service URL",
		Default: cfg.API.BaseURL,
		Validate: func(input string) error {
			u, err := url.Parse(strings.TrimSpace(input))
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("enter an absolute URL such as http://localhost:8000")
			}
			return nil
		},
	}
	baseURL, err := urlPrompt.Run()
	if err != nil {
		return fmt.Errorf("service url: %w", err)
	}
	cfg.API.BaseURL = strings.TrimSpace(baseURL)
	cfg.Inference.BaseURL = cfg.API.BaseURL

	industry, err := selectOne("Industry to compare contracts with", ui.Industries, cfg.UI.Industry)
	if err != nil {
		return fmt.Errorf("industry selection: %w", err)
	}
	cfg.UI.Industry = industry

	theme, err := selectOne("Dashboard theme", ui.GetAvailableThemes(), cfg.UI.Theme)
	if err != nil {
		return fmt.Errorf("theme selection: %w", err)
	}
	cfg.UI.Theme = theme

	driver, err := selectOne("Local storage", []string{"sqlite", "memory"}, cfg.Storage.Driver)
	if err != nil {
		return fmt.Errorf("storage selection: %w", err)
	}
	cfg.Storage.Driver = driver

	return nil
}

func selectOne(label string, items []string, current string) (string, error) {
	cursor := 0
	for i, item := range items {
		if item == current {
			cursor = i
		}
	}
	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: cursor,
	}
	_, value, err := prompt.Run()
	return value, err
}

func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the effective configuration after merging defaults, config
files and LEGALEASE_* environment variables.`,
		Example: `  legalease config show
  legalease config show --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cfg.API.Token != "" {
				cfg.API.Token = "********"
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config to YAML: %w", err)
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}
			return nil
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Load the configuration and check it for syntax errors, unknown
enumeration values and malformed URLs.`,
		Example: `  legalease config validate
  legalease config validate --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				fmt.Fprintf(out, "%s Configuration validation failed:\n", emoji.GetEmoji("error"))
				fmt.Fprintf(out, "   %v\n", err)
				return err
			}

			fmt.Fprintf(out, "%s Configuration is valid\n", emoji.GetEmoji("success"))
			fmt.Fprintf(out, "%s Configuration summary:\n", emoji.GetEmoji("statistics"))
			fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
			fmt.Fprintf(out, "   Service: %s\n", cfg.API.BaseURL)
			fmt.Fprintf(out, "   Inference: %s\n", cfg.Inference.BaseURL)
			fmt.Fprintf(out, "   Storage: %s\n", cfg.Storage.Driver)
			fmt.Fprintf(out, "   Output Format: %s\n", cfg.Output.DefaultFormat)
			fmt.Fprintf(out, "   Industry: %s\n", cfg.UI.Industry)
			return nil
		},
	}
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths LegalEase searches for configuration files
and the environment variables that override them.`,
		Run: func(cmd *cobra.Command, args []string) {
			printConfigPaths(cmd.OutOrStdout())
		},
	}
}

func printConfigPaths(out io.Writer) {
	fmt.Fprintf(out, "%s Configuration file search paths (in priority order):\n\n", emoji.GetEmoji("contract"))

	priority := []string{"Highest", "Medium", "Lowest"}
	for i, path := range config.GetConfigPaths() {
		exists := " (not found)"
		if fileExists(path) {
			exists = " (exists)"
		}
		fmt.Fprintf(out, "  %d. %s%s\n", i+1, path, exists)
		if i < len(priority) {
			fmt.Fprintf(out, "     Priority: %s\n", priority[i])
		}
	}
	fmt.Fprintln(out)

	if current, found := config.FindConfigFile(); found {
		fmt.Fprintf(out, "%s Current config file: %s\n", emoji.GetEmoji("target"), current)
	} else {
		fmt.Fprintln(out, "No config file found, using defaults")
	}

	var set []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, config.EnvPrefix) {
			name, _, _ := strings.Cut(kv, "=")
			set = append(set, name)
		}
	}
	sort.Strings(set)

	fmt.Fprintf(out, "\n%s Environment variables with the %s prefix override file settings\n",
		emoji.GetEmoji("info"), config.EnvPrefix)
	for _, name := range set {
		fmt.Fprintf(out, "   %s is set\n", name)
	}
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
