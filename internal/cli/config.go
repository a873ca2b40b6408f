package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/scribe-ai/scribe/internal/config"
	"github.com/scribe-ai/scribe/internal/provider"
	"github.com/scribe-ai/scribe/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change scribe settings",
	Long: `Show or change settings in the user config file.

Keys for set:
  provider        default provider (` + strings.Join(provider.Names(), ", ") + `)
  model           model for a provider (scope with --provider)
  api-key         API key for a provider (scope with --provider)
  base-url        endpoint override for a provider (scope with --provider)
  token-limit     context window for a provider (scope with --provider)
  reserved-tokens tokens held back for the response
  gitmoji         true or false
  instructions    standing instructions for every run
  preset          default instruction preset`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		redacted := *cfg
		redacted.Providers = make(map[string]config.Provider, len(cfg.Providers))
		for name, p := range cfg.Providers {
			if p.APIKey != "" {
				p.APIKey = "********"
			}
			redacted.Providers[name] = p
		}
		return toml.NewEncoder(os.Stdout).Encode(redacted)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting and save the config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configSetCmd.Flags().String("provider", "", "provider the key applies to (default: the configured one)")
	configCmd.AddCommand(configPathCmd, configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scope, _ := cmd.Flags().GetString("provider")
	if scope == "" {
		scope = cfg.DefaultProvider
	}

	switch key {
	case "provider":
		if _, ok := provider.DefaultsFor(value); !ok {
			return fmt.Errorf("unknown provider %q (available: %s)", value, strings.Join(provider.Names(), ", "))
		}
		cfg.DefaultProvider = value
	case "model":
		p := cfg.Providers[scope]
		p.Model = value
		cfg.Providers[scope] = p
	case "api-key":
		p := cfg.Providers[scope]
		p.APIKey = value
		cfg.Providers[scope] = p
	case "base-url":
		p := cfg.Providers[scope]
		p.BaseURL = value
		cfg.Providers[scope] = p
	case "token-limit":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("token-limit wants a positive integer, got %q", value)
		}
		p := cfg.Providers[scope]
		p.TokenLimit = n
		cfg.Providers[scope] = p
	case "reserved-tokens":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("reserved-tokens wants a positive integer, got %q", value)
		}
		cfg.ReservedTokens = n
	case "gitmoji":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("gitmoji wants true or false, got %q", value)
		}
		cfg.Gitmoji = b
	case "instructions":
		cfg.Instructions = value
	case "preset":
		cfg.Preset = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if flagConfig != "" {
		err = cfg.SaveTo(flagConfig)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		return err
	}
	ui.Success("Set %s.", key)
	return nil
}
