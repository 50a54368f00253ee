package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	apperrors "github.com/irfanahm3d/obsidian-timeline/pkg/errors"
	"github.com/irfanahm3d/obsidian-timeline/pkg/render"
	"github.com/irfanahm3d/obsidian-timeline/pkg/settings"
	"github.com/irfanahm3d/obsidian-timeline/pkg/timeline"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage persisted settings",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configSetCommand())
	cmd.AddCommand(c.configProfileCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.settingsStore()
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}

			printKeyValue("tag", cfg.Tag)
			printKeyValue("profile", cfg.Profile)
			printKeyValue("date-property", cfg.EffectiveDateProperty())
			printKeyValue("search-in", cfg.SearchIn)
			printKeyValue("threshold", strconv.FormatFloat(cfg.Threshold, 'f', -1, 64))
			printKeyValue("ascending", strconv.FormatBool(cfg.Ascending))
			printKeyValue("format", cfg.Format)
			printNewline()
			printDetail("config: %s", store.Path())
			return nil
		},
	}
}

// configSetCommand creates the "config set" subcommand.
func (c *CLI) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set one setting and save",
		Long: `Set one setting and save.

Keys: tag, date-property, search-in, threshold, ascending, format.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.settingsStore()
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}

			if err := applySetting(&cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := store.Save(cfg); err != nil {
				return err
			}

			printSuccess("Set %s = %s", args[0], args[1])
			printDetail("config: %s", store.Path())
			return nil
		},
	}
}

// configProfileCommand creates the "config profile" subcommand.
func (c *CLI) configProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [default|created]",
		Short: "Switch the date property profile",
		Long: `Switch the date property profile.

The "default" profile reads document dates from the "date" frontmatter
property; "created" reads them from "creation_date". An explicit
date-property setting overrides the profile.`,
		ValidArgs: []string{settings.ProfileDefault, settings.ProfileCreated},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.settingsStore()
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}

			cfg.Profile = args[0]
			if err := store.Save(cfg); err != nil {
				return err
			}

			printSuccess("Profile set to %s", args[0])
			printDetail("date property: %s", cfg.EffectiveDateProperty())
			return nil
		},
	}
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.settingsStore()
			if err != nil {
				return err
			}
			fmt.Println(store.Path())
			return nil
		},
	}
}

// applySetting updates one settings field, validating the value.
func applySetting(cfg *settings.Settings, key, value string) error {
	switch key {
	case "tag":
		if value == "" {
			return apperrors.New(apperrors.ErrCodeInvalidTag, "tag must not be empty")
		}
		cfg.Tag = value
	case "date-property":
		cfg.DateProperty = value
	case "search-in":
		if err := timeline.ValidateSearchMode(timeline.SearchMode(value)); err != nil {
			return err
		}
		cfg.SearchIn = value
	case "threshold":
		threshold, err := strconv.ParseFloat(value, 64)
		if err != nil || threshold < 0 {
			return fmt.Errorf("threshold must be a non-negative number, got %q", value)
		}
		cfg.Threshold = threshold
	case "ascending":
		ascending, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("ascending must be true or false, got %q", value)
		}
		cfg.Ascending = ascending
	case "format":
		if err := render.ValidateFormat(value); err != nil {
			return err
		}
		cfg.Format = value
	default:
		return fmt.Errorf("unknown setting: %q", key)
	}
	return nil
}
