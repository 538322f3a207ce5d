package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/gitglob/configs"
	"github.com/Aman-CERP/gitglob/internal/config"
	ggerrors "github.com/Aman-CERP/gitglob/internal/errors"
	"github.com/Aman-CERP/gitglob/internal/logging"
	"github.com/Aman-CERP/gitglob/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage gitglob configuration.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config ($XDG_CONFIG_HOME/gitglob/config.yaml)
  3. Project config (.gitglob.yaml)
  4. Environment variables (GITGLOB_*)

Command-line flags add ignore sources on top of the result.`,
		Example: `  # Create user config from template
  gitglob config init

  # Show effective configuration
  gitglob config show

  # Print user config file path
  gitglob config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file from a template",
		Long: `Create the user configuration file, or with --project a .gitglob.yaml in
the project root. An existing file is left alone unless --force is given, in
which case the user configuration is backed up first.`,
		Example: `  gitglob config init
  gitglob config init --project
  gitglob config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if project {
				return runProjectConfigInit(cmd, force)
			}
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")
	cmd.Flags().BoolVar(&project, "project", false, "Create .gitglob.yaml in the project root")

	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())
	configPath := config.GetUserConfigPath()

	var backupPath string
	if config.UserConfigExists() {
		if !force {
			out.Warning("User configuration already exists")
			out.Statusf("📁", "Location: %s", configPath)
			out.Status("💡", "Use --force to replace it (a backup is kept)")
			return nil
		}
		p, err := config.BackupUserConfig()
		if err != nil {
			return ggerrors.ConfigError("failed to backup config", err)
		}
		backupPath = p
	}

	if err := writeTemplate(configPath, configs.UserConfigTemplate); err != nil {
		return err
	}

	out.Success("Created user configuration")
	out.Statusf("📁", "Location: %s", configPath)
	if backupPath != "" {
		out.Statusf("💾", "Backup: %s", backupPath)
	}
	out.Status("💡", "Run 'gitglob config show' to verify")
	return nil
}

func runProjectConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())

	root, err := projectDir()
	if err != nil {
		return err
	}

	if existing := config.ProjectConfigPath(root); existing != "" && !force {
		out.Warning("Project configuration already exists")
		out.Statusf("📁", "Location: %s", existing)
		out.Status("💡", "Use --force to replace it")
		return nil
	}

	configPath := filepath.Join(root, config.ProjectFile)
	if err := writeTemplate(configPath, configs.ProjectConfigTemplate); err != nil {
		return err
	}

	out.Success("Created project configuration")
	out.Statusf("📁", "Location: %s", configPath)
	return nil
}

func writeTemplate(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ggerrors.New(ggerrors.ErrCodeConfigPermission,
			fmt.Sprintf("failed to create config directory %s", filepath.Dir(path)), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return ggerrors.New(ggerrors.ErrCodeConfigPermission, "failed to write config file", err)
	}
	return nil
}

func newConfigShowCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the configuration after merging defaults, the user config, the
project config and environment variables.`,
		Example: `  gitglob config show
  gitglob config show --json
  gitglob config show --source defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, source)
		},
	}

	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, user, defaults")

	return cmd
}

func runConfigShow(cmd *cobra.Command, source string) error {
	out := output.New(cmd.OutOrStdout())

	var (
		cfg        *config.Config
		sourceDesc string
	)

	switch source {
	case "merged":
		_, loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded
		sourceDesc = "merged (defaults + user + project + env)"

	case "user":
		loaded, err := config.LoadUserConfig()
		if err != nil {
			return ggerrors.ConfigError("failed to load user config", err)
		}
		if loaded == nil {
			out.Warning("No user configuration file found")
			out.Statusf("📁", "Expected at: %s", config.GetUserConfigPath())
			out.Status("💡", "Run 'gitglob config init' to create one")
			return nil
		}
		cfg = loaded
		sourceDesc = fmt.Sprintf("user (%s)", config.GetUserConfigPath())

	case "defaults":
		cfg = config.NewConfig()
		sourceDesc = "defaults (hardcoded)"

	default:
		return ggerrors.ValidationError(
			fmt.Sprintf("invalid source: %s (use: merged, user, defaults)", source), nil)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	out.Statusf("📋", "Configuration source: %s", sourceDesc)
	out.Newline()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}

func newConfigPathCmd() *cobra.Command {
	var logFile bool

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the user config file path",
		Long:  `Print the path of the user configuration file, or with --log the log file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := config.GetUserConfigPath()
			if logFile {
				p = logging.DefaultLogPath()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	}

	cmd.Flags().BoolVar(&logFile, "log", false, "Print the log file path instead")

	return cmd
}
