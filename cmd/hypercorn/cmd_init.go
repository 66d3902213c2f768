package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kernelbot/hypercorn/internal/projectconfig"
	"github.com/kernelbot/hypercorn/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var useDefaults bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a .hypercorn.yaml project configuration",
		Long: `Create a .hypercorn.yaml project configuration.

Runs a guided wizard that collects the dataset path, default batch size,
sampling seed, server port, and cache directory. Use --defaults to skip
the wizard and write the default configuration directly.

If no directory is specified, the current directory is used. An existing
.hypercorn.yaml is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, useDefaults)
		},
	}

	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "Write default configuration without prompting")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, useDefaults bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, projectconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	spec := &wizard.ProjectSpec{
		BatchSize:  projectconfig.DefaultBatchSize,
		Seed:       projectconfig.DefaultSeed,
		ServerPort: projectconfig.DefaultServerPort,
		CacheDir:   projectconfig.DefaultCacheDir,
	}

	if !useDefaults {
		var err error
		spec, err = wizard.RunInitWizard(cmd.InOrStdin(), cmd.OutOrStdout(), "")
		if err != nil {
			return err
		}
	}

	content, err := wizard.GenerateConfigYAML(spec)
	if err != nil {
		return fmt.Errorf("failed to generate config: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath) //nolint:errcheck
	return nil
}
