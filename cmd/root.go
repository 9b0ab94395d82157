package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codemend/codemend/internal/config"
	"github.com/codemend/codemend/internal/runner"
)

var cfgFile string

// GetConfigFile returns the config file path from the flag.
func GetConfigFile() string {
	return cfgFile
}

// Root command flags
var (
	rootMaxAttempts int
	rootModel       string
	rootStream      bool
	rootQuiet       bool
)

// NewRootCmd creates the root command for the codemend CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "codemend \"task description\"",
		Short: "Self-healing Python script generation",
		Long: `Codemend turns a natural-language task into a working Python script.
It asks a local Ollama model for a script, runs it, and when the script
fails it installs the missing dependency or asks the model to repair the
code — retrying until the script succeeds or the attempt budget runs out.`,
		SilenceUsage: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 || args[0] == "" {
				return fmt.Errorf("expected exactly one task description, e.g.: codemend \"print the current date\"")
			}
			return nil
		},
		RunE: runRoot,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./codemend.yaml)")
	rootCmd.Flags().IntVarP(&rootMaxAttempts, "max-attempts", "n", 0, "maximum attempts (0 uses config)")
	rootCmd.Flags().StringVarP(&rootModel, "model", "m", "", "Ollama model override")
	rootCmd.Flags().BoolVar(&rootStream, "stream", false, "stream script output to console")
	rootCmd.Flags().BoolVarP(&rootQuiet, "quiet", "q", false, "suppress installer output")

	rootCmd.AddCommand(newLogsCmd())

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.LoadConfigWithFile(workDir, GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := runner.Options{
		MaxAttempts:    rootMaxAttempts,
		Model:          rootModel,
		Stream:         rootStream,
		StreamExplicit: cmd.Flags().Changed("stream"),
		Quiet:          rootQuiet,
	}

	return runner.Run(cmd.Context(), workDir, cfg, args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
