// Command threetier synthesizes a highly-available three-tier AWS
// architecture as a CloudFormation template from environment configuration
// documents.
//
// Usage:
//
//	threetier synth                  Synthesize the template for APP_ENV
//	threetier validate               Validate config and lint the template
//	threetier list                   List synthesized resources
//	threetier diff OLD NEW           Compare two template files
//	threetier graph                  Render the dependency graph
//	threetier watch                  Re-synthesize on config/script changes
//	threetier version                Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "threetier",
		Short: "Synthesize a highly-available three-tier AWS architecture",
		Long: `threetier reads an environment-specific JSON configuration document and
emits a CloudFormation template describing a highly-available three-tier
deployment:

    internet -> ALB -> presentation ASG -> application ASG -> RDS

The environment is selected with APP_ENV (dev, staging, prod) or an explicit
--config path:

    APP_ENV=prod threetier synth -f yaml -o prod.yaml`,
	}

	rootCmd.AddCommand(
		newSynthCmd(),
		newValidateCmd(),
		newListCmd(),
		newDiffCmd(),
		newGraphCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("threetier %s\n", getVersion())
		},
	}
}

// configFlags are the document-selection flags shared by the synthesizing
// subcommands.
type configFlags struct {
	path string
	dir  string
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "config", "c", "", "Configuration document path (overrides APP_ENV)")
	cmd.Flags().StringVar(&f.dir, "config-dir", "configs", "Directory holding <env>.json documents")
}

// resolve returns the document path, preferring the explicit flag over the
// APP_ENV selector.
func (f *configFlags) resolve() (string, error) {
	if f.path != "" {
		return f.path, nil
	}
	return config.Resolve(f.dir)
}

// load resolves and loads the configuration document.
func (f *configFlags) load() (*config.Config, string, error) {
	path, err := f.resolve()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
