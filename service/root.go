package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"toyblog/app/logging"
	"toyblog/config"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// cli carries what every subcommand needs once flags are parsed.
type cli struct {
	envFile string
	cfg     *config.Config
	log     *logrus.Logger
}

// NewRootCmd builds the toyblog command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "toyblog [command] [flags]",
		Short:         "Toy shop site with a blog, comments and accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load()
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		newServeCmd(c),
		newDBCmd(c),
		newImportCmd(c),
		newUsersCmd(c),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (c *cli) load() error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", c.envFile, err)
		}
	}
	c.cfg = config.Load()
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.log = logging.New(c.cfg.AppName, c.cfg.Env, c.cfg.LogLevel)
	return nil
}
