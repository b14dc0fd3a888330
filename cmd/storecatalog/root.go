package main

import (
	"os"

	"github.com/inkchain/storecatalog/internal/app"
	"github.com/inkchain/storecatalog/internal/config"
	"github.com/labstack/gommon/color"
	"github.com/spf13/cobra"
)

// cli carries the state shared by every subcommand
type cli struct {
	configFile string
	workdir    string
	verbose    bool

	root *cobra.Command
	cfg  *config.AppConfig
	app  *app.Application
}

func newCLI() *cli {
	c := &cli{}
	c.root = c.rootCmd()
	return c
}

// execute runs the command line and always releases the application,
// including when a subcommand fails and cobra skips the post-run hooks.
func (c *cli) execute(args []string) error {
	defer c.release()
	c.root.SetArgs(args)
	return c.root.Execute()
}

func (c *cli) release() {
	if c.app != nil {
		c.app.Release()
		c.app = nil
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "storecatalog",
		Short: "Storefront catalog reconciliation and pricing",
		Long: `storecatalog merges the product asset tree, the published sheet and the
hand-maintained override document into one catalog, prices it in a second
currency and checks the result before it ships.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.release()
		},
	}
	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (default storecatalog.yml)")
	root.PersistentFlags().StringVar(&c.workdir, "workdir", "", "project directory holding public/")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.buildCmd(),
		c.verifyCmd(),
		c.ratesCmd(),
		c.smokeCmd(),
		c.serveCmd(),
		c.exportCmd(),
		c.priceCmd(),
	)
	return root
}

func (c *cli) init() error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	if c.workdir != "" {
		cfg.System.Workdir = c.workdir
	}
	if c.verbose {
		cfg.System.Debug = true
	}
	if os.Getenv("NO_COLOR") != "" {
		color.Disable()
	}
	c.cfg = cfg
	c.app = app.NewApplication(cfg)
	return c.app.Init(cfg)
}
