package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gouniverse/poststore"
	"github.com/gouniverse/poststore/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cli carries what every subcommand needs once PersistentPreRunE has run.
type cli struct {
	verbose    bool
	configDir  string
	cfg        *config.Config
	logger     *zap.Logger
	images     *poststore.ImageRegistry
	store      poststore.StoreInterface
	closeStore func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes one command line. The store is torn down on every exit path,
// including command errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	defer c.shutdown()

	rootCmd := newRootCmd(c)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd(c *cli) *cobra.Command {

	rootCmd := &cobra.Command{
		Use:           "poststore",
		Short:         "Blog showcase post store",
		Long:          "poststore keeps a small collection of blog posts in a durable key/value slot\nand serves it to a card-list front end.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&c.configDir, "config-dir", ".", "directory holding config.yml")

	rootCmd.AddCommand(
		newListCmd(c),
		newCreateCmd(c),
		newDeleteCmd(c),
		newThemeCmd(c),
		newServeCmd(c),
	)

	return rootCmd
}

func (c *cli) setup(ctx context.Context) error {
	cfg, err := config.LoadConfig(c.configDir)
	if err != nil {
		return err
	}
	c.cfg = cfg

	zapConfig := zap.NewProductionConfig()
	if c.verbose || cfg.Debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	c.logger, err = zapConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	storage, closeStorage, err := openStorage(ctx, cfg, c.logger)
	if err != nil {
		return err
	}
	c.closeStore = closeStorage

	c.images = poststore.NewImageRegistry()
	c.store, err = poststore.NewStore(poststore.NewStoreOptions{
		Storage:      storage,
		StorageKey:   cfg.StorageKey,
		ThemeKey:     cfg.ThemeKey,
		Images:       c.images,
		Logger:       c.logger,
		DebugEnabled: c.verbose || cfg.Debug,
	})
	if err != nil {
		_ = closeStorage()
		return err
	}

	c.store.Initialize(ctx)

	return nil
}

func (c *cli) shutdown() {
	if c.store != nil {
		c.store.Teardown()
	}

	if c.closeStore != nil {
		if err := c.closeStore(); err != nil && c.logger != nil {
			c.logger.Warn("closing storage failed", zap.Error(err))
		}
	}

	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
