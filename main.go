package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/engage/internal/config"
	"github.com/llehouerou/engage/internal/errmsg"
	"github.com/llehouerou/engage/internal/state"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "engage",
		Short:         "Play media with periodic engagement prompts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (loaded after ~/.config/engage/config.toml and ./config.toml)")

	root.AddCommand(
		newPlayCmd(&configPath),
		newGazeCmd(&configPath),
	)
	return root
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	return cfg, nil
}

// openStore opens the session history configured in cfg, or nil when it is
// disabled.
func openStore(cfg *config.Config) (*state.Manager, error) {
	if !cfg.StoreEnabled() {
		return nil, nil
	}
	if cfg.Store.Path != "" {
		return state.OpenPath(cfg.Store.Path)
	}
	return state.Open()
}
