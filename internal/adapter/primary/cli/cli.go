package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"exposure-debugpanel/internal/adapter/primary/tui"
	"exposure-debugpanel/internal/adapter/primary/web"
	"exposure-debugpanel/internal/config"
	"exposure-debugpanel/internal/logging"
	"exposure-debugpanel/internal/usecase"
)

var (
	cfgPath   string
	verbosity int
	loadedCfg config.Config
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to menu selections.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "debugpanel",
		Short:         "Developer debug menu for the exposure notification app",
		Long:          "Interactive shell, TUI and HTTP API over the diagnostic menu of the exposure notification app",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path of the TOML config file")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "more logging (-v, -vv, ... up to 4)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		loadedCfg = cfg
		logging.Setup(logging.Options{File: cfg.Log.File})
		if verbosity == 0 && cfg.Log.Level != "" {
			if _, count, err := logging.ParseLevel(cfg.Log.Level); err == nil {
				verbosity = count
			}
		}
		logging.SetVerbosity(verbosity)
		return nil
	}

	cmd.AddCommand(
		newMenuCmd(),
		newRunCmd(),
		newStateCmd(),
		newShellCmd(),
		newTUICmd(),
		newServeCmd(),
		newConfigCmd(),
	)

	return cmd
}

func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Print the menu for the current state",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(loadedCfg)
			if err != nil {
				return err
			}
			defer rt.Close()
			fmt.Print(renderMenu(rt.panel.Labels()))
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <number|label>",
		Short: "Select one menu item and wait for its workflow",
		Long:  "Select one menu item and wait for its workflow.\n\n" +
			"Local notifications live in this process only: run also waits until the ones it\n" +
			"scheduled are delivered, and a later run lists none. Use shell, tui or serve to\n" +
			"inspect them with \"Show Scheduled Notifications\".",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(loadedCfg)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := rt.printReports(os.Stdout); err != nil {
				return err
			}

			index, err := rt.panel.Resolve(strings.Join(args, " "))
			if err != nil {
				return err
			}
			item, err := rt.panel.Select(index)
			if err != nil {
				return err
			}
			logging.Infof("selected %q", item.Label)
			rt.store.Wait()
			if err := rt.notifications.Drain(rt.ctx); err != nil {
				logging.Warnf("pending notifications dropped: %v", err)
			}
			return nil
		},
	}
}

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the persisted application state (JSON)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(loadedCfg)
			if err != nil {
				return err
			}
			defer rt.Close()
			out, err := json.MarshalIndent(rt.store.GetState(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Full screen menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(loadedCfg)
			if err != nil {
				return err
			}
			defer rt.Close()
			return tui.Run(rt.ctx, rt.panel, rt.bus, rt.terminator)
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "HTTP debug API plus the background detection task",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(loadedCfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			if cmd.Flags().Changed("addr") {
				rt.cfg.Web.Addr = addr
			}

			if rt.cfg.Capabilities.ExposureNotification {
				background, err := usecase.NewBackgroundDetection(rt.store, rt.cfg.Exposure.BackgroundInterval)
				if err != nil {
					return err
				}
				background.Start(rt.ctx)
			}

			feed, err := web.NewFeed(rt.ctx, rt.bus, 100)
			if err != nil {
				return err
			}
			srv := web.NewServer(rt.panel, feed, rt.cfg.Web.Addr)
			fmt.Printf("Debug menu running at http://%s\n", rt.cfg.Web.Addr)
			logging.Infof("Debug menu: http://%s", rt.cfg.Web.Addr)

			go func() {
				<-rt.ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			return srv.Start()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "address:port of the HTTP server (default web.addr)")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the effective configuration (JSON)",
		RunE: func(cmd *cobra.Command, args []string) error {
			display := map[string]any{
				"state":        loadedCfg.State,
				"log":          loadedCfg.Log,
				"capabilities": loadedCfg.Capabilities,
				"debug": map[string]any{
					"restartDelay": loadedCfg.Debug.RestartDelay.String(),
				},
				"exposure": map[string]any{
					"detectionPeriod":     loadedCfg.Exposure.DetectionPeriod.String(),
					"backgroundInterval":  loadedCfg.Exposure.BackgroundInterval.String(),
					"simulateMatchEvery":  loadedCfg.Exposure.SimulateMatchEvery,
					"denyAuthorization":   loadedCfg.Exposure.DenyAuthorization,
					"minimumBuildVersion": loadedCfg.Exposure.MinimumBuildVersion,
				},
				"housekeeping": loadedCfg.Housekeeping,
				"web":          loadedCfg.Web,
			}
			out, err := json.MarshalIndent(display, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	})
	return cmd
}

// Execute runs the root command and reports the error, if any.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
