package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/knadh/koanf/providers/file"
	"github.com/spf13/cobra"

	"github.com/productscience/monorange/internal/metrics"
	"github.com/productscience/monorange/internal/server"
	"github.com/productscience/monorange/logging"
	"github.com/productscience/monorange/runconfig"
)

func ServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Serve a validated run config and its derived plan over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			path := configPath(args)
			manager := &runconfig.ConfigManager{
				Source:       path,
				KoanProvider: file.Provider(path),
				Options:      opts,
			}
			err = manager.Load()
			metrics.ObserveValidation(err)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}

			s, err := server.NewServer(manager)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			s.Start(addr)
			<-ctx.Done()

			logging.Info("Shutting down", logging.Server)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return s.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
