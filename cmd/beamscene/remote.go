package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/smasonuk/beamscene/hostlink"
	"github.com/smasonuk/beamscene/scene"
)

var pushPlan string

var pushCmd = &cobra.Command{
	Use:   "push URL",
	Short: "Build the scene in a modelling tool listening on a websocket",
	Long: `push connects to URL (ws://host:port/path) and sends every scene call
to the remote host, waiting for each to be acknowledged. With --plan a
recorded plan is replayed instead of building the scene.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := hostlink.Dial(ctx, args[0])
		if err != nil {
			return err
		}
		defer client.Close()

		if pushPlan != "" {
			plan, err := scene.ReadPlanFile(pushPlan)
			if err != nil {
				return err
			}
			return plan.Replay(ctx, client)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		_, err = scene.Build(ctx, client, cfg)
		return err
	},
}

var serveFlags struct {
	addr, out string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept pushed scenes and record them into a plan",
	Long: `serve listens for push connections and records what they send. The
plan is written to --out when the server is interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rec := scene.NewRecorder()

		mux := http.NewServeMux()
		mux.Handle("/scene", hostlink.NewServer(rec))
		srv := &http.Server{Addr: serveFlags.addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		errc := make(chan error, 1)
		go func() {
			slog.Info("listening for scenes", "addr", serveFlags.addr, "path", "/scene")
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("shutdown", "err", err)
		}

		plan := rec.Plan()
		slog.Info("writing plan", "path", serveFlags.out, "commands", len(plan.Commands))
		return plan.WriteFile(serveFlags.out)
	},
}

func init() {
	pushCmd.Flags().StringVar(&pushPlan, "plan", "", "replay this plan file instead of building")
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "localhost:8765", "listen address")
	serveCmd.Flags().StringVarP(&serveFlags.out, "out", "o", "scene.yaml", "plan file to write")
	rootCmd.AddCommand(pushCmd, serveCmd)
}
