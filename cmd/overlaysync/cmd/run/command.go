// Package run provides the long-running reconcile command.
package run

import (
	stdctx "context"

	"github.com/spf13/cobra"

	"github.com/agentstation/overlaysync"
	"github.com/agentstation/overlaysync/cmd/overlaysync/context"
	"github.com/agentstation/overlaysync/internal/cmd/cmdutil"
	"github.com/agentstation/overlaysync/internal/server"
)

// Flags holds the run command flags.
type Flags struct {
	*cmdutil.OverrideFlags
	Watch  bool
	Listen string
}

// NewCommand creates the run command.
func NewCommand(appCtx context.Context) *cobra.Command {
	flags := &Flags{}
	cmd := &cobra.Command{
		Use:     "run",
		GroupID: "core",
		Short:   "Keep desired overrides applied to the document",
		Long: `Run watches the backing document and re-applies the desired overrides
after every external write, once the writer has been quiet long enough.

Overrides come from the configuration file and from repeated --set flags;
--set wins for the same key. Overrides the catalog does not permit are
logged and ignored.`,
		Example: `  # Pin the hat while the editor keeps saving skin.json
  overlaysync run --document skin.json --set hat=blue

  # Pick the newest *.json in a directory, react to fsnotify events and
  # expose the diagnostics API
  overlaysync run --watch --listen localhost:8787`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), appCtx, flags)
		},
	}

	flags.OverrideFlags = cmdutil.AddOverrideFlags(cmd)
	cmd.Flags().BoolVarP(&flags.Watch, "watch", "w", false,
		"Nudge the poll loop with filesystem events")
	cmd.Flags().StringVar(&flags.Listen, "listen", "",
		"Serve the diagnostics API on this address")

	return cmd
}

// Run starts the engine and blocks until ctx is done.
func Run(ctx stdctx.Context, appCtx context.Context, flags *Flags) error {
	logger := appCtx.Logger()

	path := flags.Document
	if path == "" {
		var err error
		if path, err = appCtx.DocumentPath(); err != nil {
			return err
		}
	}

	overrides, err := flags.Overrides(appCtx.Overrides())
	if err != nil {
		return err
	}

	opts := append(appCtx.EngineOptions(), overlaysync.WithInitialDesired(overrides))
	if flags.Watch {
		opts = append(opts, overlaysync.WithFSNotify(true))
	}

	eng, err := overlaysync.New(path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Error().Err(err).Msg("Engine close failed")
		}
	}()

	if err := eng.Start(ctx); err != nil {
		return err
	}

	listen := flags.Listen
	if listen == "" {
		listen = appCtx.Listen()
	}

	errCh := make(chan error, 1)
	if listen != "" {
		cfg := server.DefaultConfig()
		cfg.Addr = listen
		srv := server.New(eng, cfg, logger)
		go func() { errCh <- srv.ListenAndServe(ctx) }()
	}

	logger.Info().Str("path", path).Int("overrides", len(overrides)).Msg("Reconciling, press Ctrl+C to stop")

	select {
	case <-ctx.Done():
		if listen != "" {
			err = <-errCh
		}
	case err = <-errCh:
	}

	st := eng.Status()
	logger.Info().
		Int("reconciles", st.Reconciles).
		Int("failures", st.Failures).
		Msg("Shutting down")
	return err
}
