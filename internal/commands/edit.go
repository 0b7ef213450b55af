package commands

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/proofmark/internal/app"
	"github.com/dshills/proofmark/internal/commands/options"
	"github.com/dshills/proofmark/internal/renderer/backend"
)

func addEdit(topLevel *cobra.Command, global *options.GlobalOptions) {
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the editor.",
		Long: options.Wrap80("Open the editor. Without a file the text of the last session is " +
			"restored; with one its contents replace it and Ctrl-S writes it back."),
		Example: `
proofmark edit
proofmark edit draft.txt
proofmark --provider openai edit notes.md
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.Config(cmd)
			if err != nil {
				return err
			}

			var file, text string
			if len(args) == 1 {
				file = args[0]
				text, err = readFile(file)
				if err != nil {
					return err
				}
			}

			log, closer, err := app.OpenLogger(cfg.Logging.Level, cfg.Logging.File)
			if err != nil {
				return err
			}
			defer closer.Close()

			st, err := options.Store(cfg)
			if err != nil {
				return err
			}

			be, err := backend.NewTerminal()
			if err != nil {
				return app.NewComponentError("backend", "create", err)
			}

			a, err := app.New(app.Options{
				Config:  cfg,
				Backend: be,
				Store:   st,
				Logger:  log,
				File:    file,
				Text:    text,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGTERM, syscall.SIGHUP)
			defer stop()
			return a.Run(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}

// readFile returns the contents of path. A file that does not exist yet is
// empty; saving creates it.
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", app.NewOperationError("read", path, err)
	}
	return string(data), nil
}

// commandContext returns the command's context, or Background when run
// outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
