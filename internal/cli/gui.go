package cli

import (
	"context"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/export"
	"github.com/tartampluch/go-contacts/internal/server"
	"github.com/tartampluch/go-contacts/internal/ui"
)

func newGUICmd(opts *options) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   config.CmdGUI + config.UseFileArg,
		Short: config.ShortGUI,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd.Context(), opts, fileArg(args), port)
		},
	}
	cmd.Flags().StringVar(&port, config.FlagPort, "", config.FlagDescPort)
	return cmd
}

// runGUI opens the contacts window and blocks until it is closed or ctx
// is cancelled. An empty port selects the saved preference.
func runGUI(ctx context.Context, opts *options, path, port string) error {
	a := app.NewWithID(config.AppID)

	// Record the version for potential migration logic in future updates.
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	if port == "" {
		port = a.Preferences().StringWithFallback(config.PrefServerPort, opts.settings.ServerPort)
	}
	if err := config.ValidatePort(port); err != nil {
		return err
	}

	exp := export.New(opts.settings, opts.catalog)
	srv := server.NewContactsServer(port, opts.pipeline(), exp, opts.catalog)

	gui := ui.NewContactsApp(a, ctx, opts.settings, opts.catalog, srv, exp)
	gui.Run(path)
	return nil
}
