package cli

import (
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contacts"
	"github.com/tartampluch/go-contacts/internal/export"
	"github.com/tartampluch/go-contacts/internal/server"
)

func newServeCmd(opts *options) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   config.CmdServe + config.UseFileArg,
		Short: config.ShortServe,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed(config.FlagPort) {
				port = opts.settings.ServerPort
			}
			if err := config.ValidatePort(port); err != nil {
				return err
			}

			records, err := contacts.LoadFile(cmd.Context(), fileArg(args))
			if err != nil {
				return err
			}

			exp := export.New(opts.settings, opts.catalog)
			srv := server.NewContactsServer(port, opts.pipeline(), exp, opts.catalog)
			srv.Update(records)

			// Blocks until the context is cancelled (SIGINT/SIGTERM).
			return srv.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&port, config.FlagPort, config.DefaultPort, config.FlagDescPort)
	return cmd
}
