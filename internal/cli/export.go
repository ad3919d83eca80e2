package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contacts"
	"github.com/tartampluch/go-contacts/internal/export"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		vf     viewFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   config.CmdExport + config.UseFileArg,
		Short: config.ShortExport,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			_, res, err := opts.derive(cmd.Context(), args, &vf)
			if err != nil {
				return err
			}

			exp := export.New(opts.settings, opts.catalog)
			path := output
			if path == "" {
				path = exp.FileName(f)
			}

			if err := writeExport(cmd.Context(), exp, path, f, res.Filtered); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), config.MsgExported, len(res.Filtered), path)
			return err
		},
	}
	vf.register(cmd, false)
	cmd.Flags().StringVar(&format, config.FlagFormat, config.FormatXLSX, config.FlagDescFormat)
	cmd.Flags().StringVarP(&output, config.FlagOutput, config.FlagOutputShort, "", config.FlagDescOutput)
	return cmd
}

// writeExport writes records to a temporary file next to path and renames
// it into place once complete. An existing file at path is left untouched
// when the export fails.
func writeExport(ctx context.Context, exp *export.Exporter, path, format string, records []contacts.Contact) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+config.TempFilePattern)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateOutput, err)
	}
	tmp := f.Name()

	// CreateTemp opens the file with config.FilePermUserRW.
	err = errors.Join(exp.Export(ctx, f, format, records), f.Close())
	if err == nil {
		if rerr := os.Rename(tmp, path); rerr != nil {
			err = fmt.Errorf("%s: %w", config.ErrCreateOutput, rerr)
		}
	}
	if err != nil {
		_ = os.Remove(tmp)
	}
	return err
}
