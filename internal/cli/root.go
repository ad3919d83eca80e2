// Package cli is the command line of go-contacts. Without a subcommand it
// opens the desktop window; serve, list and export run headless.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contacts"
	"github.com/tartampluch/go-contacts/internal/locale"
	"github.com/tartampluch/go-contacts/internal/view"
)

// options holds the persistent flags and what PersistentPreRunE derives
// from them.
type options struct {
	configPath string
	debug      bool

	settings  config.Settings
	catalog   *locale.Catalog
	logCloser io.Closer
}

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

// Execute runs the command line with args and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	cmd, opts := newRootCmd()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyError, err,
		)
		cmd.PrintErrln(err)
	} else {
		slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompCLI)
	}

	// PersistentPostRunE is skipped when RunE fails.
	opts.close()

	if err != nil {
		return config.ExitCodeError
	}
	return config.ExitCodeSuccess
}

func newRootCmd() (*cobra.Command, *options) {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           config.BinaryName + config.UseFileArg,
		Short:         config.ShortRoot,
		Version:       config.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			opts.close()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd.Context(), opts, fileArg(args), "")
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf(config.MsgVersionOutput,
		config.AppName, config.Version, runtime.GOOS, runtime.GOARCH))

	cmd.PersistentFlags().StringVar(&opts.configPath, config.FlagConfig, "", config.FlagDescConfig)
	cmd.PersistentFlags().BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)

	cmd.AddCommand(newGUICmd(opts), newServeCmd(opts), newListCmd(opts), newExportCmd(opts))
	return cmd, opts
}

// setup configures logging, then loads the settings file and the catalog.
func (o *options) setup(cmd *cobra.Command) error {
	o.logCloser = setupLogging(cmd.ErrOrStderr(), o.debug)
	logStartupInfo(cmd.Name())

	s, err := config.LoadSettings(o.configPath)
	if err != nil {
		return err
	}
	o.settings = s
	o.catalog = locale.NewCatalog(s.Language)
	return nil
}

func (o *options) close() {
	if o.logCloser != nil {
		_ = o.logCloser.Close() // Best effort close
		o.logCloser = nil
	}
}

func (o *options) pipeline() *view.Pipeline {
	return view.NewPipeline(o.settings.PageSize, o.settings.CollationTag())
}

// fileArg returns the optional contacts file argument.
func fileArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// viewFlags are the flags that select what part of the list is shown.
type viewFlags struct {
	query string
	sort  string
	page  int
}

func (f *viewFlags) register(cmd *cobra.Command, withPage bool) {
	cmd.Flags().StringVar(&f.query, config.FlagQuery, "", config.FlagDescQuery)
	cmd.Flags().StringVar(&f.sort, config.FlagSort, "", config.FlagDescSort)
	if withPage {
		cmd.Flags().IntVar(&f.page, config.FlagPage, config.FirstPage, config.FlagDescPage)
	}
}

// state builds the view state the flags describe.
func (f *viewFlags) state() (view.State, error) {
	st := view.NewState()
	key, dir, err := view.ParseSort(f.sort)
	if err != nil {
		return view.State{}, err
	}
	st.Sort = key
	st.Direction = dir
	st.SetQuery(f.query)
	st.GoTo(f.page)
	return st, nil
}

// derive loads the contacts file and derives the view the flags select.
func (o *options) derive(ctx context.Context, args []string, f *viewFlags) (view.State, view.Result, error) {
	st, err := f.state()
	if err != nil {
		return view.State{}, view.Result{}, err
	}

	records, err := contacts.LoadFile(ctx, fileArg(args))
	if err != nil {
		return view.State{}, view.Result{}, err
	}

	res := o.pipeline().Derive(records, st)
	st.Page = res.Page
	return st, res, nil
}
