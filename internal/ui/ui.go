// Package ui is the Fyne desktop host of the contact list. It owns one view
// state, renders the derived page in a table and serves the same records to
// the browser view.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contacts"
	"github.com/tartampluch/go-contacts/internal/export"
	"github.com/tartampluch/go-contacts/internal/locale"
	"github.com/tartampluch/go-contacts/internal/server"
	"github.com/tartampluch/go-contacts/internal/view"
)

// ContactsApp encapsulates the UI state, preferences, and background services.
type ContactsApp struct {
	App         fyne.App
	Preferences fyne.Preferences
	Catalog     *locale.Catalog
	Settings    config.Settings
	Ctx         context.Context

	Server   *server.ContactsServer
	Exporter *export.Exporter

	// View state, only touched from the Fyne event loop.
	memo   *view.Memo
	state  view.State
	result view.Result
	file   string

	contactsWindow fyne.Window
	settingsWindow fyne.Window
	widgets        *listWidgets
}

// NewContactsApp constructs the application and wires dependencies.
func NewContactsApp(a fyne.App, ctx context.Context, s config.Settings, cat *locale.Catalog, srv *server.ContactsServer, exp *export.Exporter) *ContactsApp {
	a.SetIcon(theme.AccountIcon())

	app := &ContactsApp{
		App:         a,
		Preferences: a.Preferences(),
		Catalog:     cat,
		Settings:    s,
		Ctx:         ctx,
		Server:      srv,
		Exporter:    exp,
		state:       view.NewState(),
	}
	app.memo = view.NewMemo(app.newPipeline(), nil)
	srv.SetPipeline(app.memo.Pipeline())
	return app
}

// Run loads path (or the last opened file), starts the browser view server
// and blocks in the Fyne event loop.
func (app *ContactsApp) Run(path string) {
	if path == "" {
		path = app.Preferences.String(config.PrefLastFile)
	}
	if err := app.LoadFile(path); err != nil {
		slog.Error(config.ErrOpenContacts,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyFile, path,
			config.LogKeyError, err,
		)
		app.SetRecords(nil)
	}

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			fyne.Do(func() {
				app.App.SendNotification(fyne.NewNotification(
					config.TitleStartupError,
					fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
			})
		}
	}()

	go func() {
		<-app.Ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompUI)
		fyne.Do(app.App.Quit)
	}()

	app.ShowContactsWindow()
	app.App.Run()
}

// LoadFile reads a JSON or vCard contacts file and displays it.
// An empty path displays the empty state.
func (app *ContactsApp) LoadFile(path string) error {
	records, err := contacts.LoadFile(app.Ctx, path)
	if err != nil {
		return err
	}
	app.file = path
	if path != "" {
		app.Preferences.SetString(config.PrefLastFile, path)
	}
	app.SetRecords(records)
	return nil
}

// SetRecords replaces the displayed records in both the window and the
// browser view.
func (app *ContactsApp) SetRecords(records []contacts.Contact) {
	app.memo.SetRecords(records)
	app.Server.Update(records)
	app.refresh()
}

// pageSize reads the page size preference, falling back to the settings file.
func (app *ContactsApp) pageSize() int {
	size := app.Preferences.IntWithFallback(config.PrefPageSize, app.Settings.PageSize)
	if size < config.MinPageSize || size > config.MaxPageSize {
		return app.Settings.PageSize
	}
	return size
}

func (app *ContactsApp) newPipeline() *view.Pipeline {
	return view.NewPipeline(app.pageSize(), app.Settings.CollationTag())
}

// applyPipeline rebuilds the pipeline after a preference change.
func (app *ContactsApp) applyPipeline() {
	p := app.newPipeline()
	app.memo.SetPipeline(p)
	app.Server.SetPipeline(p)
	app.refresh()
}

// browserURL is the address of the local browser view.
func (app *ContactsApp) browserURL() *url.URL {
	return &url.URL{
		Scheme: config.SchemeHTTP,
		Host:   config.LocalhostBindAddr + config.AddrSeparator + app.Server.Port,
		Path:   config.RouteRoot,
	}
}

// openBrowser opens the browser view in the default browser.
func (app *ContactsApp) openBrowser() {
	if err := app.App.OpenURL(app.browserURL()); err != nil {
		slog.Error(config.ErrOpenBrowser,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err,
		)
	}
}
