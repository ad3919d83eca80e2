package ui

import (
	"errors"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-contacts/internal/config"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	entryPageSize *NumericalEntry
	entryPort     *NumericalEntry
}

// ShowSettingsWindow displays the preferences dialog: page size and the
// port of the browser view.
func (app *ContactsApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgOpenSettings, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.Catalog.Msg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := app.newSettingsWidgets()

	itemPageSize := widget.NewFormItem(app.Catalog.Msg(config.TKeyLblPageSize), sw.entryPageSize)
	itemPageSize.HintText = app.Catalog.Msg(config.TKeyHelpPageSize)

	itemPort := widget.NewFormItem(app.Catalog.Msg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.Catalog.Msg(config.TKeyHelpPort)

	form := widget.NewForm(itemPageSize, itemPort)

	btnSave := widget.NewButtonWithIcon(app.Catalog.Msg(config.TKeyBtnSave), theme.DocumentSaveIcon(), func() {
		if err := app.saveSettings(sw); err != nil {
			dialog.ShowError(err, w)
			return
		}
		w.Close()
	})
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.Catalog.Msg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	content := container.NewPadded(container.NewVBox(
		form,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
	))

	w.SetContent(content)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, content.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })
	w.Show()
}

// newSettingsWidgets builds the entries pre-filled from preferences, with
// localized validators.
func (app *ContactsApp) newSettingsWidgets() *settingsWidgets {
	sw := &settingsWidgets{
		entryPageSize: NewNumericalEntry(),
		entryPort:     NewNumericalEntry(),
	}

	sw.entryPageSize.SetText(strconv.Itoa(app.pageSize()))
	sw.entryPageSize.Validator = func(s string) error {
		size, err := strconv.Atoi(s)
		if err != nil {
			return errors.New(app.Catalog.Msg(config.TKeyErrPageSizeNum))
		}
		if size < config.MinPageSize || size > config.MaxPageSize {
			return errors.New(app.Catalog.Msg(config.TKeyErrPageSizeRng))
		}
		return nil
	}

	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, app.Server.Port))
	sw.entryPort.Validator = func(s string) error {
		if s == "" {
			return errors.New(app.Catalog.Msg(config.TKeyErrPortReq))
		}
		port, err := strconv.Atoi(s)
		if err != nil {
			return errors.New(app.Catalog.Msg(config.TKeyErrPortNum))
		}
		if port < config.MinPort || port > config.MaxPort {
			return errors.New(app.Catalog.Msg(config.TKeyErrPortRange))
		}
		return nil
	}
	return sw
}

// saveSettings validates and persists the preferences. A new page size
// applies immediately; a new port applies on the next start.
func (app *ContactsApp) saveSettings(sw *settingsWidgets) error {
	if err := sw.entryPageSize.Validate(); err != nil {
		return err
	}
	if err := sw.entryPort.Validate(); err != nil {
		return err
	}

	size, _ := strconv.Atoi(sw.entryPageSize.Text)
	slog.Info(config.MsgSaveSettings,
		config.LogKeyComponent, config.CompUISet,
		config.LogKeyPageSize, size,
		config.LogKeyPort, sw.entryPort.Text,
	)

	app.Preferences.SetInt(config.PrefPageSize, size)
	app.Preferences.SetString(config.PrefServerPort, sw.entryPort.Text)
	app.applyPipeline()
	return nil
}
