package ui

import (
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/view"
)

// listWidgets holds the widgets updated on every refresh.
type listWidgets struct {
	heading  *widget.Label
	sortedBy *widget.Label
	search   *widget.Entry
	table    *widget.Table
	empty    *widget.Label
	pager    *fyne.Container
}

// ShowContactsWindow displays the contact list.
// It implements a singleton pattern: if the window is already open, it requests focus.
func (app *ContactsApp) ShowContactsWindow() {
	if app.contactsWindow != nil {
		app.contactsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgOpenWin,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyFile, app.file)

	w := app.App.NewWindow(app.Catalog.Msg(config.TKeyWinTitle))
	w.Resize(fyne.NewSize(config.ContactsWinWidth, config.ContactsWinHeight))
	app.contactsWindow = w

	lw := &listWidgets{
		heading:  widget.NewLabel(""),
		sortedBy: widget.NewLabel(""),
		search:   widget.NewEntry(),
		empty:    widget.NewLabel(app.Catalog.Msg(config.TKeyEmptyState)),
		pager:    container.NewHBox(),
	}
	lw.heading.TextStyle = fyne.TextStyle{Bold: true}
	lw.sortedBy.TextStyle = fyne.TextStyle{Italic: true}
	lw.empty.Alignment = fyne.TextAlignCenter

	lw.search.SetPlaceHolder(app.Catalog.Msg(config.TKeySearchHolder))
	lw.search.SetText(app.state.Query)
	lw.search.OnChanged = app.setQuery

	lw.table = app.buildTable()
	app.widgets = lw

	btnXLSX := widget.NewButtonWithIcon(app.Catalog.Msg(config.TKeyBtnExportXLSX), theme.DownloadIcon(), func() {
		app.showExportDialog(config.FormatXLSX)
	})
	btnPDF := widget.NewButtonWithIcon(app.Catalog.Msg(config.TKeyBtnExportPDF), theme.DocumentPrintIcon(), func() {
		app.showExportDialog(config.FormatPDF)
	})
	btnOpen := widget.NewButtonWithIcon(app.Catalog.Msg(config.TKeyBtnOpen), theme.FolderOpenIcon(), app.showOpenDialog)
	btnBrowser := widget.NewButtonWithIcon(app.Catalog.Msg(config.TKeyBtnBrowser), theme.ComputerIcon(), app.openBrowser)
	btnSettings := widget.NewButtonWithIcon(app.Catalog.Msg(config.TKeyBtnSettings), theme.SettingsIcon(), app.ShowSettingsWindow)

	searchRow := container.NewBorder(nil, nil, nil, container.NewHBox(btnXLSX, btnPDF), lw.search)
	toolbar := container.NewHBox(btnOpen, btnBrowser, btnSettings)

	top := container.NewVBox(toolbar, lw.heading, lw.sortedBy, searchRow)
	bottom := container.NewCenter(lw.pager)
	content := container.NewBorder(top, bottom, nil, nil, container.NewStack(lw.table, lw.empty))

	w.SetContent(content)
	w.SetMaster()
	w.SetOnClosed(func() {
		app.contactsWindow = nil
		app.widgets = nil
	})

	app.refresh()
	w.Show()
}

// buildTable creates the table. Header buttons toggle the sort of the
// name and phone columns.
func (app *ContactsApp) buildTable() *widget.Table {
	table := widget.NewTable(
		func() (int, int) {
			return len(app.result.Visible), config.ColCount
		},
		func() fyne.CanvasObject {
			link := widget.NewHyperlink("", nil)
			link.Hide()
			return container.NewStack(widget.NewRichTextWithText(config.TablePlaceholder), link)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			if id.Row >= len(app.result.Visible) {
				return
			}
			stack := o.(*fyne.Container)
			text := stack.Objects[0].(*widget.RichText)
			link := stack.Objects[1].(*widget.Hyperlink)
			row := app.result.Visible[id.Row]

			if id.Col == config.ColIDAvatar {
				text.Hide()
				link.SetText(app.Catalog.Msg(config.TKeyAvatarLink))
				if u, err := url.Parse(row.Contact.Avatar(app.Exporter.FallbackAvatar)); err == nil {
					link.SetURL(u)
				}
				link.Show()
				return
			}

			link.Hide()
			text.Segments = app.cellSegments(row, id.Col)
			text.Refresh()
			text.Show()
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton(config.HeaderPlaceholder, func() {})
	}
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		btn := o.(*widget.Button)
		btn.SetText(app.headerText(id.Col))

		key := columnSortKey(id.Col)
		if key == view.SortNone {
			btn.OnTapped = nil
			btn.Disable()
			return
		}
		btn.Enable()
		btn.OnTapped = func() { app.toggleSort(key) }
	}

	table.SetColumnWidth(config.ColIDNumber, config.ColWidthNumber)
	table.SetColumnWidth(config.ColIDAvatar, config.ColWidthAvatar)
	table.SetColumnWidth(config.ColIDName, config.ColWidthName)
	table.SetColumnWidth(config.ColIDPhone, config.ColWidthPhone)
	return table
}

// columnSortKey maps a table column to the sort key it controls.
func columnSortKey(col int) view.SortKey {
	switch col {
	case config.ColIDName:
		return view.SortName
	case config.ColIDPhone:
		return view.SortPhone
	default:
		return view.SortNone
	}
}

// headerText returns the localized title with the sort indicator of the
// active column.
func (app *ContactsApp) headerText(col int) string {
	var titleKey string
	switch col {
	case config.ColIDNumber:
		titleKey = config.TKeyColNumber
	case config.ColIDAvatar:
		titleKey = config.TKeyColAvatar
	case config.ColIDName:
		titleKey = config.TKeyColName
	case config.ColIDPhone:
		titleKey = config.TKeyColPhone
	}

	text := app.Catalog.Msg(titleKey)
	if key := columnSortKey(col); key != view.SortNone && key == app.state.Sort {
		if app.state.Direction == view.Ascending {
			text += config.SortIconAsc
		} else {
			text += config.SortIconDesc
		}
	}
	return text
}

// cellSegments renders a text cell. Query matches are bold.
func (app *ContactsApp) cellSegments(row view.Row, col int) []widget.RichTextSegment {
	var value string
	switch col {
	case config.ColIDNumber:
		return []widget.RichTextSegment{&widget.TextSegment{Text: strconv.Itoa(row.Number), Style: widget.RichTextStyleInline}}
	case config.ColIDName:
		value = row.Contact.DisplayName
	case config.ColIDPhone:
		value = row.Contact.Phone.String()
	}

	var segs []widget.RichTextSegment
	for _, s := range view.Highlight(value, app.state.Query) {
		style := widget.RichTextStyleInline
		if s.Match {
			style = widget.RichTextStyleStrong
		}
		segs = append(segs, &widget.TextSegment{Text: s.Text, Style: style})
	}
	return segs
}

// -----------------------------------------------------------------------------
// State transitions
// -----------------------------------------------------------------------------

func (app *ContactsApp) setQuery(q string) {
	app.state.SetQuery(q)
	app.refresh()
}

func (app *ContactsApp) toggleSort(key view.SortKey) {
	app.state.ToggleSort(key)
	app.refresh()
}

func (app *ContactsApp) goTo(page int) {
	app.state.GoTo(page)
	app.refresh()
}

// refresh derives the view and updates the widgets. The clamped page is
// written back into the state.
func (app *ContactsApp) refresh() {
	app.result = app.memo.Derive(app.state)
	app.state.Page = app.result.Page

	lw := app.widgets
	if lw == nil {
		return
	}

	lw.heading.SetText(app.Catalog.Format(config.TKeyHeadingCount, map[string]any{"Count": app.result.Total}))
	if app.state.Sort == view.SortNone {
		lw.sortedBy.SetText("")
		lw.sortedBy.Hide()
	} else {
		lw.sortedBy.SetText(app.Catalog.Msg(config.TKeySortedBy) + " " + app.sortLabel())
		lw.sortedBy.Show()
	}

	if app.result.Empty() {
		lw.table.Hide()
		lw.empty.Show()
	} else {
		lw.empty.Hide()
		lw.table.Show()
	}
	lw.table.Refresh()

	lw.pager.RemoveAll()
	if app.result.TotalPages > 0 {
		lw.pager.Add(widget.NewLabel(app.Catalog.Msg(config.TKeyPaginationLabel)))
	}
	for n := 1; n <= app.result.TotalPages; n++ {
		btn := widget.NewButton(strconv.Itoa(n), func() { app.goTo(n) })
		if n == app.result.Page {
			btn.Importance = widget.HighImportance
		}
		lw.pager.Add(btn)
	}
}

func (app *ContactsApp) sortLabel() string {
	if app.state.Sort == view.SortPhone {
		return app.Catalog.Msg(config.TKeySortPhone)
	}
	return app.Catalog.Msg(config.TKeySortName)
}

// -----------------------------------------------------------------------------
// File dialogs
// -----------------------------------------------------------------------------

// showOpenDialog lets the user pick a JSON or vCard file.
func (app *ContactsApp) showOpenDialog() {
	if app.contactsWindow == nil {
		return
	}
	w := app.contactsWindow
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			return
		}
		path := r.URI().Path()
		_ = r.Close()
		if err := app.LoadFile(path); err != nil {
			slog.Error(config.ErrOpenContacts,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyFile, path,
				config.LogKeyError, err,
			)
			dialog.ShowError(err, w)
		}
	}, w)
	d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard, config.ExtJSON}))
	d.Show()
}

// showExportDialog asks for a destination and exports every record that
// matches the current query, in the current order.
func (app *ContactsApp) showExportDialog(format string) {
	if app.contactsWindow == nil {
		return
	}
	w := app.contactsWindow
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		name := wc.URI().Name()
		if err := app.exportTo(wc, format); err != nil {
			slog.Error(config.ErrExportFailed,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyFormat, format,
				config.LogKeyError, err,
			)
			dialog.ShowError(err, w)
			return
		}
		app.App.SendNotification(fyne.NewNotification(config.AppName,
			app.Catalog.Format(config.TKeyNotifExported, map[string]any{"File": name})))
	}, w)
	d.SetFileName(app.Exporter.FileName(format))
	d.Show()
}

// exportTo writes the current filtered and sorted records and closes wc.
func (app *ContactsApp) exportTo(wc io.WriteCloser, format string) error {
	err := app.Exporter.Export(app.Ctx, wc, format, app.result.Filtered)
	return errors.Join(err, wc.Close())
}
