package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/locale"
	"github.com/tartampluch/go-contacts/internal/view"
)

//go:embed templates/contacts.html
var templateFS embed.FS

const templateName = "contacts.html"

// stateFromQuery reads q, sort, dir and page. Invalid values are logged and
// replaced by their defaults.
func stateFromQuery(q url.Values) view.State {
	st := view.NewState()
	st.SetQuery(q.Get(config.ParamQuery))

	if key, err := view.ParseSortKey(q.Get(config.ParamSort)); err != nil {
		logBadParam(config.ParamSort, q.Get(config.ParamSort), err)
	} else {
		st.Sort = key
	}

	if dir, err := view.ParseDirection(q.Get(config.ParamDirection)); err != nil {
		logBadParam(config.ParamDirection, q.Get(config.ParamDirection), err)
	} else if st.Sort != view.SortNone {
		st.Direction = dir
	}

	if raw := q.Get(config.ParamPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			logBadParam(config.ParamPage, raw, err)
		} else {
			st.GoTo(page)
		}
	}
	return st
}

func logBadParam(param, value string, err error) {
	slog.Debug(config.MsgBadParam,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyParam, param,
		config.LogKeyValue, value,
		config.LogKeyError, err,
	)
}

// queryFor encodes st as URL parameters. Defaults are omitted.
func queryFor(st view.State) url.Values {
	q := url.Values{}
	if st.Query != "" {
		q.Set(config.ParamQuery, st.Query)
	}
	if st.Sort != view.SortNone {
		q.Set(config.ParamSort, st.Sort.String())
		q.Set(config.ParamDirection, st.Direction.String())
	}
	if st.Page > config.FirstPage {
		q.Set(config.ParamPage, strconv.Itoa(st.Page))
	}
	return q
}

func href(path string, st view.State) string {
	if q := queryFor(st).Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

type headerCell struct {
	Label     string
	Href      string // empty for columns that cannot be sorted
	Indicator string
}

type rowData struct {
	Number    int
	Avatar    string
	AvatarAlt string
	Name      []view.Segment
	Phone     []view.Segment
}

type pageLink struct {
	Number  int
	Href    string
	Current bool
}

type pageData struct {
	Lang       string
	Title      string
	Heading    string
	SortedBy   string
	Query      string
	Sort       string // empty when unsorted
	Direction  string
	Labels     map[string]string
	Columns    []headerCell
	Rows       []rowData
	Pages      []pageLink
	Empty      bool
	ExportXLSX string
	ExportPDF  string
}

// pageRenderer turns a derived view into HTML.
type pageRenderer struct {
	tmpl     *template.Template
	cat      *locale.Catalog
	fallback string
}

func newPageRenderer(cat *locale.Catalog, fallbackAvatar string) *pageRenderer {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/"+templateName))
	return &pageRenderer{tmpl: tmpl, cat: cat, fallback: fallbackAvatar}
}

func (p *pageRenderer) render(w io.Writer, st view.State, res view.Result) error {
	data := pageData{
		Lang:    config.DefaultLanguage,
		Title:   p.cat.Msg(config.TKeyWinTitle),
		Heading: p.cat.Format(config.TKeyHeadingCount, map[string]any{"Count": res.Total}),
		Query:   st.Query,
		Labels: map[string]string{
			"search":     p.cat.Msg(config.TKeySearchHolder),
			"button":     p.cat.Msg(config.TKeyBtnSearch),
			"exportXLSX": p.cat.Msg(config.TKeyBtnExportXLSX),
			"exportPDF":  p.cat.Msg(config.TKeyBtnExportPDF),
			"empty":      p.cat.Msg(config.TKeyEmptyState),
			"pages":      p.cat.Msg(config.TKeyPaginationLabel),
		},
		Columns: p.columns(st),
		Empty:   res.Empty(),
	}
	if st.Sort != view.SortNone {
		data.SortedBy = p.cat.Msg(config.TKeySortedBy) + " " + p.sortLabel(st.Sort)
		data.Sort = st.Sort.String()
		data.Direction = st.Direction.String()
	}

	exportState := st
	exportState.Page = config.FirstPage
	data.ExportXLSX = href(config.RouteExportXLSX, exportState)
	data.ExportPDF = href(config.RouteExportPDF, exportState)

	for _, r := range res.Visible {
		data.Rows = append(data.Rows, rowData{
			Number:    r.Number,
			Avatar:    r.Contact.Avatar(p.fallback),
			AvatarAlt: p.cat.Format(config.TKeyAvatarAlt, map[string]any{"Name": r.Contact.DisplayName}),
			Name:      view.Highlight(r.Contact.DisplayName, st.Query),
			Phone:     view.Highlight(r.Contact.Phone.String(), st.Query),
		})
	}

	for n := 1; n <= res.TotalPages; n++ {
		target := st
		target.GoTo(n)
		data.Pages = append(data.Pages, pageLink{Number: n, Href: href(config.RouteRoot, target), Current: n == res.Page})
	}

	if err := p.tmpl.ExecuteTemplate(w, templateName, data); err != nil {
		return fmt.Errorf("%s: %w", config.ErrTemplate, err)
	}
	return nil
}

func (p *pageRenderer) columns(st view.State) []headerCell {
	return []headerCell{
		{Label: p.cat.Msg(config.TKeyColNumber)},
		{Label: p.cat.Msg(config.TKeyColAvatar)},
		p.sortable(st, view.SortName, config.TKeyColName),
		p.sortable(st, view.SortPhone, config.TKeyColPhone),
	}
}

func (p *pageRenderer) sortable(st view.State, key view.SortKey, label string) headerCell {
	next := st
	next.ToggleSort(key)
	cell := headerCell{Label: p.cat.Msg(label), Href: href(config.RouteRoot, next)}
	if st.Sort == key {
		cell.Indicator = config.SortIconAsc
		if st.Direction == view.Descending {
			cell.Indicator = config.SortIconDesc
		}
	}
	return cell
}

func (p *pageRenderer) sortLabel(key view.SortKey) string {
	if key == view.SortPhone {
		return p.cat.Msg(config.TKeySortPhone)
	}
	return p.cat.Msg(config.TKeySortName)
}
