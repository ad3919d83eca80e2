package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/locale"
	"github.com/tartampluch/go-contacts/internal/view"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	sortedStyle  = lipgloss.NewStyle().Italic(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	matchStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

func newListCmd(opts *options) *cobra.Command {
	var vf viewFlags

	cmd := &cobra.Command{
		Use:   config.CmdList + config.UseFileArg,
		Short: config.ShortList,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, res, err := opts.derive(cmd.Context(), args, &vf)
			if err != nil {
				return err
			}
			l := listing{catalog: opts.catalog, fallback: opts.settings.FallbackAvatar}
			return l.render(cmd.OutOrStdout(), st, res)
		},
	}
	vf.register(cmd, true)
	return cmd
}

// listing renders one derived page as a terminal table.
type listing struct {
	catalog  *locale.Catalog
	fallback string
}

func (l listing) render(w io.Writer, st view.State, res view.Result) error {
	if res.Empty() {
		_, err := fmt.Fprintln(w, l.catalog.Msg(config.TKeyEmptyState))
		return err
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render(l.catalog.Format(config.TKeyHeadingCount, map[string]any{"Count": res.Total})))
	b.WriteString("\n")
	if st.Sort != view.SortNone {
		b.WriteString(sortedStyle.Render(l.catalog.Msg(config.TKeySortedBy) + " " + l.sortLabel(st.Sort)))
		b.WriteString("\n")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(l.headers(st)...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range res.Visible {
		t.Row(
			strconv.Itoa(r.Number),
			r.Contact.Avatar(l.fallback),
			emphasize(r.Contact.DisplayName, st.Query),
			emphasize(r.Contact.Phone.String(), st.Query),
		)
	}
	b.WriteString(t.Render())
	b.WriteString("\n")

	if res.TotalPages > 0 {
		fmt.Fprintf(&b, config.MsgPageFooter, res.Page, res.TotalPages, len(res.Filtered))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// headers returns the column titles with the indicator of the active sort.
func (l listing) headers(st view.State) []string {
	titles := []string{
		l.catalog.Msg(config.TKeyColNumber),
		l.catalog.Msg(config.TKeyColAvatar),
		l.catalog.Msg(config.TKeyColName),
		l.catalog.Msg(config.TKeyColPhone),
	}

	icon := config.SortIconAsc
	if st.Direction == view.Descending {
		icon = config.SortIconDesc
	}
	switch st.Sort {
	case view.SortName:
		titles[config.ColIDName] += icon
	case view.SortPhone:
		titles[config.ColIDPhone] += icon
	}
	return titles
}

func (l listing) sortLabel(key view.SortKey) string {
	if key == view.SortPhone {
		return l.catalog.Msg(config.TKeySortPhone)
	}
	return l.catalog.Msg(config.TKeySortName)
}

// emphasize renders the query matches of text in bold.
func emphasize(text, query string) string {
	var b strings.Builder
	for _, s := range view.Highlight(text, query) {
		if s.Match {
			b.WriteString(matchStyle.Render(s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
