// Package export writes the filtered and sorted contact list to
// spreadsheet (XLSX) and paginated document (PDF) files.
package export

import (
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contacts"
	"github.com/tartampluch/go-contacts/internal/locale"
)

// Row is the flattened record handed to the writers.
type Row struct {
	Number int
	Avatar string
	Name   string
	Phone  contacts.Phone
}

// BuildRows flattens records in order. Number is the 1-based position in
// records, so duplicate contacts keep distinct numbers.
func BuildRows(records []contacts.Contact, fallbackAvatar string) []Row {
	rows := make([]Row, len(records))
	for i, c := range records {
		rows[i] = Row{
			Number: i + 1,
			Avatar: c.Avatar(fallbackAvatar),
			Name:   c.DisplayName,
			Phone:  c.Phone,
		}
	}
	return rows
}

// Labels holds the localized strings written into exported files.
type Labels struct {
	Sheet   string
	Title   string
	Columns [config.ColCount]string

	catalog *locale.Catalog
}

// NewLabels resolves the export strings from the catalog.
func NewLabels(cat *locale.Catalog) Labels {
	return Labels{
		Sheet: cat.Msg(config.TKeySheetName),
		Title: cat.Msg(config.TKeyDocTitle),
		Columns: [config.ColCount]string{
			config.ColIDNumber: cat.Msg(config.TKeyColNumber),
			config.ColIDAvatar: cat.Msg(config.TKeyColAvatar),
			config.ColIDName:   cat.Msg(config.TKeyColName),
			config.ColIDPhone:  cat.Msg(config.TKeyColPhone),
		},
		catalog: cat,
	}
}

// Printed returns the "printed on" line for timestamp.
func (l Labels) Printed(timestamp string) string {
	return l.catalog.Format(config.TKeyDocPrinted, map[string]any{"Timestamp": timestamp})
}
