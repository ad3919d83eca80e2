package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contacts"
	"github.com/tartampluch/go-contacts/internal/locale"
)

// Exporter dispatches an export request to the matching writer.
type Exporter struct {
	Spreadsheet    Spreadsheet
	Document       Document
	FallbackAvatar string

	spreadsheetFile string
	documentFile    string
}

// New builds an Exporter from user settings and the display catalog.
func New(s config.Settings, cat *locale.Catalog) *Exporter {
	labels := NewLabels(cat)
	return &Exporter{
		Spreadsheet: Spreadsheet{Labels: labels},
		Document: Document{
			Labels:          labels,
			Images:          NewResolver(),
			Clock:           RealClock{},
			BrandingImage:   s.BrandingImage,
			TimestampLayout: s.TimestampLayout,
		},
		FallbackAvatar:  s.FallbackAvatar,
		spreadsheetFile: s.SpreadsheetFile,
		documentFile:    s.DocumentFile,
	}
}

// ParseFormat normalizes a format name ("xlsx" or "pdf").
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case config.FormatXLSX, config.FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%s: %q", config.ErrExportFormat, s)
	}
}

// FileName returns the download name for format.
func (e *Exporter) FileName(format string) string {
	if format == config.FormatPDF {
		return nonEmpty(e.documentFile, config.DefaultDocumentFile)
	}
	return nonEmpty(e.spreadsheetFile, config.DefaultSpreadsheetFile)
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if format == config.FormatPDF {
		return config.MimePDF
	}
	return config.MimeXLSX
}

// Export writes the full filtered and sorted record set in format.
func (e *Exporter) Export(ctx context.Context, w io.Writer, format string, records []contacts.Contact) error {
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompExport),
		slog.String(config.LogKeyFormat, format),
	)
	log.Info(config.MsgExportStart, slog.Int(config.LogKeyCount, len(records)))
	start := time.Now()

	rows := BuildRows(records, e.FallbackAvatar)

	var err error
	switch format {
	case config.FormatXLSX:
		err = e.Spreadsheet.Write(w, rows)
	case config.FormatPDF:
		err = e.Document.Write(ctx, w, rows)
	default:
		err = fmt.Errorf("%s: %q", config.ErrExportFormat, format)
	}
	if err != nil {
		return err
	}

	log.Info(config.MsgExportDone, slog.Int64(config.LogKeyDuration, time.Since(start).Milliseconds()))
	return nil
}

func nonEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
