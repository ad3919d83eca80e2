package export

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/tartampluch/go-contacts/internal/config"
)

// Document writes rows as a paginated A4 PDF: title, printed timestamp,
// branding image and a table whose avatar column holds thumbnails.
type Document struct {
	Labels Labels
	Images ImageSource
	Clock  Clock

	// BrandingImage is drawn in the top-right corner of the first page.
	// Empty disables it.
	BrandingImage string

	// TimestampLayout formats the printed timestamp (time.Format layout).
	TimestampLayout string
}

var columnWidths = [config.ColCount]float64{
	config.ColIDNumber: config.PDFColWidthNumber,
	config.ColIDAvatar: config.PDFColWidthAvatar,
	config.ColIDName:   config.PDFColWidthName,
	config.ColIDPhone:  config.PDFColWidthPhone,
}

// Write renders the document. Any image that cannot be loaded aborts the
// export with an error.
func (d Document) Write(ctx context.Context, w io.Writer, rows []Row) error {
	pdf := fpdf.New(config.PDFOrientation, config.PDFUnit, config.PDFPageSize, "")
	pdf.SetMargins(config.PDFMargin, config.PDFMargin, config.PDFMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(d.Labels.Title, true)
	pdf.SetCreator(config.AppName, true)

	now := d.clock().Now()
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)

	r := &renderer{
		ctx:    ctx,
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		images: d.images(),
		loaded: make(map[string]bool),
	}

	pdf.AddPage()
	r.title(d.Labels.Title)
	r.stamp(d.Labels.Printed(now.Format(d.timestampLayout())))
	if d.BrandingImage != "" {
		if err := r.image(d.BrandingImage, config.PDFBrandingX, config.PDFBrandingY, config.PDFBrandingW, config.PDFBrandingH); err != nil {
			return fmt.Errorf("%s: %w", config.ErrBranding, err)
		}
	}

	pdf.SetY(config.PDFTableStartY)
	r.header(d.Labels.Columns)

	_, pageHeight := pdf.GetPageSize()
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if pdf.GetY()+config.PDFRowHeight > pageHeight-config.PDFBottomMargin {
			pdf.AddPage()
			r.header(d.Labels.Columns)
		}
		if err := r.row(row); err != nil {
			return fmt.Errorf("%s: %w", config.ErrAvatar, err)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDocument, err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDocument, err)
	}
	return nil
}

func (d Document) clock() Clock {
	if d.Clock == nil {
		return RealClock{}
	}
	return d.Clock
}

func (d Document) images() ImageSource {
	if d.Images == nil {
		return NewResolver()
	}
	return d.Images
}

func (d Document) timestampLayout() string {
	if d.TimestampLayout == "" {
		return config.DefaultTimestampLayout
	}
	return d.TimestampLayout
}

// renderer carries the per-document drawing state.
type renderer struct {
	ctx    context.Context
	pdf    *fpdf.Fpdf
	tr     func(string) string
	images ImageSource
	loaded map[string]bool
}

func (r *renderer) title(text string) {
	pageWidth, _ := r.pdf.GetPageSize()
	r.pdf.SetFont(config.PDFFontFamily, config.PDFStyleBold, config.PDFTitleFontSize)
	r.pdf.SetTextColor(config.PDFTitleRed, config.PDFTitleGreen, config.PDFTitleBlue)
	r.pdf.SetXY(config.PDFMargin, config.PDFTitleY)
	r.pdf.CellFormat(pageWidth-2*config.PDFMargin, config.PDFTitleHeight, r.tr(text), "", 0, "C", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *renderer) stamp(text string) {
	r.pdf.SetFont(config.PDFFontFamily, config.PDFStyleNormal, config.PDFBodyFontSize)
	r.pdf.Text(config.PDFStampX, config.PDFStampY, r.tr(text))
}

func (r *renderer) header(columns [config.ColCount]string) {
	r.pdf.SetFont(config.PDFFontFamily, config.PDFStyleBold, config.PDFBodyFontSize)
	r.pdf.SetFillColor(config.PDFHeaderGray, config.PDFHeaderGray, config.PDFHeaderGray)
	r.pdf.SetX(config.PDFMargin)
	for i, col := range columns {
		r.pdf.CellFormat(columnWidths[i], config.PDFHeaderHeight, r.tr(col), "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
	r.pdf.SetFont(config.PDFFontFamily, config.PDFStyleNormal, config.PDFBodyFontSize)
}

func (r *renderer) row(row Row) error {
	x, y := float64(config.PDFMargin), r.pdf.GetY()
	r.pdf.SetX(x)

	cells := [config.ColCount]string{
		config.ColIDNumber: fmt.Sprint(row.Number),
		config.ColIDName:   row.Name,
		config.ColIDPhone:  row.Phone.String(),
	}
	for i, text := range cells {
		r.pdf.CellFormat(columnWidths[i], config.PDFRowHeight, r.tr(text), "1", 0, "C", false, 0, "")
	}
	r.pdf.Ln(-1)

	if row.Avatar == "" {
		return nil
	}
	thumbX := x + columnWidths[config.ColIDNumber] + (columnWidths[config.ColIDAvatar]-config.PDFThumbSize)/2
	return r.image(row.Avatar, thumbX, y+config.PDFCellPadding, config.PDFThumbSize, config.PDFThumbSize)
}

// image draws ref, registering it with the document on first use.
func (r *renderer) image(ref string, x, y, w, h float64) error {
	opts := fpdf.ImageOptions{}
	if !r.loaded[ref] {
		data, imageType, err := readImage(r.ctx, r.images, ref)
		if err != nil {
			return err
		}
		opts.ImageType = imageType
		r.pdf.RegisterImageOptionsReader(ref, opts, bytes.NewReader(data))
		if err := r.pdf.Error(); err != nil {
			return err
		}
		r.loaded[ref] = true
	}
	r.pdf.ImageOptions(ref, x, y, w, h, false, opts, 0, "")
	return nil
}
