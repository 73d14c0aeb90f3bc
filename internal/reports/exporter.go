package reports

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/united17/relief-portal/internal/stats"
	"github.com/united17/relief-portal/pkg/config"
	"github.com/united17/relief-portal/pkg/db/models"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
)

type donationSource interface {
	ListFiltered(ctx context.Context, f stats.Filter) ([]models.Donation, error)
}

// Options controls a single report render.
type Options struct {
	Title       string
	Filter      stats.Filter
	GeneratedAt time.Time
}

// Service renders donation reports as PDF documents.
type Service interface {
	DonationReport(ctx context.Context, opts Options) ([]byte, error)
	CollectorReport(ctx context.Context, collector string, opts Options) ([]byte, error)
}

type service struct {
	donations donationSource
	cfg       config.ReportConfig
}

// NewService builds the report service.
func NewService(donations donationSource, cfg config.ReportConfig) (Service, error) {
	if donations == nil {
		return nil, fmt.Errorf("donation source required")
	}
	return &service{donations: donations, cfg: cfg}, nil
}

// DonationReport renders the filtered donation list with a summary block.
// An empty result set still produces a valid document.
func (s *service) DonationReport(ctx context.Context, opts Options) ([]byte, error) {
	donations, err := s.donations.ListFiltered(ctx, opts.Filter)
	if err != nil {
		return nil, err
	}
	return s.render(donations, stats.Aggregate(donations), opts)
}

// CollectorReport narrows the filter to one collector before rendering.
func (s *service) CollectorReport(ctx context.Context, collector string, opts Options) ([]byte, error) {
	collector = strings.TrimSpace(collector)
	if collector == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collector is required")
	}
	opts.Filter.CollectedBy = collector
	if opts.Title == "" {
		opts.Title = "Collections by " + collector
	}
	return s.DonationReport(ctx, opts)
}

const (
	pageMargin  = 12.0
	headerBlue  = 31 // with 78, 121: a muted steel blue
	rowStripeGr = 242
)

var columnWidths = []float64{24, 42, 32, 18, 28, 30, 28}

var columnHeads = []string{"Date", "Donor", "Country", "Cur", "Amount", "LKR Value", "Collected By"}

func (s *service) render(donations []models.Donation, agg stats.Stats, opts Options) ([]byte, error) {
	title := opts.Title
	if title == "" {
		title = s.cfg.DefaultTitle
	}
	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	s.writeHeader(pdf, title, generated, opts.Filter)
	s.writeSummary(pdf, agg)
	s.writeTable(pdf, donations)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render report pdf")
	}
	return buf.Bytes(), nil
}

func (s *service) writeHeader(pdf *fpdf.Fpdf, title string, generated time.Time, f stats.Filter) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(headerBlue, 78, 121)
	pdf.CellFormat(0, 10, s.cfg.OrgName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	if period := periodLine(f); period != "" {
		pdf.CellFormat(0, 5, period, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 5, "Generated "+generated.Format("2 Jan 2006 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func (s *service) writeSummary(pdf *fpdf.Fpdf, agg stats.Stats) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(0, 6, "Summary", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Total collected: %s across %d donations",
		stats.FormatAmount(agg.TotalLKR, "LKR"), agg.DonationCount), "", 1, "L", false, 0, "")

	for _, c := range agg.Countries {
		if !c.Featured && c.Amount == 0 && c.AmountLKR == 0 {
			continue
		}
		pdf.CellFormat(0, 5, fmt.Sprintf("  %s: %s (%s)",
			c.Country,
			stats.FormatAmount(c.Amount, c.Currency),
			stats.FormatAmount(c.AmountLKR, "LKR")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (s *service) writeTable(pdf *fpdf.Fpdf, donations []models.Donation) {
	writeTableHead(pdf)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(30, 30, 30)
	pdf.SetFillColor(rowStripeGr, rowStripeGr, rowStripeGr)

	if len(donations) == 0 {
		pdf.CellFormat(sumWidths(), 7, "No donations recorded for this period.", "B", 1, "C", false, 0, "")
		return
	}

	for i, d := range donations {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeTableHead(pdf)
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(30, 30, 30)
		}

		fill := i%2 == 1
		donor := "-"
		if d.DonorName != nil && strings.TrimSpace(*d.DonorName) != "" {
			donor = *d.DonorName
		}

		cells := []string{
			d.DonationDate.Format("2006-01-02"),
			donor,
			displayCountry(d),
			d.Currency,
			stats.FormatAmount(d.Amount, d.Currency),
			stats.FormatAmount(d.AmountLKR, "LKR"),
			d.CollectedBy,
		}
		aligns := []string{"L", "L", "L", "C", "R", "R", "L"}
		for j, cell := range cells {
			pdf.CellFormat(columnWidths[j], 6, cell, "B", 0, aligns[j], fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

func writeTableHead(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(headerBlue, 78, 121)
	for i, head := range columnHeads {
		pdf.CellFormat(columnWidths[i], 7, head, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func sumWidths() float64 {
	var total float64
	for _, w := range columnWidths {
		total += w
	}
	return total
}

func displayCountry(d models.Donation) string {
	if d.SourceCountry == stats.SourceCountryOther && d.CountryName != nil {
		if name := strings.TrimSpace(*d.CountryName); name != "" {
			return name
		}
	}
	return d.SourceCountry
}

func periodLine(f stats.Filter) string {
	const layout = "2 Jan 2006"
	switch {
	case f.StartDate != nil && f.EndDate != nil:
		return fmt.Sprintf("Period: %s to %s", f.StartDate.Format(layout), f.EndDate.Format(layout))
	case f.StartDate != nil:
		return "Period: from " + f.StartDate.Format(layout)
	case f.EndDate != nil:
		return "Period: until " + f.EndDate.Format(layout)
	}
	return ""
}
