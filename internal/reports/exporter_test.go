package reports

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/united17/relief-portal/internal/stats"
	"github.com/united17/relief-portal/pkg/config"
	"github.com/united17/relief-portal/pkg/db/models"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
)

type stubDonations struct {
	rows    []models.Donation
	filters []stats.Filter
	err     error
}

func (s *stubDonations) ListFiltered(ctx context.Context, f stats.Filter) ([]models.Donation, error) {
	s.filters = append(s.filters, f)
	if s.err != nil {
		return nil, s.err
	}
	return stats.ApplyFilter(s.rows, f), nil
}

func reportConfig() config.ReportConfig {
	return config.ReportConfig{
		OrgName:      "United 17 - Flood Relief",
		DefaultTitle: "Donation Report",
	}
}

func sampleDonations() []models.Donation {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	donor := "A. Perera"
	return []models.Donation{
		{SourceCountry: stats.SourceCountrySriLanka, Currency: "LKR", Amount: 1000, AmountLKR: 1000, DonorName: &donor, DonationDate: date, CollectedBy: "Ayash"},
		{SourceCountry: stats.SourceCountryUAE, Currency: "AED", Amount: 50, AmountLKR: 4500, DonationDate: date, CollectedBy: "Atheeq"},
	}
}

func assertPDF(t *testing.T, doc []byte) {
	t.Helper()
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatalf("output is not a PDF, starts with %q", doc[:min(8, len(doc))])
	}
	if !bytes.Contains(doc, []byte("%%EOF")) {
		t.Fatal("PDF missing trailer")
	}
}

func TestDonationReport(t *testing.T) {
	svc, err := NewService(&stubDonations{rows: sampleDonations()}, reportConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	doc, err := svc.DonationReport(context.Background(), Options{
		GeneratedAt: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertPDF(t, doc)
}

func TestDonationReportEmpty(t *testing.T) {
	svc, _ := NewService(&stubDonations{}, reportConfig())

	doc, err := svc.DonationReport(context.Background(), Options{})
	if err != nil {
		t.Fatalf("render empty: %v", err)
	}
	assertPDF(t, doc)
}

func TestDonationReportManyPages(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]models.Donation, 0, 120)
	for i := 0; i < 120; i++ {
		rows = append(rows, models.Donation{
			SourceCountry: stats.SourceCountrySriLanka,
			Currency:      "LKR",
			Amount:        float64(100 + i),
			AmountLKR:     float64(100 + i),
			DonationDate:  date.AddDate(0, 0, i%30),
			CollectedBy:   "Inas",
		})
	}
	svc, _ := NewService(&stubDonations{rows: rows}, reportConfig())

	doc, err := svc.DonationReport(context.Background(), Options{})
	if err != nil {
		t.Fatalf("render long report: %v", err)
	}
	assertPDF(t, doc)
	// 120 rows at ~6mm each cannot fit one A4 page.
	if bytes.Count(doc, []byte("/Type /Page")) < 2 {
		t.Fatal("expected a multi-page document")
	}
}

func TestCollectorReportNarrowsFilter(t *testing.T) {
	source := &stubDonations{rows: sampleDonations()}
	svc, _ := NewService(source, reportConfig())

	doc, err := svc.CollectorReport(context.Background(), "Atheeq", Options{})
	if err != nil {
		t.Fatalf("render collector report: %v", err)
	}
	assertPDF(t, doc)
	if len(source.filters) != 1 || source.filters[0].CollectedBy != "Atheeq" {
		t.Fatalf("filter not narrowed to collector: %+v", source.filters)
	}
}

func TestCollectorReportRequiresName(t *testing.T) {
	svc, _ := NewService(&stubDonations{}, reportConfig())

	_, err := svc.CollectorReport(context.Background(), "  ", Options{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDonationReportSourceError(t *testing.T) {
	svc, _ := NewService(&stubDonations{err: fmt.Errorf("db down")}, reportConfig())

	if _, err := svc.DonationReport(context.Background(), Options{}); err == nil {
		t.Fatal("expected error from donation source")
	}
}
