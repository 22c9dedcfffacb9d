package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shrinksense/shrinksense-backend/internal/modules/decision"
	"github.com/shrinksense/shrinksense-backend/internal/modules/valuation"
)

// Service builds reports over fresh evaluation runs.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	ExportExcel(ctx context.Context, w io.Writer) error
	ExportCSV(ctx context.Context, w io.Writer) error
}

type service struct {
	decisions decision.Service
}

func NewService(decisions decision.Service) Service {
	return &service{decisions: decisions}
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	batch, err := s.decisions.EvaluateStored(ctx)
	if err != nil {
		return nil, err
	}
	return BuildSummary(batch), nil
}

var exportHeader = []string{
	"SKU", "Name", "Category", "Store", "Risk Score", "Risk Level", "Time To Action",
	"Primary Strategy", "Destination", "Expected Recovery", "Total Cost",
	"Margin Impact", "Profit Margin %", "Potential Loss", "Avoided Loss", "Secondary Options",
}

func (s *service) ExportExcel(ctx context.Context, w io.Writer) error {
	batch, err := s.decisions.EvaluateStored(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	const sheet = "Sheet1"

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, title)
	}

	row := 2
	for _, record := range batch.Records {
		rec := record.Recommendation
		if rec == nil {
			continue
		}
		values := []interface{}{
			rec.SKU,
			rec.Name,
			string(rec.Category),
			rec.StoreCode,
			rec.Risk.Score,
			string(rec.Risk.Level),
			rec.Risk.TimeToAction,
			rec.Primary.Strategy.Label(),
			rec.Primary.Strategy.DestinationCode,
			rec.Primary.ExpectedRecovery.InexactFloat64(),
			rec.Primary.TotalCost.InexactFloat64(),
			rec.Primary.MarginImpact.InexactFloat64(),
			rec.Primary.ProfitMarginPct,
			rec.PotentialLoss.InexactFloat64(),
			rec.AvoidedLoss.InexactFloat64(),
			secondaryLabels(rec.Secondary),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	return f.Write(w)
}

func (s *service) ExportCSV(ctx context.Context, w io.Writer) error {
	batch, err := s.decisions.EvaluateStored(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, record := range batch.Records {
		rec := record.Recommendation
		if rec == nil {
			continue
		}
		row := []string{
			rec.SKU,
			rec.Name,
			string(rec.Category),
			rec.StoreCode,
			fmt.Sprintf("%.1f", rec.Risk.Score),
			string(rec.Risk.Level),
			rec.Risk.TimeToAction,
			rec.Primary.Strategy.Label(),
			rec.Primary.Strategy.DestinationCode,
			rec.Primary.ExpectedRecovery.StringFixed(2),
			rec.Primary.TotalCost.StringFixed(2),
			rec.Primary.MarginImpact.StringFixed(2),
			fmt.Sprintf("%.1f", rec.Primary.ProfitMarginPct),
			rec.PotentialLoss.StringFixed(2),
			rec.AvoidedLoss.StringFixed(2),
			secondaryLabels(rec.Secondary),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func secondaryLabels(options []valuation.Result) string {
	if len(options) == 0 {
		return "None"
	}
	labels := make([]string, 0, len(options))
	for _, opt := range options {
		labels = append(labels, opt.Strategy.Label())
	}
	return strings.Join(labels, " | ")
}
