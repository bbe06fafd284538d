package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// BuildReportPDF renders a minimal PDF for a resolved routing report.
func BuildReportPDF(report resolveResponse) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Notification Routing Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Report: %s", report.ReportID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Host: %s (%s)", report.Host.Name, report.Host.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Triggers: %d  Messages: %d  Recipients: %d  Skipped actions: %d",
		report.TriggerCount(), report.MessageCount(), report.RecipientCount(), len(report.SkippedActions)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(55, 6, "Trigger", "1", 0, "C", false, 0, "")
	pdf.CellFormat(18, 6, "Phase", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Action", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Media", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Start", "1", 0, "C", false, 0, "")
	pdf.CellFormat(18, 6, "Repeat", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Recipient", "1", 0, "C", false, 0, "")
	pdf.CellFormat(18, 6, "Right", "1", 0, "C", false, 0, "")
	pdf.CellFormat(18, 6, "Shown", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, trigger := range report.Triggers {
		for _, msg := range trigger.Messages {
			for _, rec := range msg.Recipients {
				pdf.CellFormat(55, 6, trigger.Name, "1", 0, "L", false, 0, "")
				pdf.CellFormat(18, 6, msg.PhaseLabel, "1", 0, "C", false, 0, "")
				pdf.CellFormat(45, 6, msg.ActionName, "1", 0, "L", false, 0, "")
				pdf.CellFormat(30, 6, msg.MediaTypeName, "1", 0, "L", false, 0, "")
				pdf.CellFormat(20, 6, msg.StartOffset, "1", 0, "C", false, 0, "")
				pdf.CellFormat(18, 6, msg.RepeatCount, "1", 0, "C", false, 0, "")
				pdf.CellFormat(40, 6, rec.Username, "1", 0, "L", false, 0, "")
				pdf.CellFormat(18, 6, yesNo(rec.HasRight), "1", 0, "C", false, 0, "")
				pdf.CellFormat(18, 6, yesNo(rec.Show), "1", 0, "C", false, 0, "")
				pdf.Ln(-1)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReportXLSX renders a minimal XLSX for a resolved routing report.
func BuildReportXLSX(report resolveResponse) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	recipientsSheet := "recipients"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(recipientsSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Notification Routing Report")
	_ = f.SetCellValue(summarySheet, "A3", "Report")
	_ = f.SetCellValue(summarySheet, "B3", report.ReportID)
	_ = f.SetCellValue(summarySheet, "A4", "Host")
	_ = f.SetCellValue(summarySheet, "B4", report.Host.Name)
	_ = f.SetCellValue(summarySheet, "A5", "Host ID")
	_ = f.SetCellValue(summarySheet, "B5", report.Host.ID)
	_ = f.SetCellValue(summarySheet, "A6", "Generated")
	_ = f.SetCellValue(summarySheet, "B6", report.GeneratedAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A7", "Triggers")
	_ = f.SetCellValue(summarySheet, "B7", report.TriggerCount())
	_ = f.SetCellValue(summarySheet, "A8", "Messages")
	_ = f.SetCellValue(summarySheet, "B8", report.MessageCount())
	_ = f.SetCellValue(summarySheet, "A9", "Recipients")
	_ = f.SetCellValue(summarySheet, "B9", report.RecipientCount())
	_ = f.SetCellValue(summarySheet, "A10", "Skipped actions")
	_ = f.SetCellValue(summarySheet, "B10", len(report.SkippedActions))

	headers := []string{"Trigger", "Phase", "Action", "Media type", "Subject", "Start", "Repeat", "Recipient", "Full name", "Has right", "Shown", "Reachable"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(recipientsSheet, cell, header)
	}
	row := 2
	for _, trigger := range report.Triggers {
		for _, msg := range trigger.Messages {
			for _, rec := range msg.Recipients {
				values := []any{
					trigger.Name, msg.PhaseLabel, msg.ActionName, msg.MediaTypeName,
					msg.Subject, msg.StartOffset, msg.RepeatCount,
					rec.Username, rec.FullName, rec.HasRight, rec.Show, rec.ReachableViaMedia,
				}
				for i, value := range values {
					cell, _ := excelize.CoordinatesToCellName(i+1, row)
					_ = f.SetCellValue(recipientsSheet, cell, value)
				}
				row++
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
