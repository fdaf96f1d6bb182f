package admin

import (
	"bytes"
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the export workbook.
const (
	SheetSummary  = "Summary"
	SheetStudents = "Students"
)

var studentHeaders = []string{
	"Name", "Email", "Code", "Joined", "Interviews", "Completed",
	"Latest Score", "Average Score", "Best ATS Score", "Last Interview",
}

// WriteWorkbook renders a report as XLSX bytes.
func WriteWorkbook(r *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetStudents); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeSummary(f, r, header); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeStudents(f, r, header); err != nil {
		return nil, fmt.Errorf("failed to write students sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, r *Report, header int) error {
	if err := f.SetColWidth(SheetSummary, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSummary, "B", "B", 40); err != nil {
		return err
	}

	rows := [][]any{
		{"Interview Simulator Cohort Report", ""},
		{"University", r.UniversityID.String()},
		{"Generated", r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")},
	}
	if a := r.Analytics; a != nil {
		rows = append(rows,
			[]any{"Total Students", a.TotalStudents},
			[]any{"Total Interviews", a.TotalInterviews},
			[]any{"Completed Interviews", a.CompletedInterviews},
			[]any{"Evaluations", a.TotalEvaluations},
			[]any{"Avg Communication", round2(a.AvgCommunication)},
			[]any{"Avg Technical", round2(a.AvgTechnical)},
			[]any{"Avg Confidence", round2(a.AvgConfidence)},
			[]any{"Avg Overall", round2(a.AvgOverall)},
			[]any{"Avg ATS Score", round2(a.AvgATSScore)},
		)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return err
		}
	}
	if err := f.MergeCell(SheetSummary, "A1", "B1"); err != nil {
		return err
	}
	return f.SetCellStyle(SheetSummary, "A1", "B1", header)
}

func writeStudents(f *excelize.File, r *Report, header int) error {
	if err := f.SetColWidth(SheetStudents, "A", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetStudents, "C", "J", 15); err != nil {
		return err
	}

	headers := make([]any, len(studentHeaders))
	for i, h := range studentHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(SheetStudents, "A1", &headers); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(studentHeaders), 1)
	if err := f.SetCellStyle(SheetStudents, "A1", last, header); err != nil {
		return err
	}

	for i, s := range r.Students {
		row := []any{
			s.Name, s.Email, s.Code, s.JoinedAt.UTC().Format("2006-01-02"),
			s.InterviewCount, s.CompletedInterviews,
			optionalInt(s.LatestOverallScore), optionalFloat(s.AverageOverallScore), optionalInt(s.BestATSScore),
			"",
		}
		if s.LastInterviewAt != nil {
			row[9] = s.LastInterviewAt.UTC().Format("2006-01-02")
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetStudents, cell, &row); err != nil {
			return err
		}
	}

	if len(r.Students) > 0 {
		ref := fmt.Sprintf("A1:J%d", len(r.Students)+1)
		if err := f.AutoFilter(SheetStudents, ref, []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}
	return f.SetPanes(SheetStudents, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func optionalInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func optionalFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return round2(*v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
