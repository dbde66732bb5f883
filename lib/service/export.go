package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/messhub/messhub.go/db/models"
	"github.com/xuri/excelize/v2"
)

// ExportStudentsJSON writes the derived students.json cache. The
// relational table is authoritative; this file is a read-only snapshot
// refreshed only by this explicit step.
func (svc *MesshubService) ExportStudentsJSON(ctx context.Context) (path string, count int, err error) {
	students, err := svc.ListStudents(ctx)
	if err != nil {
		return "", 0, err
	}

	path = svc.Config.StudentsJSONPath
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return "", 0, err
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(students); err != nil {
		file.Close()
		os.Remove(tmp)
		return "", 0, err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return "", 0, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", 0, err
	}

	abs, _ := filepath.Abs(path)
	svc.Logger.Infof("Exported %d students to %s", len(students), abs)
	return path, len(students), nil
}

var rentReportHeader = []string{
	"Rent ID", "Student", "Room", "Month", "Status",
	"Rent Due", "External Due", "Previous Due", "Discount",
	"Rent Paid", "Advance Paid", "External Paid", "Previous Due Paid",
	"Paid Type",
}

// ExportRentReport builds an xlsx workbook of the given month's rents.
func (svc *MesshubService) ExportRentReport(ctx context.Context, month string) (reportID string, content *bytes.Buffer, err error) {
	rents := []models.Rent{}
	query := svc.DB.NewSelect().Model(&rents)
	if month != "" {
		query = query.Where("month = ?", month)
	}
	if err := query.Order("id ASC").Scan(ctx); err != nil {
		return "", nil, err
	}

	students := map[int64]string{}
	rooms := map[int64]string{}
	all, err := svc.ListStudents(ctx)
	if err != nil {
		return "", nil, err
	}
	for _, student := range all {
		students[student.ID] = student.Name
		rooms[student.ID] = student.RoomNo
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Rents"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range rentReportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return "", nil, err
		}
	}

	for row, rent := range rents {
		values := []interface{}{
			rent.ID, students[rent.StudentID], rooms[rent.StudentID], rent.Month, rent.Status,
			rent.RentAmount, rent.ExternalAmount, rent.PreviousDue, rent.DiscountAmount,
			rent.RentPaid, rent.AdvancePaid, rent.ExternalPaid, rent.PreviousDuePaid,
			rent.PaidType,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return "", nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return "", nil, err
			}
		}
	}

	content, err = f.WriteToBuffer()
	if err != nil {
		return "", nil, err
	}

	reportID = fmt.Sprintf("rent-report-%s-%s", month, uuid.NewString())
	svc.Logger.Infof("Built rent report %s with %d rows", reportID, len(rents))
	return reportID, content, nil
}
