package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/CloudNativeWorks/pos-license-sdk/poslicense/ledger"
)

const exportSheet = "Licenses"

var exportHeader = []any{
	"ID", "Customer", "Device", "Type", "Expiry", "Issued", "Features", "Version Limit", "Issued At", "Token",
}

// writeExport saves ledger records to an xlsx workbook at path.
func writeExport(path string, records []ledger.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			rec.ID,
			rec.CustomerName,
			rec.DeviceHash,
			rec.LicenseType,
			rec.ExpiryDate,
			rec.IssueDate,
			strings.Join(rec.Features, ", "),
			rec.VersionLimit,
			rec.IssuedAt.UTC().Format(time.RFC3339),
			rec.Token,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
