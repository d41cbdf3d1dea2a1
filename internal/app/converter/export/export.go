package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
	"recorder-whisper/internal/app/model"
)

// SheetName is the worksheet history is written to.
const SheetName = "History"

// TimestampLayout is how timestamps appear in the exported sheet.
const TimestampLayout = "2006-01-02 15:04:05"

// ToExcel builds a workbook with one row per record under the history
// column headers.
func ToExcel(records []model.TranscriptionRecord) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, column := range model.HistoryColumns {
		headerRow.AddCell().Value = column
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().Value = r.AudioURL
		row.AddCell().Value = r.Transcription
		row.AddCell().Value = r.Timestamp.Format(TimestampLayout)
	}

	sheet.SetColWidth(0, 0, 40)
	sheet.SetColWidth(1, 1, 80)
	sheet.SetColWidth(2, 2, 20)

	return file, nil
}

// WriteExcel streams the workbook for records to w.
func WriteExcel(w io.Writer, records []model.TranscriptionRecord) error {
	file, err := ToExcel(records)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveExcel writes the workbook for records to outputFilePath.
func SaveExcel(outputFilePath string, records []model.TranscriptionRecord) error {
	file, err := ToExcel(records)
	if err != nil {
		return err
	}
	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputFilePath, err)
	}
	return nil
}
