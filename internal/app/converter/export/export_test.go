package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"recorder-whisper/internal/app/testutil"
)

func TestSaveExcel(t *testing.T) {
	records := testutil.SampleRecords(2)
	path := filepath.Join(t.TempDir(), "history.xlsx")

	require.NoError(t, SaveExcel(path, records))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, SheetName, sheet.Name)
	require.Len(t, sheet.Rows, 3)

	header := sheet.Rows[0].Cells
	assert.Equal(t, "audio_url", header[0].Value)
	assert.Equal(t, "transcription", header[1].Value)
	assert.Equal(t, "timestamp", header[2].Value)

	row := sheet.Rows[2].Cells
	assert.Equal(t, records[1].AudioURL, row[0].Value)
	assert.Equal(t, "sample transcript 1", row[1].Value)
	assert.Equal(t, "2024-05-01 10:01:00", row[2].Value)
}

func TestWriteExcel_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, nil))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets[0].Rows, 1)
}
