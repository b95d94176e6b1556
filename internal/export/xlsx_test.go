package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"facturador/internal/export"
)

func TestXLSXBytes(t *testing.T) {
	data, err := export.XLSXBytes(invoices())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Invoices", "Line Items"}, f.GetSheetList())

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Invoice Number", rows[0][1])
	assert.Equal(t, "0001-00000001", rows[1][1])
	assert.Equal(t, "22500", rows[1][6])

	items, err := f.GetRows("Line Items")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Resmas A4", items[1][2])
	assert.Equal(t, "Toner", items[2][2])
	// Both items belong to invoice 1.
	assert.Equal(t, "1", items[1][0])
	assert.Equal(t, "1", items[2][0])
}

func TestXLSXBytes_Empty(t *testing.T) {
	data, err := export.XLSXBytes(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
