package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/fleet-collections/internal/model"
)

func TestGenerate(t *testing.T) {
	overview := model.FinanceOverview{
		PeriodStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Rows: []model.FinanceOverviewRow{
			{ClientID: uuid.New(), CompanyName: "Transportes Alfa", CollectionCount: 2, VehicleCount: 5, CollectionRevenue: 300, OperationRevenue: 300, TotalRevenue: 600},
			{ClientID: uuid.New(), CompanyName: "Transportes Alfa", CollectionCount: 1, VehicleCount: 3, CollectionRevenue: 150, OperationRevenue: 150, TotalRevenue: 300},
		},
		Total: 900,
	}

	content, err := NewGenerator().Generate(overview)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	sheets := file.GetSheetList()
	assert.Contains(t, sheets, "Resumo Financeiro")
	assert.Contains(t, sheets, "Transportes Alfa")
	// Duplicate company names get a numeric suffix.
	assert.Contains(t, sheets, "Transportes Alfa 2")

	total, err := file.GetCellValue("Resumo Financeiro", "B3")
	require.NoError(t, err)
	assert.Equal(t, "900.00", total)

	company, err := file.GetCellValue("Transportes Alfa", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Transportes Alfa", company)
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}

	assert.Equal(t, "Transportes Alfa", sheetName("Transportes Alfa", used))
	assert.Equal(t, "Transportes Alfa 2", sheetName("Transportes Alfa", used))
	assert.Equal(t, "A B C", sheetName("A/B:C", used))
	assert.Equal(t, "Cliente", sheetName("   ", used))

	long := sheetName("Companhia Brasileira de Logística e Transportes Ltda", used)
	assert.LessOrEqual(t, len([]rune(long)), 31)
}
