package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/fleet-collections/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the financial overview as a workbook: one summary sheet
// with the period totals and one row per client, plus a detail sheet per
// client.
func (g *Generator) Generate(overview model.FinanceOverview) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Resumo Financeiro"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Início do período")
	set("B1", formatDate(overview.PeriodStart))
	set("A2", "Fim do período")
	set("B2", formatDate(overview.PeriodEnd))
	set("A3", "Receita total")
	set("B3", formatMoney(overview.Total))

	tableRow := 5
	headers := []string{
		"Cliente",
		"Coletas",
		"Veículos",
		"Receita de coleta",
		"Taxa de operação",
		"Receita total",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, row := range overview.Rows {
		line := tableRow + 1 + i
		set(fmt.Sprintf("A%d", line), row.CompanyName)
		set(fmt.Sprintf("B%d", line), row.CollectionCount)
		set(fmt.Sprintf("C%d", line), row.VehicleCount)
		set(fmt.Sprintf("D%d", line), formatMoney(row.CollectionRevenue))
		set(fmt.Sprintf("E%d", line), formatMoney(row.OperationRevenue))
		set(fmt.Sprintf("F%d", line), formatMoney(row.TotalRevenue))
	}

	_ = file.SetColWidth(sheet, "A", "A", 40)
	_ = file.SetColWidth(sheet, "B", "C", 12)
	_ = file.SetColWidth(sheet, "D", "F", 18)

	used := map[string]bool{sheet: true}
	for _, row := range overview.Rows {
		addClientSheet(file, row, used)
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addClientSheet(file *excelize.File, row model.FinanceOverviewRow, used map[string]bool) {
	name := sheetName(row.CompanyName, used)
	if _, err := file.NewSheet(name); err != nil {
		return
	}

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(name, cell, value)
	}

	set("A1", "Cliente")
	set("B1", row.CompanyName)
	set("A2", "Coletas")
	set("B2", row.CollectionCount)
	set("A3", "Veículos")
	set("B3", row.VehicleCount)
	set("A4", "Receita de coleta")
	set("B4", formatMoney(row.CollectionRevenue))
	set("A5", "Taxa de operação")
	set("B5", formatMoney(row.OperationRevenue))
	set("A6", "Receita total")
	set("B6", formatMoney(row.TotalRevenue))

	_ = file.SetColWidth(name, "A", "A", 24)
	_ = file.SetColWidth(name, "B", "B", 40)
}

// sheetName derives a valid, unique worksheet name from the company name.
// Excel caps names at 31 characters and forbids :\/?*[].
func sheetName(company string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return ' '
		}
		return r
	}, company)
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Cliente"
	}
	if runes := []rune(name); len(runes) > 28 {
		name = strings.TrimSpace(string(runes[:28]))
	}

	base := name
	for i := 2; used[name]; i++ {
		name = fmt.Sprintf("%s %d", base, i)
	}
	used[name] = true
	return name
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatMoney(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
