package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/fleet-collections/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

// Generate renders the collections summary as a one-document overview:
// contract terms, the four status sections, status totals, and history.
// Core fonts with the cp1252 translator cover the Portuguese labels.
func (g *Generator) Generate(summary model.CollectionsSummary, clientName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr("Resumo de Coletas"), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Cliente: %s", clientName)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Emitido em %s", formatDate(time.Now()))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if summary.Contract != nil {
		addContractBlock(pdf, tr, g.fontName, *summary.Contract)
		pdf.Ln(2)
	}

	sections := []struct {
		title  string
		groups []model.CollectionGroup
	}{
		{"Aguardando precificação", summary.PricingGroups},
		{"Aguardando aprovação", summary.PendingGroups},
		{"Coletas aprovadas", summary.ApprovedGroups},
		{"Nova data em aprovação", summary.RescheduleGroups},
	}
	for _, section := range sections {
		g.writeGroupSection(pdf, tr, section.title, section.groups)
	}

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Total aguardando aprovação: R$ %s", formatAmount(summary.PendingTotal))), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Total aprovado: R$ %s", formatAmount(summary.ApprovedTotal))), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	g.writeHistorySection(pdf, tr, summary.History)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeGroupSection(pdf *gofpdf.Fpdf, tr func(string) string, title string, groups []model.CollectionGroup) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")

	if len(groups) == 0 {
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 6, tr("Nenhum ponto de coleta nesta situação."), "", 1, "L", false, 0, "")
		pdf.Ln(2)
		return
	}

	headers := []string{"Endereço", "Data", "Veículos", "Taxa por veículo"}
	colWidths := []float64{90, 30, 25, 35}
	drawTableRow(pdf, tr, g.fontName, headers, colWidths, true)

	for _, group := range groups {
		row := []string{
			safeValue(group.AddressLabel),
			formatDatePtr(group.CollectionDate),
			fmt.Sprintf("%d", group.VehicleCount),
			formatFeePtr(group.FeePerVehicle),
		}
		drawTableRow(pdf, tr, g.fontName, row, colWidths, false)
	}
	pdf.Ln(2)
}

func (g *Generator) writeHistorySection(pdf *gofpdf.Fpdf, tr func(string) string, history []model.HistoryEntry) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Histórico de coletas"), "", 1, "L", false, 0, "")

	if len(history) == 0 {
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 6, tr("Nenhuma coleta finalizada."), "", 1, "L", false, 0, "")
		return
	}

	headers := []string{"Endereço", "Data", "Veículos", "Taxa", "Situação"}
	colWidths := []float64{70, 28, 22, 28, 32}
	drawTableRow(pdf, tr, g.fontName, headers, colWidths, true)

	for _, entry := range history {
		row := []string{
			safeValue(entry.AddressLabel),
			formatDatePtr(entry.CollectionDate),
			fmt.Sprintf("%d", entry.VehicleCount),
			formatFeePtr(entry.FeePerVehicle),
			safeValue(entry.Status),
		}
		drawTableRow(pdf, tr, g.fontName, row, colWidths, false)
	}
}

func addContractBlock(pdf *gofpdf.Fpdf, tr func(string) string, fontName string, contract model.ClientContract) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Condições contratuais"), "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{
		fmt.Sprintf("Taxa de operação: R$ %s", formatAmount(contract.OperationFee)),
		fmt.Sprintf("Percentual FIPE: %.2f%%", contract.FipePercent),
		fmt.Sprintf("Parqueamento (diária): R$ %s", formatAmount(contract.ParkingDaily)),
		fmt.Sprintf("Quilometragem: R$ %s", formatAmount(contract.MileageRate)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, tr func(string) string, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatFeePtr(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}
