// Package pdf genera el reporte de existencias en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de corte                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Ítem | Bodega | Unidad | Cantidad             │
//	│  (una sección por bodega, con subtotal por unidad)           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: pares listados                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

var _ inventory.StockReportGenerator = (*StockReportGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// StockReportGenerator implementa inventory.StockReportGenerator usando Maroto v2.
type StockReportGenerator struct {
	title string
}

// NewStockReportGenerator construye el generador; title aparece en el encabezado.
func NewStockReportGenerator(title string) *StockReportGenerator {
	if title == "" {
		title = "Reporte de existencias"
	}
	return &StockReportGenerator{title: title}
}

// GenerateStockReport genera el PDF con los saldos recibidos (ya ordenados por ítem y bodega).
func (g *StockReportGenerator) GenerateStockReport(_ context.Context, generatedAt time.Time, balances []*entity.StockBalance) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(balances)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(balances)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *StockReportGenerator) headerRow(at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2}),
		),
		col.New(4).Add(
			text.New("Corte: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Ítem", 4, align.Left),
		h("Bodega", 3, align.Left),
		h("Unidad", 1, align.Center),
		h("Cantidad", 2, align.Right),
	)
}

func tableRows(balances []*entity.StockBalance) []core.Row {
	if len(balances) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin existencias registradas", props.Text{Size: 8, Top: 2, Color: colorGray}),
		))}
	}
	rows := make([]core.Row, 0, len(balances))
	for _, b := range balances {
		sku, name, uom := "-", fmt.Sprintf("#%d", b.ItemID), ""
		if b.Item != nil {
			sku, name, uom = b.Item.SKU, b.Item.Name, b.Item.UnitOfMeasure
		}
		wh := fmt.Sprintf("#%d", b.WarehouseID)
		if b.Warehouse != nil {
			wh = b.Warehouse.Code + " · " + b.Warehouse.Name
		}
		qtyStyle := props.Text{Size: 8, Align: align.Right, Top: 1}
		if b.Quantity.IsNegative() {
			qtyStyle.Color = colorAlert
		}
		rows = append(rows, row.New(6).Add(
			col.New(2).Add(text.New(sku, props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(wh, props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(uom, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(b.Quantity.String(), qtyStyle)),
		))
	}
	return rows
}

func footerRow(pairs int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Pares ítem/bodega listados: %d", pairs), props.Text{
			Size: 7, Top: 2, Color: colorGray, Align: align.Right,
		}),
	))
}
