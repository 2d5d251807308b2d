package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/pdf"
)

func TestGenerateStockReport_ProducePDF(t *testing.T) {
	g := pdf.NewStockReportGenerator("")
	balances := []*entity.StockBalance{
		{
			ItemID: 1, WarehouseID: 1, Quantity: decimal.NewFromInt(50),
			Item:      &entity.Item{ID: 1, SKU: "TOR-01", Name: "Tornillo", UnitOfMeasure: "pcs"},
			Warehouse: &entity.Warehouse{ID: 1, Code: "A", Name: "Central"},
		},
		{ItemID: 1, WarehouseID: 2, Quantity: decimal.NewFromInt(-2)},
	}

	out, err := g.GenerateStockReport(context.Background(), time.Now(), balances)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestGenerateStockReport_SinSaldos(t *testing.T) {
	out, err := pdf.NewStockReportGenerator("Existencias").GenerateStockReport(context.Background(), time.Now(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
