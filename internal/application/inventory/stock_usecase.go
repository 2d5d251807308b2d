package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// StockUseCase consultas de saldos por ítem/bodega y reporte PDF de existencias.
type StockUseCase struct {
	balanceRepo repository.BalanceRepository
	report      StockReportGenerator
}

// NewStockUseCase construye el caso de uso. report puede ser nil si no se expone el PDF.
func NewStockUseCase(balanceRepo repository.BalanceRepository, report StockReportGenerator) *StockUseCase {
	return &StockUseCase{balanceRepo: balanceRepo, report: report}
}

// List devuelve los saldos que cumplen el filtro, con ítem y bodega embebidos.
func (uc *StockUseCase) List(ctx context.Context, filter repository.BalanceFilter) (dto.ListResponse[dto.StockResponse], error) {
	list, err := uc.balanceRepo.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.StockResponse]{}, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *dto.NewStockResponse(b))
	}
	return dto.NewListResponse(items), nil
}

// ForItem devuelve los saldos de un ítem en todas las bodegas.
func (uc *StockUseCase) ForItem(ctx context.Context, itemID int64) (dto.ListResponse[dto.StockResponse], error) {
	return uc.List(ctx, repository.BalanceFilter{ItemID: &itemID})
}

// Report genera el PDF de existencias con todos los saldos.
func (uc *StockUseCase) Report(ctx context.Context) ([]byte, error) {
	if uc.report == nil {
		return nil, fmt.Errorf("reporte de stock no configurado")
	}
	list, err := uc.balanceRepo.List(ctx, repository.BalanceFilter{})
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateStockReport(ctx, time.Now(), list)
}
