package ports

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
)

// ReportCache cache del cuadre diario por fecha (YYYY-MM-DD).
// Get devuelve found=false cuando la fecha no está cacheada.
type ReportCache interface {
	Get(ctx context.Context, date string) (*dto.DailyReport, bool, error)
	Set(ctx context.Context, date string, report *dto.DailyReport) error
	Delete(ctx context.Context, date string) error
}
