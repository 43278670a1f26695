// Package report arma el cuadre de caja diario a partir de las ventas confirmadas.
package report

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var tracer = otel.Tracer("ventas-api/report")

// DateLayout formato de fecha de los reportes.
const DateLayout = "2006-01-02"

// DayKey fecha (YYYY-MM-DD) de t en la zona del negocio.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// DayRange devuelve [inicio, fin) del día date en loc. Fecha mal formada → ErrInvalidInput.
func DayRange(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	return day, day.AddDate(0, 0, 1), nil
}

// DailyReportUseCase getDailyReport: solo lectura, sin bloqueos. Los días ya cerrados
// se cachean porque su resultado solo cambia si se anula una venta de ese día
// (la anulación invalida la entrada).
type DailyReportUseCase struct {
	saleRepo    repository.SaleRepository
	paymentRepo repository.PaymentRepository
	cache       ports.ReportCache
	loc         *time.Location
	log         zerolog.Logger
	now         func() time.Time
}

// NewDailyReportUseCase construye el caso de uso. cache puede ser nil.
func NewDailyReportUseCase(saleRepo repository.SaleRepository, paymentRepo repository.PaymentRepository, cache ports.ReportCache, loc *time.Location, log zerolog.Logger) *DailyReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DailyReportUseCase{saleRepo: saleRepo, paymentRepo: paymentRepo, cache: cache, loc: loc, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DailyReportUseCase) WithClock(now func() time.Time) *DailyReportUseCase {
	uc.now = now
	return uc
}

// GetDailyReport cuadre del día date (YYYY-MM-DD); vacío = hoy en la zona del negocio.
func (uc *DailyReportUseCase) GetDailyReport(ctx context.Context, date string) (_ *dto.DailyReport, err error) {
	if date == "" {
		date = DayKey(uc.now(), uc.loc)
	}
	ctx, span := tracer.Start(ctx, "report.GetDailyReport",
		trace.WithAttributes(attribute.String("date", date)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	from, to, err := DayRange(date, uc.loc)
	if err != nil {
		return nil, err
	}
	closed := !to.After(uc.now())

	if closed && uc.cache != nil {
		cached, found, err := uc.cache.Get(ctx, date)
		if err != nil {
			uc.log.Warn().Err(err).Str("date", date).Msg("cache de cuadre no disponible")
		} else if found {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cached, nil
		}
	}

	totals, err := uc.saleRepo.SummarizeByMethod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.SumBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	rep := Build(date, totals, payments)

	if closed && uc.cache != nil {
		if err := uc.cache.Set(ctx, date, rep); err != nil {
			uc.log.Warn().Err(err).Str("date", date).Msg("no se pudo cachear el cuadre")
		}
	}
	return rep, nil
}

// Build arma el reporte a partir de los agregados por método. Todos los métodos conocidos
// aparecen en Methods (en cero si no hubo ventas) y Methods suma exactamente TotalSales.
func Build(date string, totals []entity.MethodTotal, payments decimal.Decimal) *dto.DailyReport {
	rep := &dto.DailyReport{
		Date:                  date,
		TotalSales:            decimal.Zero,
		TotalCredit:           decimal.Zero,
		Methods:               make(map[string]decimal.Decimal, len(entity.PaymentMethods)),
		CashCollected:         decimal.Zero,
		AmortizationCollected: decimal.Zero,
		PaymentsReceived:      payments,
	}
	for _, m := range entity.PaymentMethods {
		rep.Methods[m] = decimal.Zero
	}
	for _, t := range totals {
		rep.Methods[t.Method] = rep.Methods[t.Method].Add(t.Amount)
		rep.TotalSales = rep.TotalSales.Add(t.Amount)
		rep.TransactionCount += t.Count
		rep.AmortizationCollected = rep.AmortizationCollected.Add(t.Amortization)
		if t.Method != entity.PaymentMethodCredit {
			rep.CashCollected = rep.CashCollected.Add(t.Amount)
		}
	}
	rep.TotalCredit = rep.Methods[entity.PaymentMethodCredit]
	return rep
}
