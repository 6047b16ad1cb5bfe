// Package analytics contiene los casos de uso del dashboard de ventas:
// selector de período, Pareto por clase ABC, desglose por categoría y
// detalle de productos con rotación de stock.
package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/ventas-dashboard/internal/application/dto"
	"github.com/jhoicas/ventas-dashboard/internal/domain"
	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
	"github.com/jhoicas/ventas-dashboard/internal/domain/repository"
	"github.com/jhoicas/ventas-dashboard/internal/domain/sales"
	"github.com/jhoicas/ventas-dashboard/pkg/logger"
)

// Textos visibles en la UI.
const (
	labelTrailing      = "Últimos 90 días"
	labelLoadError     = "Error cargando datos"
	valueLoadError     = "error"
	msgDataUnavailable = "Los datos de ventas no están disponibles"
	msgEmptyWindow     = "No hay datos para el período seleccionado"
	msgNoSelection     = "Seleccione una clase y una categoría"
)

// rotationColors pares (fondo, texto) por etiqueta de rotación.
var rotationColors = map[sales.RotationLabel][2]string{
	sales.RotationHealthy:    {"#d4edda", "#155724"},
	sales.RotationOutOfStock: {"#cce5ff", "#004085"},
	sales.RotationSlow:       {"#fff3cd", "#856404"},
	sales.RotationStagnant:   {"#f8d7da", "#721c24"},
	sales.RotationInactive:   {"#e2e3e5", "#383d41"},
}

// DetailsPDFGenerator genera el PDF de la tabla de detalle.
type DetailsPDFGenerator interface {
	GenerateDetailsPDF(ctx context.Context, report *dto.ProductDetailsDTO) ([]byte, error)
}

// DashboardUseCase responde cada interacción del dashboard recalculando sobre el snapshot.
//
// El snapshot se carga una vez al iniciar y se comparte de solo lectura entre requests.
// Si es nil los datos no están disponibles y todas las respuestas lo indican con no_data.
type DashboardUseCase struct {
	snap    *sales.Snapshot
	pdf     DetailsPDFGenerator
	log     *logger.Logger
	printer *message.Printer
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(snap *sales.Snapshot, pdf DetailsPDFGenerator, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{
		snap:    snap,
		pdf:     pdf,
		log:     log.Component("dashboard"),
		printer: message.NewPrinter(language.English),
	}
}

// LoadSnapshot lee la tabla de ventas y construye el snapshot inmutable.
// Una tabla ausente o vacía se informa como domain.ErrDataUnavailable.
func LoadSnapshot(ctx context.Context, repo repository.SalesRepository) (*sales.Snapshot, error) {
	records, err := repo.LoadAll(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrDataUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	snap := sales.NewSnapshot(records)
	if snap.Empty() {
		return nil, fmt.Errorf("%w: la tabla de ventas está vacía", domain.ErrDataUnavailable)
	}
	return snap, nil
}

// Available indica si hay datos cargados.
func (uc *DashboardUseCase) Available() bool {
	return uc.snap != nil && !uc.snap.Empty()
}

// ── Selector de período ───────────────────────────────────────────────────────

// Periods devuelve "Últimos 90 días" seguido de los meses con ventas (más reciente primero).
func (uc *DashboardUseCase) Periods() *dto.PeriodOptionsDTO {
	if !uc.Available() {
		return &dto.PeriodOptionsDTO{
			Options: []dto.PeriodOptionDTO{{Label: labelLoadError, Value: valueLoadError}},
			Default: valueLoadError,
			NoData:  true,
		}
	}
	months := uc.snap.Months()
	opts := make([]dto.PeriodOptionDTO, 0, len(months)+1)
	opts = append(opts, dto.PeriodOptionDTO{Label: labelTrailing, Value: sales.TrailingToken})
	for _, m := range months {
		opts = append(opts, dto.PeriodOptionDTO{Label: m, Value: m})
	}
	return &dto.PeriodOptionsDTO{Options: opts, Default: sales.TrailingToken}
}

// ── Nivel 0 ───────────────────────────────────────────────────────────────────

// ClassSummary recalcula la clasificación ABC de la ventana y la facturación por clase.
// Devuelve domain.ErrInvalidPeriod si el período no es "90d" ni "YYYY-MM".
func (uc *DashboardUseCase) ClassSummary(sel dto.Selection) (*dto.ABCSummaryDTO, error) {
	if !uc.Available() {
		return &dto.ABCSummaryDTO{
			Period: sel.Period, Title: msgDataUnavailable, Classes: []dto.ClassBarDTO{},
			Products: []dto.ProductSummaryDTO{}, NoData: true, Message: msgDataUnavailable,
		}, nil
	}
	period, err := sales.ParsePeriod(sel.Period)
	if err != nil {
		return nil, err
	}
	out := &dto.ABCSummaryDTO{
		Period:   period.String(),
		Classes:  []dto.ClassBarDTO{},
		Products: []dto.ProductSummaryDTO{},
	}
	summaries, err := uc.classify(period)
	if err != nil {
		return uc.noDataABC(out, err)
	}

	grand := decimal.Zero
	for _, t := range sales.SummarizeClasses(summaries) {
		grand = grand.Add(t.TotalRevenue)
		out.Classes = append(out.Classes, dto.ClassBarDTO{
			Class:        string(t.Class),
			TotalRevenue: t.TotalRevenue.Round(2),
			Products:     t.Products,
		})
	}
	for _, s := range summaries {
		out.Products = append(out.Products, dto.ProductSummaryDTO{
			ProductName:     s.ProductName,
			TotalRevenue:    s.TotalRevenue.Round(2),
			CumulativeShare: s.CumulativeShare.Round(4),
			Class:           string(s.Class),
		})
	}
	out.GrandTotal = grand.Round(2)
	out.Title = uc.printer.Sprintf("Facturación por Clase para: %s (Total: $%.2f)", period.String(), grand.InexactFloat64())
	return out, nil
}

func (uc *DashboardUseCase) noDataABC(out *dto.ABCSummaryDTO, err error) (*dto.ABCSummaryDTO, error) {
	msg, noData, _, fatal := classifyErr(err)
	if fatal || !noData {
		return nil, err
	}
	out.NoData = true
	out.Message = msg
	out.Title = msg
	return out, nil
}

// ── Nivel 1 ───────────────────────────────────────────────────────────────────

// CategoryBreakdown desglosa por categoría principal la facturación de la clase seleccionada.
func (uc *DashboardUseCase) CategoryBreakdown(sel dto.Selection) (*dto.CategoryBreakdownDTO, error) {
	if !uc.Available() {
		return &dto.CategoryBreakdownDTO{
			Period: sel.Period, Class: sel.Class, Categories: []dto.CategoryRevenueDTO{},
			NoData: true, Message: msgDataUnavailable,
		}, nil
	}
	period, err := sales.ParsePeriod(sel.Period)
	if err != nil {
		return nil, err
	}
	out := &dto.CategoryBreakdownDTO{
		Period:     period.String(),
		Class:      sel.Class,
		Categories: []dto.CategoryRevenueDTO{},
	}
	if sel.Class == "" {
		out.NoSelection = true
		out.Message = msgNoSelection
		return out, nil
	}
	class, err := sales.ParseClass(sel.Class)
	if err != nil {
		return nil, err
	}
	out.Title = fmt.Sprintf("Facturación en Clase %q por Categoría", class)

	records, summaries, err := uc.window(period)
	if err == nil {
		var breakdown []sales.CategoryBreakdown
		breakdown, err = sales.BreakdownByCategory(records, summaries, class)
		for _, b := range breakdown {
			out.Categories = append(out.Categories, dto.CategoryRevenueDTO{
				MainCategory: b.MainCategory,
				TotalRevenue: b.TotalRevenue.Round(2),
			})
		}
	}
	if err != nil {
		msg, noData, noSel, fatal := classifyErr(err)
		if fatal {
			return nil, err
		}
		out.Message, out.NoData, out.NoSelection = msg, noData, noSel
	}
	return out, nil
}

// ── Nivel 2 ───────────────────────────────────────────────────────────────────

// ProductDetails devuelve una página de la tabla de detalle para (clase, categoría).
// Las filas cuyo cálculo de rotación falla se marcan y se registran; no cortan el lote.
func (uc *DashboardUseCase) ProductDetails(sel dto.Selection, page dto.PageRequest) (*dto.ProductDetailsDTO, error) {
	page.DefaultPage()
	out, rows, err := uc.details(sel)
	if err != nil || out.NoData || out.NoSelection {
		if out != nil {
			out.Page = dto.PageResponse{Limit: page.Limit, Offset: page.Offset}
		}
		return out, err
	}

	out.Page = dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(rows)}
	start := min(page.Offset, len(rows))
	end := min(start+page.Limit, len(rows))
	out.Rows = rows[start:end]
	return out, nil
}

// ExportDetailsPDF genera el PDF con todas las filas de la selección (sin paginar).
// Devuelve domain.ErrNoSelection o domain.ErrEmptyWindow cuando no hay tabla para exportar.
func (uc *DashboardUseCase) ExportDetailsPDF(ctx context.Context, sel dto.Selection) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("analytics: generador de PDF no configurado")
	}
	out, rows, err := uc.details(sel)
	if err != nil {
		return nil, err
	}
	switch {
	case out.NoSelection:
		return nil, domain.ErrNoSelection
	case out.NoData:
		if !uc.Available() {
			return nil, domain.ErrDataUnavailable
		}
		return nil, domain.ErrEmptyWindow
	}
	out.Rows = rows
	out.Page = dto.PageResponse{Limit: len(rows), Total: len(rows)}
	doc, err := uc.pdf.GenerateDetailsPDF(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("analytics: exportar detalle: %w", err)
	}
	return doc, nil
}

// details arma la cabecera de la respuesta y todas las filas ordenadas.
func (uc *DashboardUseCase) details(sel dto.Selection) (*dto.ProductDetailsDTO, []dto.ProductDetailDTO, error) {
	if !uc.Available() {
		return &dto.ProductDetailsDTO{
			Period: sel.Period, Class: sel.Class, Category: sel.Category,
			Rows: []dto.ProductDetailDTO{}, NoData: true, Message: msgDataUnavailable,
		}, nil, nil
	}
	period, err := sales.ParsePeriod(sel.Period)
	if err != nil {
		return nil, nil, err
	}
	out := &dto.ProductDetailsDTO{
		Period:   period.String(),
		Class:    sel.Class,
		Category: sel.Category,
		Rows:     []dto.ProductDetailDTO{},
	}
	if sel.Class == "" || sel.Category == "" {
		out.NoSelection = true
		out.Message = msgNoSelection
		return out, nil, nil
	}
	class, err := sales.ParseClass(sel.Class)
	if err != nil {
		return nil, nil, err
	}
	out.Title = fmt.Sprintf("Detalle: Clase '%s', Categoría '%s'", class, sel.Category)

	records, summaries, err := uc.window(period)
	var detail []sales.ProductDetailRow
	if err == nil {
		detail, err = sales.ProductDetails(records, summaries, class, sel.Category)
	}
	if err != nil {
		msg, noData, noSel, fatal := classifyErr(err)
		if fatal {
			return nil, nil, err
		}
		out.Message, out.NoData, out.NoSelection = msg, noData, noSel
		return out, nil, nil
	}

	rows := make([]dto.ProductDetailDTO, 0, len(detail))
	for _, d := range detail {
		if d.Rotation.Failed() {
			uc.log.Warn().
				Err(d.Rotation.Err).
				Str("product_id", d.ProductID).
				Str("periodo", period.String()).
				Msg("error calculando rotación")
		}
		rows = append(rows, toDetailDTO(d))
	}
	return out, rows, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// window filtra el snapshot y clasifica la ventana con su propio total.
func (uc *DashboardUseCase) window(period sales.Period) ([]entity.SalesRecord, []sales.ProductRevenueSummary, error) {
	if !uc.Available() {
		return nil, nil, domain.ErrDataUnavailable
	}
	records := uc.snap.Window(period)
	summaries, err := sales.ClassifyABC(records)
	if err != nil {
		return nil, nil, err
	}
	return records, summaries, nil
}

func (uc *DashboardUseCase) classify(period sales.Period) ([]sales.ProductRevenueSummary, error) {
	_, summaries, err := uc.window(period)
	return summaries, err
}

// classifyErr traduce los errores esperados a banderas de la respuesta; fatal=true para el resto.
func classifyErr(err error) (msg string, noData, noSelection, fatal bool) {
	switch {
	case errors.Is(err, domain.ErrDataUnavailable):
		return msgDataUnavailable, true, false, false
	case errors.Is(err, domain.ErrEmptyWindow):
		return msgEmptyWindow, true, false, false
	case errors.Is(err, domain.ErrNoSelection):
		return msgNoSelection, false, true, false
	}
	return "", false, false, true
}

func toDetailDTO(d sales.ProductDetailRow) dto.ProductDetailDTO {
	out := dto.ProductDetailDTO{
		ProductID:      d.ProductID,
		ProductName:    d.ProductName,
		Subcategory:    d.Subcategory,
		UnitOfMeasure:  d.UnitOfMeasure,
		TotalRevenue:   d.TotalRevenue.Round(2),
		TotalUnitsSold: d.TotalUnitsSold.Round(2),
		Rotation:       string(d.Rotation.Label),
	}
	if d.StockUnits.Valid {
		stock := d.StockUnits.Decimal.Round(2)
		out.StockUnits = &stock
	}
	if d.Rotation.Err != nil {
		out.RotationError = d.Rotation.Err.Error()
	}
	if c, ok := rotationColors[d.Rotation.Label]; ok {
		out.BackgroundColor, out.TextColor = c[0], c[1]
	}
	return out
}
