package dto

import "github.com/shopspring/decimal"

// ── Selector de período ───────────────────────────────────────────────────────

// PeriodOptionDTO opción del selector de período.
type PeriodOptionDTO struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PeriodOptionsDTO respuesta de GET /api/dashboard/periods.
type PeriodOptionsDTO struct {
	Options []PeriodOptionDTO `json:"options"`
	Default string            `json:"default"`
	NoData  bool              `json:"no_data"`
}

// ── Nivel 0: facturación por clase ────────────────────────────────────────────

// ClassBarDTO una barra del gráfico de Pareto.
type ClassBarDTO struct {
	Class        string          `json:"class"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Products     int             `json:"products"`
}

// ProductSummaryDTO clasificación ABC de un producto dentro de la ventana.
type ProductSummaryDTO struct {
	ProductName     string          `json:"product_name"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	CumulativeShare decimal.Decimal `json:"cumulative_share"` // 0..1
	Class           string          `json:"class"`
}

// ABCSummaryDTO respuesta de GET /api/dashboard/abc.
type ABCSummaryDTO struct {
	Period     string              `json:"period"`
	Title      string              `json:"title"`
	GrandTotal decimal.Decimal     `json:"grand_total"`
	Classes    []ClassBarDTO       `json:"classes"`
	Products   []ProductSummaryDTO `json:"products"`
	NoData     bool                `json:"no_data"`
	Message    string              `json:"message,omitempty"`
}

// ── Nivel 1: desglose por categoría ───────────────────────────────────────────

// CategoryRevenueDTO una porción del gráfico de torta.
type CategoryRevenueDTO struct {
	MainCategory string          `json:"main_category"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// CategoryBreakdownDTO respuesta de GET /api/dashboard/categories.
type CategoryBreakdownDTO struct {
	Period      string               `json:"period"`
	Class       string               `json:"class"`
	Title       string               `json:"title"`
	Categories  []CategoryRevenueDTO `json:"categories"`
	NoData      bool                 `json:"no_data"`
	NoSelection bool                 `json:"no_selection"`
	Message     string               `json:"message,omitempty"`
}

// ── Nivel 2: detalle de productos ─────────────────────────────────────────────

// ProductDetailDTO fila de la tabla de detalle.
type ProductDetailDTO struct {
	ProductID       string           `json:"product_id"`
	ProductName     string           `json:"product_name"`
	Subcategory     string           `json:"subcategory"`
	UnitOfMeasure   string           `json:"unit_of_measure"`
	TotalRevenue    decimal.Decimal  `json:"total_revenue"`
	TotalUnitsSold  decimal.Decimal  `json:"total_units_sold"`
	StockUnits      *decimal.Decimal `json:"stock_units"` // null si el stock no está disponible
	Rotation        string           `json:"rotation"`
	RotationError   string           `json:"rotation_error,omitempty"`
	BackgroundColor string           `json:"background_color,omitempty"`
	TextColor       string           `json:"text_color,omitempty"`
}

// ProductDetailsDTO respuesta de GET /api/dashboard/products.
type ProductDetailsDTO struct {
	Period      string             `json:"period"`
	Class       string             `json:"class"`
	Category    string             `json:"category"`
	Title       string             `json:"title"`
	Rows        []ProductDetailDTO `json:"rows"`
	Page        PageResponse       `json:"page"`
	NoData      bool               `json:"no_data"`
	NoSelection bool               `json:"no_selection"`
	Message     string             `json:"message,omitempty"`
}
