package dto

// ── Query parameters ──────────────────────────────────────────────────────────

// Selection contexto explícito de cada interacción del dashboard.
// El cliente lo envía completo en cada request; el servidor no guarda estado de selección.
type Selection struct {
	Period   string `query:"period" validate:"required,max=16"`      // "90d" o "YYYY-MM"
	Class    string `query:"class" validate:"omitempty,oneof=A B C"` // clase clickeada en el gráfico de barras
	Category string `query:"category" validate:"omitempty,max=100"`  // categoría clickeada en el gráfico de torta
}
