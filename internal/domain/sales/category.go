// Package sales contiene la lógica de clasificación del dashboard de ventas:
// ventana temporal, clasificación ABC por facturación, desglose por categoría,
// detalle por producto y rotación de stock.
//
// Todo es puro y sin estado: cada función recibe el subconjunto de registros y
// devuelve resultados nuevos. Nada se cachea entre llamadas.
package sales

// categoryCodes mapea los dos primeros caracteres del id de producto a la categoría principal.
var categoryCodes = map[string]string{
	"AB": "Aceto Balsámico",
	"AC": "Aceites de Oliva",
	"AL": "Alimentos",
	"AR": "Artículos Refrigerados",
	"BA": "Bebidas Alcohólicas",
	"VI": "Vinos",
}

// MainCategory devuelve la categoría principal para productID, o "" si el prefijo no está mapeado.
func MainCategory(productID string) string {
	if len(productID) < 2 {
		return ""
	}
	return categoryCodes[productID[:2]]
}
