package catalog

// Item is one reference record from the catalog table. The catalog is
// read-only from this service's perspective.
type Item struct {
	Code        string `json:"code"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Stock       int    `json:"stock"`
	Active      bool   `json:"active"`
}

// MapHeaders translates the sheet's header row (Spanish or English) into
// field names keyed by column index. Unknown headers are ignored.
func MapHeaders(headers []string) map[int]string {
	headerMap := make(map[int]string)

	for i, header := range headers {
		switch normalize(header) {
		case "CODIGO", "CODE":
			headerMap[i] = "code"
		case "CATEGORIA", "CATEGORY":
			headerMap[i] = "category"
		case "DESCRIPCION", "DESCRIPTION":
			headerMap[i] = "description"
		case "UNIDAD", "UNIT", "UM":
			headerMap[i] = "unit"
		case "STOCK", "CANTIDAD":
			headerMap[i] = "stock"
		case "ACTIVO", "ACTIVE":
			headerMap[i] = "active"
		}
	}

	return headerMap
}
