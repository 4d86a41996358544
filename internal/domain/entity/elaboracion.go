package entity

// Elaboracion es una preparación intermedia de cocina producida en lote
// (salsa base, fondo...) y consumida por una o más recetas.
type Elaboracion struct {
	ID                string
	Nombre            string
	UnidadProduccion  string
	PartidaProduccion string
	TipoExpedicion    string
}
