package entity

import "github.com/shopspring/decimal"

// ElaboracionEnReceta es una línea del escandallo: cuánta elaboración
// requiere una ración de la receta.
type ElaboracionEnReceta struct {
	ElaboracionID       string
	CantidadPorServicio decimal.Decimal
}

// Receta referencia gastronómica vendible (solo lectura para este motor).
type Receta struct {
	ID            string
	Nombre        string
	Elaboraciones []ElaboracionEnReceta
}
