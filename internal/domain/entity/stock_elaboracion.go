package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockElaboracion es el excedente validado disponible de una elaboración,
// descontado de la necesidad bruta al planificar.
type StockElaboracion struct {
	ElaboracionID string
	Cantidad      decimal.Decimal
	Unidad        string
	UpdatedAt     time.Time
}
