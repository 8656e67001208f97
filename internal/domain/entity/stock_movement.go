package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementSale        = "sale"        // venta de mostrador
	MovementReserve     = "reserve"     // retención por seña
	MovementRelease     = "release"     // devolución por cancelación de seña
	MovementRestock     = "restock"     // reposición
	MovementAdjust      = "adjust"      // ajuste manual
	MovementTransfer    = "transfer"    // cambio de sucursal
	MovementConsignment = "consignment" // venta JBL en modo inventario
)

// StockMovement registro de auditoría de cada cambio de stock.
type StockMovement struct {
	ID         string
	ProductID  string
	Type       string
	Quantity   int    // positivo suma, negativo resta
	StockAfter int
	Reference  string // id de venta, seña, o nota
	Store      string
	CreatedAt  time.Time
	CreatedBy  string
}
