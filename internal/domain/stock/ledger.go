// Package stock contiene las reglas puras del libro de stock (sin acceso a persistencia).
package stock

import "github.com/jhoicas/iMarket-api/internal/domain/entity"

// Resolution resultado de resolver un producto agotado.
type Resolution int

const (
	// Persist el producto se guarda con el stock resultante (0 si se agotó).
	Persist Resolution = iota
	// Delete el producto se elimina del catálogo.
	Delete
)

// ApplyStockDelta devuelve max(0, stock + delta). Nunca negativo.
func ApplyStockDelta(current, delta int) int {
	next := current + delta
	if next < 0 {
		return 0
	}
	return next
}

// ResolveDepletion decide qué hacer con el producto según su stock actual: los celulares nuevos y usados
// agotados se eliminan; todo lo demás se conserva (en 0 si se agotó) para las alertas de reposición.
func ResolveDepletion(p *entity.Product) Resolution {
	if p.Stock <= 0 && entity.IsPhoneWithMandatoryDeletion(p.Category) {
		return Delete
	}
	if p.Stock < 0 {
		p.Stock = 0
	}
	return Persist
}
