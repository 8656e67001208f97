package entity

// Categorías de celulares. Solo "Celulares Nuevos" y "Celulares Usados" se eliminan del catálogo al agotarse;
// la genérica "Celulares" se conserva en stock 0 como cualquier accesorio.
const (
	CategoryPhonesNew  = "Celulares Nuevos"
	CategoryPhonesUsed = "Celulares Usados"
	CategoryPhones     = "Celulares"
	CategoryJBL        = "Parlantes JBL"
)

// IsPhoneCategory indica si la categoría corresponde a celulares (nuevos, usados o genérica).
func IsPhoneCategory(category string) bool {
	switch category {
	case CategoryPhonesNew, CategoryPhonesUsed, CategoryPhones:
		return true
	}
	return false
}

// IsPhoneWithMandatoryDeletion indica si un producto de la categoría debe borrarse al llegar a stock 0.
func IsPhoneWithMandatoryDeletion(category string) bool {
	return category == CategoryPhonesNew || category == CategoryPhonesUsed
}
