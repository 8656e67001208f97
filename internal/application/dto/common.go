package dto

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest limit/offset de los listados (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// Normalize deja Limit en 1..MaxPageLimit (0 o negativo = DefaultPageLimit) y Offset >= 0.
func (p *PageRequest) Normalize() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse página devuelta y total de filas que matchean el filtro.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// NewPageResponse arma los metadatos a partir del pedido normalizado y el total sin paginar.
func NewPageResponse(p PageRequest, total int) PageResponse {
	return PageResponse{
		Limit:   p.Limit,
		Offset:  p.Offset,
		Total:   total,
		HasMore: p.Offset+p.Limit < total,
	}
}

// ErrorResponse cuerpo de error HTTP: code es estable (INSUFFICIENT_STOCK, PAYMENT_MISMATCH...), message legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
