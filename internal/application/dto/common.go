package dto

// DefaultPageSize tamaño de página si el cliente no envía size.
const DefaultPageSize = 10

// PageRequest paginación para listados. Page empieza en 0 (igual que el store).
type PageRequest struct {
	Page int `query:"page" validate:"min=0,max=1000000"`
	Size int `query:"size" validate:"min=0,max=100"`
}

// DefaultPage aplica valores por defecto si Page/Size son cero o negativos.
func (p *PageRequest) DefaultPage() {
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Page < 0 {
		p.Page = 0
	}
}

// PageMeta metadatos de página en respuestas. Page es 1-based para el cliente.
type PageMeta struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// APIResponse envoltorio común: data siempre es una lista.
type APIResponse[T any] struct {
	Data    []T       `json:"data"`
	Message string    `json:"message"`
	Meta    *PageMeta `json:"meta,omitempty"`
}

// NewAPIResponse arma la respuesta con un único elemento o una lista.
func NewAPIResponse[T any](message string, items ...T) APIResponse[T] {
	if items == nil {
		items = []T{}
	}
	return APIResponse[T]{Data: items, Message: message}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InsufficientStockResponse cuerpo de error 409 con el detalle de la compra rechazada.
type InsufficientStockResponse struct {
	ErrorResponse
	Available int `json:"available"`
	Requested int `json:"requested"`
}
