package entity

import "math"

// PageRequest página solicitada (Number empieza en 0).
type PageRequest struct {
	Number int
	Size   int
}

// Offset desplazamiento en filas para la página. Satura en math.MaxInt en lugar de desbordar.
func (p PageRequest) Offset() int {
	if p.Number <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Number > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Number * p.Size
}

// Page página de resultados con sus metadatos.
type Page[T any] struct {
	Items         []T
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
	First         bool
	Last          bool
}

// NewPage calcula los metadatos a partir del total de elementos.
func NewPage[T any](items []T, req PageRequest, total int64) *Page[T] {
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return &Page[T]{
		Items:         items,
		Number:        req.Number,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         req.Number == 0,
		Last:          req.Number >= totalPages-1,
	}
}

// MapPage transforma los elementos conservando los metadatos de la página original.
func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return &Page[U]{
		Items:         out,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
	}
}
