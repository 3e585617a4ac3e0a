package entity

// CatalogStatus resultado cerrado de una consulta al catálogo de productos.
type CatalogStatus int

const (
	// CatalogFound el catálogo devolvió el producto.
	CatalogFound CatalogStatus = iota + 1
	// CatalogAbsent el catálogo respondió explícitamente que el producto no existe.
	CatalogAbsent
	// CatalogTransportError no hubo respuesta utilizable (timeout, conexión, 5xx).
	CatalogTransportError
)

func (s CatalogStatus) String() string {
	switch s {
	case CatalogFound:
		return "FOUND"
	case CatalogAbsent:
		return "ABSENT_UPSTREAM"
	case CatalogTransportError:
		return "TRANSPORT_ERROR"
	default:
		return "UNKNOWN"
	}
}

// CatalogResult valor devuelto por Lookup/Exists. Product solo se llena con CatalogFound
// (Exists puede omitirlo); Err solo con CatalogTransportError.
type CatalogResult struct {
	Status  CatalogStatus
	Product *ProductSnapshot
	Err     error
}

// Found construye un resultado exitoso.
func Found(p *ProductSnapshot) CatalogResult {
	return CatalogResult{Status: CatalogFound, Product: p}
}

// AbsentUpstream construye un resultado de ausencia explícita.
func AbsentUpstream() CatalogResult {
	return CatalogResult{Status: CatalogAbsent}
}

// TransportFailure construye un resultado de fallo de transporte.
func TransportFailure(err error) CatalogResult {
	return CatalogResult{Status: CatalogTransportError, Err: err}
}
