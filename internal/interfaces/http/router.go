package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jsuarez/inventario-api/internal/application/inventory"
	"github.com/jsuarez/inventario-api/pkg/jwt"
	"github.com/jsuarez/inventario-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockQuery    *inventory.StockQueryUseCase
	StockMutation *inventory.StockMutationUseCase
	Logger        *logger.Logger
	// JWTSecret vacío deja las rutas de escritura sin autenticación.
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	h := NewInventoryHandler(deps.StockQuery, deps.StockMutation, deps.Logger)

	inv := app.Group("/api/v1/inventario")

	// Lecturas (público)
	inv.Get("/", h.List)
	inv.Get("/completo", h.ListEnriched)
	inv.Get("/producto/:productoId", h.GetByProduct)
	inv.Get("/producto/:productoId/completo", h.GetEnrichedByProduct)

	// Escrituras: admin y bodeguero; la compra también la puede registrar un vendedor.
	manage := guard(deps.JWTSecret, jwt.RoleAdmin, jwt.RoleBodeguero)
	sell := guard(deps.JWTSecret, jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)

	inv.Post("/", append(manage, h.Upsert)...)
	inv.Post("/con-validacion", append(manage, h.CreateWithValidation)...)
	inv.Put("/producto/:productoId/cantidad", append(manage, h.SetQuantity)...)
	inv.Put("/producto/:productoId/compra", append(sell, h.Purchase)...)
	inv.Delete("/producto/:productoId", append(manage, h.Delete)...)
}

// guard devuelve la cadena de middlewares de auth; vacía si no hay secreto configurado.
func guard(secret string, roles ...string) []fiber.Handler {
	if secret == "" {
		return nil
	}
	return []fiber.Handler{AuthMiddleware(secret), RequireRole(roles...)}
}
