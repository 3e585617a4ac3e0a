package http

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jsuarez/inventario-api/internal/application/dto"
	"github.com/jsuarez/inventario-api/internal/application/inventory"
	"github.com/jsuarez/inventario-api/internal/domain"
	"github.com/jsuarez/inventario-api/internal/domain/entity"
	"github.com/jsuarez/inventario-api/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP de stock (/api/v1/inventario).
type InventoryHandler struct {
	query    *inventory.StockQueryUseCase
	mutation *inventory.StockMutationUseCase
	validate *validator.Validate
	log      *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(query *inventory.StockQueryUseCase, mutation *inventory.StockMutationUseCase, log *logger.Logger) *InventoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &InventoryHandler{query: query, mutation: mutation, validate: v, log: log.Named("inventory_handler")}
}

// List godoc
// @Summary      Listar inventario
// @Tags         inventario
// @Produce      json
// @Success      200  {object}  dto.APIResponse[dto.StockResponse]
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/inventario [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	records, err := h.query.ListAll(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	items := make([]dto.StockResponse, len(records))
	for i, r := range records {
		items[i] = dto.ToStockResponse(r)
	}
	return c.JSON(dto.NewAPIResponse("inventario obtenido", items...))
}

// ListEnriched godoc
// @Summary      Listar inventario con datos del producto (paginado)
// @Tags         inventario
// @Produce      json
// @Param        page  query  int  false  "Página (0-based)"
// @Param        size  query  int  false  "Tamaño de página (default 10, máx 100)"
// @Success      200  {object}  dto.APIResponse[dto.EnrichedStockResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/inventario/completo [get]
func (h *InventoryHandler) ListEnriched(c *fiber.Ctx) error {
	var in dto.PageRequest
	if err := c.QueryParser(&in); err != nil {
		return h.writeError(c, domain.NewValidationError("page", "parámetros de paginación inválidos"))
	}
	in.DefaultPage()
	if err := h.validate.Struct(in); err != nil {
		return h.writeError(c, toValidationError(err))
	}

	page, err := h.query.EnrichPage(c.UserContext(), entity.PageRequest{Number: in.Page, Size: in.Size})
	if err != nil {
		return h.writeError(c, err)
	}
	resp := dto.NewAPIResponse("inventario obtenido", entity.MapPage(page, dto.ToEnrichedStockResponse).Items...)
	resp.Meta = dto.ToPageMeta(page)
	return c.JSON(resp)
}

// GetByProduct godoc
// @Summary      Obtener inventario de un producto
// @Tags         inventario
// @Produce      json
// @Param        productoId  path  int  true  "ID del producto"
// @Success      200  {object}  dto.APIResponse[dto.StockResponse]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/inventario/producto/{productoId} [get]
func (h *InventoryHandler) GetByProduct(c *fiber.Ctx) error {
	productID, err := productIDParam(c)
	if err != nil {
		return h.writeError(c, err)
	}
	record, err := h.query.GetByProductID(c.UserContext(), productID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.NewAPIResponse("inventario obtenido", dto.ToStockResponse(record)))
}

// GetEnrichedByProduct godoc
// @Summary      Obtener inventario de un producto con datos del catálogo
// @Description  Si el catálogo no responde, el nombre es "SERVICE UNAVAILABLE"; si no conoce el producto, "PRODUCT NOT FOUND".
// @Tags         inventario
// @Produce      json
// @Param        productoId  path  int  true  "ID del producto"
// @Success      200  {object}  dto.APIResponse[dto.EnrichedStockResponse]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/inventario/producto/{productoId}/completo [get]
func (h *InventoryHandler) GetEnrichedByProduct(c *fiber.Ctx) error {
	productID, err := productIDParam(c)
	if err != nil {
		return h.writeError(c, err)
	}
	view, err := h.query.Enrich(c.UserContext(), productID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.NewAPIResponse("inventario obtenido", dto.ToEnrichedStockResponse(view)))
}

// Upsert godoc
// @Summary      Crear o actualizar inventario
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockRequest  true  "producto_id, cantidad"
// @Success      201  {object}  dto.APIResponse[dto.StockResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/inventario [post]
func (h *InventoryHandler) Upsert(c *fiber.Ctx) error {
	in, err := h.parseStockRequest(c)
	if err != nil {
		return h.writeError(c, err)
	}
	record, err := h.mutation.Upsert(c.UserContext(), in.ProductID, *in.Quantity)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAPIResponse("inventario guardado", dto.ToStockResponse(record)))
}

// CreateWithValidation godoc
// @Summary      Crear inventario validando el producto en el catálogo
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockRequest  true  "producto_id, cantidad"
// @Success      201  {object}  dto.APIResponse[dto.EnrichedStockResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/v1/inventario/con-validacion [post]
func (h *InventoryHandler) CreateWithValidation(c *fiber.Ctx) error {
	in, err := h.parseStockRequest(c)
	if err != nil {
		return h.writeError(c, err)
	}
	view, err := h.mutation.CreateWithValidation(c.UserContext(), in.ProductID, *in.Quantity)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAPIResponse("inventario creado", dto.ToEnrichedStockResponse(view)))
}

// SetQuantity godoc
// @Summary      Actualizar la cantidad de un producto
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        productoId  path   int  true  "ID del producto"
// @Param        cantidad    query  int  true  "Nueva cantidad (>= 0)"
// @Success      200  {object}  dto.APIResponse[dto.StockResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/inventario/producto/{productoId}/cantidad [put]
func (h *InventoryHandler) SetQuantity(c *fiber.Ctx) error {
	productID, err := productIDParam(c)
	if err != nil {
		return h.writeError(c, err)
	}
	quantity, err := intQuery(c, "cantidad")
	if err != nil {
		return h.writeError(c, err)
	}
	record, err := h.mutation.SetQuantity(c.UserContext(), productID, quantity)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.NewAPIResponse("cantidad actualizada", dto.ToStockResponse(record)))
}

// Purchase godoc
// @Summary      Procesar compra (descontar inventario)
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        productoId        path   int  true  "ID del producto"
// @Param        cantidadComprada  query  int  true  "Cantidad comprada (> 0)"
// @Success      200  {object}  dto.APIResponse[dto.PurchaseResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.InsufficientStockResponse
// @Router       /api/v1/inventario/producto/{productoId}/compra [put]
func (h *InventoryHandler) Purchase(c *fiber.Ctx) error {
	productID, err := productIDParam(c)
	if err != nil {
		return h.writeError(c, err)
	}
	requested, err := intQuery(c, "cantidadComprada")
	if err != nil {
		return h.writeError(c, err)
	}
	result, err := h.mutation.DeductForPurchase(c.UserContext(), productID, requested)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.NewAPIResponse(result.Message, dto.ToPurchaseResponse(result)))
}

// Delete godoc
// @Summary      Eliminar inventario de un producto
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        productoId  path  int  true  "ID del producto"
// @Success      200  {object}  dto.APIResponse[dto.StockResponse]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/inventario/producto/{productoId} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	productID, err := productIDParam(c)
	if err != nil {
		return h.writeError(c, err)
	}
	deleted, err := h.mutation.Remove(c.UserContext(), productID)
	if err != nil {
		return h.writeError(c, err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay inventario para el producto"})
	}
	return c.JSON(dto.NewAPIResponse[dto.StockResponse]("inventario eliminado"))
}

func (h *InventoryHandler) parseStockRequest(c *fiber.Ctx) (*dto.StockRequest, error) {
	var in dto.StockRequest
	if err := c.BodyParser(&in); err != nil {
		return nil, domain.NewValidationError("body", "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return nil, toValidationError(err)
	}
	return &in, nil
}

// toValidationError resume los errores de validator en un ValidationError de dominio.
func toValidationError(err error) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return domain.NewValidationError("body", "datos inválidos")
	}
	fields := make([]string, 0, len(vErrs))
	rules := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, fe.Field())
		rules = append(rules, fe.Tag())
	}
	return domain.NewValidationError(strings.Join(fields, ","), "failed on rule "+strings.Join(rules, ","))
}

// writeError traduce errores de dominio a códigos HTTP.
func (h *InventoryHandler) writeError(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(dto.InsufficientStockResponse{
			ErrorResponse: dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()},
			Available:     stockErr.Available,
			Requested:     stockErr.Requested,
		})
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: vErr.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrProductNotInCatalog):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "el producto no existe en el catálogo"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay inventario para el producto"})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CATALOG_UNAVAILABLE", Message: "no se pudo verificar el producto, intente más tarde"})
	default:
		h.log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

func productIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("productoId"), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("productoId", "debe ser un entero")
	}
	return id, nil
}

func intQuery(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, domain.NewValidationError(name, "parámetro requerido")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, fmt.Sprintf("valor inválido %q", raw))
	}
	return n, nil
}
