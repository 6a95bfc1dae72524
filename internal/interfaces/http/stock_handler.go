package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rahulAIsingh/smart-asset-backend/internal/application/dto"
	"github.com/rahulAIsingh/smart-asset-backend/internal/application/stock"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/entity"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// MovementExporter puerto hacia la exportación tabular (xlsx).
type MovementExporter interface {
	Export(rows []stock.ExportRow) ([]byte, error)
}

// SummaryReportGenerator puerto hacia el reporte PDF de valorización.
type SummaryReportGenerator interface {
	Generate(summaries []entity.InventorySummary) ([]byte, error)
}

// StockHandler maneja las peticiones HTTP del ledger de stock (protegido).
type StockHandler struct {
	propose          *stock.ProposeMovementUseCase
	approval         *stock.ApprovalUseCase
	query            *stock.QueryUseCase
	exporter         MovementExporter
	report           SummaryReportGenerator
	defaultThreshold int64
}

// NewStockHandler construye el handler. defaultThreshold es el umbral de
// stock bajo cuando la petición no trae uno (0 desactiva la alerta).
func NewStockHandler(
	propose *stock.ProposeMovementUseCase,
	approval *stock.ApprovalUseCase,
	query *stock.QueryUseCase,
	exporter MovementExporter,
	report SummaryReportGenerator,
	defaultThreshold int64,
) *StockHandler {
	return &StockHandler{
		propose:          propose,
		approval:         approval,
		query:            query,
		exporter:         exporter,
		report:           report,
		defaultThreshold: defaultThreshold,
	}
}

// ProposeMovement godoc
// @Summary      Proponer un movimiento de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProposeMovementRequest  true  "direction, quantity, category, item_name, location; reason_type y acompañantes para salidas"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) ProposeMovement(c *fiber.Ctx) error {
	actor := GetUserName(c)
	if actor == "" {
		actor = GetUserID(c)
	}
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	var in dto.ProposeMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input, err := proposeInputFromRequest(actor, in)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	movement, err := h.propose.Propose(c.Context(), input)
	if err != nil {
		var insufficient *domain.InsufficientStockError
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		case errors.As(err, &insufficient):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:    "INSUFFICIENT_STOCK",
				Message: fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", insufficient.Available, insufficient.Requested),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(movement))
}

// ListMovements godoc
// @Summary      Listar movimientos del ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location  query  string  false  "Filtrar por sede"
// @Param        category  query  string  false  "Filtrar por categoría"
// @Param        from      query  string  false  "Fecha contable desde (YYYY-MM-DD)"
// @Param        to        query  string  false  "Fecha contable hasta (YYYY-MM-DD)"
// @Success      200  {array}   dto.MovementResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	movements, err := h.query.ListMovements(c.Context(), filterFromQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.NewMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// GetMovement godoc
// @Summary      Consultar un movimiento por id
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id} [get]
func (h *StockHandler) GetMovement(c *fiber.Ctx) error {
	movement, err := h.query.GetMovement(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrNotLedgerRecord) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewMovementResponse(movement))
}

// Approve godoc
// @Summary      Aprobar un movimiento pendiente
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id}/approve [post]
func (h *StockHandler) Approve(c *fiber.Ctx) error {
	return h.resolve(c, h.approval.Approve, "movimiento aprobado")
}

// Reject godoc
// @Summary      Rechazar un movimiento pendiente
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id}/reject [post]
func (h *StockHandler) Reject(c *fiber.Ctx) error {
	return h.resolve(c, h.approval.Reject, "movimiento rechazado")
}

func (h *StockHandler) resolve(c *fiber.Ctx, op func(ctx context.Context, id, actor string) error, okMessage string) error {
	actor := GetUserName(c)
	if actor == "" {
		actor = GetUserID(c)
	}
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")

	err := op(c.Context(), id, actor)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNotLedgerRecord):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
		case errors.Is(err, domain.ErrAlreadyResolved):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_RESOLVED", Message: "el movimiento ya fue resuelto"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": okMessage})
}

// Summary godoc
// @Summary      Inventario actual por línea
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SummaryResponse
// @Router       /api/stock/summary [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	summaries, err := h.query.Summary(c.Context(), filterFromQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.NewSummaryResponse(s))
	}
	return c.JSON(fiber.Map{"total": len(out), "summary": out})
}

// MonthlyBalances godoc
// @Summary      Saldos de apertura y cierre por sede
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        year   query  int  true  "Año"
// @Param        month  query  int  true  "Mes (1-12)"
// @Success      200  {array}   dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/balances [get]
func (h *StockHandler) MonthlyBalances(c *fiber.Ctx) error {
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "year y month son obligatorios"})
	}

	balances, err := h.query.MonthlyBalances(c.Context(), year, time.Month(month), filterFromQuery(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "período inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.BalanceResponse{Location: b.Location, OpeningQty: b.OpeningQty, ClosingQty: b.ClosingQty})
	}
	return c.JSON(fiber.Map{"total": len(out), "balances": out})
}

// LowStock godoc
// @Summary      Líneas con stock bajo
// @Description  qty <= threshold; un threshold de 0 desactiva la alerta.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Umbral de alerta"
// @Success      200  {array}  dto.SummaryResponse
// @Router       /api/stock/low-stock [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	threshold := h.defaultThreshold
	if raw := c.Query("threshold"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			threshold = n
		}
	}
	flagged, err := h.query.LowStock(c.Context(), threshold, filterFromQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.SummaryResponse, 0, len(flagged))
	for _, s := range flagged {
		out = append(out, dto.NewSummaryResponse(s))
	}
	return c.JSON(fiber.Map{"total": len(out), "low_stock": out})
}

// ExportMovements godoc
// @Summary      Exportar la vista de movimientos a xlsx
// @Tags         stock
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/stock/movements/export [get]
func (h *StockHandler) ExportMovements(c *fiber.Ctx) error {
	rows, err := h.query.ExportRows(c.Context(), filterFromQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	data, err := h.exporter.Export(rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-movements.xlsx"`)
	return c.Send(data)
}

// SummaryReport godoc
// @Summary      Reporte PDF de valorización del inventario
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/stock/summary/report [get]
func (h *StockHandler) SummaryReport(c *fiber.Ctx) error {
	summaries, err := h.query.Summary(c.Context(), filterFromQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	data, err := h.report.Generate(summaries)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-summary.pdf"`)
	return c.Send(data)
}

func proposeInputFromRequest(actor string, in dto.ProposeMovementRequest) (stock.ProposeMovementInput, error) {
	var txDate time.Time
	if in.TransactionDate != "" {
		parsed, err := time.Parse("2006-01-02", in.TransactionDate)
		if err != nil {
			return stock.ProposeMovementInput{}, fmt.Errorf("transaction_date debe ser YYYY-MM-DD")
		}
		txDate = parsed
	}

	var unitCost, totalCost *decimal.Decimal
	if in.UnitCost != nil && !in.UnitCost.IsNegative() {
		unitCost = in.UnitCost
	}
	if in.TotalCost != nil && !in.TotalCost.IsNegative() {
		totalCost = in.TotalCost
	}

	return stock.ProposeMovementInput{
		Direction: in.Direction,
		Quantity:  in.Quantity,
		Actor:     actor,
		Meta: entity.StockMovementMeta{
			Category:        in.Category,
			ItemName:        in.ItemName,
			SerialNumber:    in.SerialNumber,
			Location:        in.Location,
			Vendor:          in.Vendor,
			ReferenceNumber: in.ReferenceNumber,
			Note:            in.Note,
			UnitCost:        unitCost,
			TotalCost:       totalCost,
			TransactionDate: txDate,
			ReasonType:      in.ReasonType,
			FromLocation:    in.FromLocation,
			ToLocation:      in.ToLocation,
			ScrapVendor:     in.ScrapVendor,
		},
	}, nil
}

func filterFromQuery(c *fiber.Ctx) ledger.Filter {
	filter := ledger.Filter{
		Location: c.Query("location"),
		Category: c.Query("category"),
	}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.To = &t
		}
	}
	return filter
}
