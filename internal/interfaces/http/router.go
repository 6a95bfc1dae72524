package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rahulAIsingh/smart-asset-backend/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Propose   *stock.ProposeMovementUseCase
	Approval  *stock.ApprovalUseCase
	Query     *stock.QueryUseCase
	Exporter  MovementExporter
	Report    SummaryReportGenerator
	JWTSecret string

	// Umbral de stock bajo por defecto (0 desactiva la alerta).
	LowStockThreshold int64
}

// Router registra las rutas del ledger de stock. Todas requieren Bearer
// Token; aprobar/rechazar además exige rol admin o approver.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/stock", AuthMiddleware(deps.JWTSecret))
	handler := NewStockHandler(deps.Propose, deps.Approval, deps.Query, deps.Exporter, deps.Report, deps.LowStockThreshold)

	protected.Post("/movements", handler.ProposeMovement)
	protected.Get("/movements", handler.ListMovements)
	protected.Get("/movements/export", handler.ExportMovements)
	protected.Get("/movements/:id", handler.GetMovement)
	protected.Post("/movements/:id/approve", RequireRole("admin", "approver"), handler.Approve)
	protected.Post("/movements/:id/reject", RequireRole("admin", "approver"), handler.Reject)

	protected.Get("/summary", handler.Summary)
	protected.Get("/summary/report", handler.SummaryReport)
	protected.Get("/balances", handler.MonthlyBalances)
	protected.Get("/low-stock", handler.LowStock)
}
