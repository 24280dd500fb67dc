package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/tillpoint/internal/api"
	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/dmitrijs2005/tillpoint/internal/logging"
	"github.com/dmitrijs2005/tillpoint/internal/server/models"
	"github.com/dmitrijs2005/tillpoint/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Handler binds the HTTP routes to the domain services.
type Handler struct {
	authGate *services.AuthGateService
	terminal *services.TerminalService
	treasury *services.TreasuryService
	handover *services.HandoverService
	logger   logging.Logger
}

// NewHandler creates a Handler over the given services.
func NewHandler(gate *services.AuthGateService, terminal *services.TerminalService, treasury *services.TreasuryService, handover *services.HandoverService, logger logging.Logger) *Handler {
	return &Handler{
		authGate: gate,
		terminal: terminal,
		treasury: treasury,
		handover: handover,
		logger:   logger,
	}
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, fmt.Errorf("invalid request body: %w", common.ErrValidation))
		return false
	}
	return true
}

// idempotencyKey prefers the body-level id and falls back to the request
// header, so both online calls and outbox replays carry a stable key.
func idempotencyKey(c *gin.Context, bodyID string) string {
	if bodyID != "" {
		return bodyID
	}
	return c.GetHeader(common.IdempotencyKeyHeaderName)
}

func (h *Handler) login(c *gin.Context) {
	var req api.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, user, err := h.authGate.Login(c.Request.Context(), req.Username, req.PIN)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.LoginResponse{
		AccessToken: token,
		UserID:      user.ID,
		Role:        string(user.Role),
	})
}

func (h *Handler) authorize(c *gin.Context) {
	var req api.AuthorizeRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authGate.AuthorizeSupervisor(
		c.Request.Context(), req.Username, req.PIN, models.Operation(req.Operation))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.AuthorizeResponse{TokenID: token.ID, ExpiresAt: token.Expires})
}

func (h *Handler) createUser(c *gin.Context) {
	var req api.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authGate.CreateUser(
		c.Request.Context(), models.Role(userRole(c)),
		req.Username, req.PIN, models.Role(req.Role), req.LocationID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.User{
		ID:         user.ID,
		Username:   user.UserName,
		Role:       string(user.Role),
		LocationID: user.LocationID,
	})
}

func (h *Handler) openTerminal(c *gin.Context) {
	var req api.OpenTerminalRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.terminal.Open(c.Request.Context(), services.OpenParams{
		SessionID:     idempotencyKey(c, req.SessionID),
		LocationID:    req.LocationID,
		TerminalID:    c.Param("terminalId"),
		UserID:        userID(c),
		OpeningAmount: req.OpeningAmount,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAPISession(session))
}

func (h *Handler) closeTerminal(c *gin.Context) {
	var req api.CloseTerminalRequest
	if !bindJSON(c, &req) {
		return
	}

	terminalID := c.Param("terminalId")

	var (
		session *models.TerminalSession
		err     error
	)
	if req.Force {
		session, err = h.terminal.ForceClose(c.Request.Context(), terminalID, req.SessionID, userID(c), req.ClosingAmount, req.AuthTokenID)
	} else {
		session, err = h.terminal.Close(c.Request.Context(), terminalID, req.SessionID, userID(c), req.ClosingAmount)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAPISession(session))
}

func (h *Handler) recordMovement(c *gin.Context) {
	var req api.RecordMovementRequest
	if !bindJSON(c, &req) {
		return
	}

	movement, err := h.treasury.Record(c.Request.Context(), services.RecordParams{
		MovementID:  idempotencyKey(c, req.MovementID),
		ShiftID:     c.Param("shiftId"),
		Type:        models.MovementType(req.Type),
		Amount:      req.Amount,
		Reason:      models.MovementReason(req.Reason),
		IsCash:      req.IsCash,
		UserID:      userID(c),
		AuthTokenID: req.AuthTokenID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAPIMovement(movement))
}

func (h *Handler) listMovements(c *gin.Context) {
	movs, err := h.treasury.ListForShift(c.Request.Context(), c.Param("shiftId"))
	if err != nil {
		writeError(c, err)
		return
	}

	result := make([]api.Movement, 0, len(movs))
	for _, m := range movs {
		result = append(result, toAPIMovement(m))
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) recordSale(c *gin.Context) {
	var req api.RecordSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.treasury.RecordSale(c.Request.Context(), services.RecordSaleParams{
		SaleID:  idempotencyKey(c, req.SaleID),
		ShiftID: req.ShiftID,
		Method:  models.PaymentMethod(req.Method),
		Amount:  req.Amount,
		UserID:  userID(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.Sale{
		ID:        sale.ID,
		ShiftID:   sale.ShiftID,
		Method:    string(sale.Method),
		Amount:    sale.Amount,
		CreatedBy: sale.CreatedBy,
		Timestamp: sale.Timestamp,
	})
}

func (h *Handler) calculateHandover(c *gin.Context) {
	var req api.CalculateHandoverRequest
	if !bindJSON(c, &req) {
		return
	}

	summary, err := h.handover.Calculate(c.Request.Context(), c.Param("terminalId"), req.DeclaredCash)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAPISummary(summary))
}

func (h *Handler) executeHandover(c *gin.Context) {
	var req api.ExecuteHandoverRequest
	if !bindJSON(c, &req) {
		return
	}

	submitted := fromAPISummary(&req.Summary)
	summary, err := h.handover.Execute(c.Request.Context(), c.Param("terminalId"), submitted, req.AuthTokenID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAPISummary(summary))
}

func (h *Handler) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func toAPISession(s *models.TerminalSession) api.Session {
	return api.Session{
		ID:            s.ID,
		LocationID:    s.LocationID,
		TerminalID:    s.TerminalID,
		Status:        string(s.Status),
		OpenedBy:      s.OpenedBy,
		OpeningAmount: s.OpeningAmount,
		OpenedAt:      s.OpenedAt,
		ClosedAt:      s.ClosedAt,
		ClosingAmount: s.ClosingAmount,
		Difference:    s.Difference,
		ForcedClose:   s.ForcedClose,
	}
}

func toAPIMovement(m *models.CashMovement) api.Movement {
	return api.Movement{
		ID:           m.ID,
		ShiftID:      m.ShiftID,
		Type:         string(m.Type),
		Amount:       m.Amount,
		Reason:       string(m.Reason),
		IsCash:       m.IsCash,
		CreatedBy:    m.CreatedBy,
		AuthorizedBy: m.AuthorizedBy,
		Timestamp:    m.Timestamp,
	}
}

func toAPISummary(s *models.HandoverSummary) api.HandoverSummary {
	return api.HandoverSummary{
		ShiftID:          s.ShiftID,
		OpeningAmount:    s.OpeningAmount,
		CashSales:        s.CashSales,
		CardSales:        s.CardSales,
		TransferSales:    s.TransferSales,
		OtherSales:       s.OtherSales,
		TotalSales:       s.TotalSales,
		CashIn:           s.CashIn,
		CashOut:          s.CashOut,
		DeclaredCash:     s.DeclaredCash,
		ExpectedCash:     s.ExpectedCash,
		Diff:             s.Diff,
		AmountToKeep:     s.AmountToKeep,
		AmountToWithdraw: s.AmountToWithdraw,
	}
}

func fromAPISummary(s *api.HandoverSummary) *models.HandoverSummary {
	return &models.HandoverSummary{
		ShiftID:          s.ShiftID,
		OpeningAmount:    s.OpeningAmount,
		CashSales:        s.CashSales,
		CardSales:        s.CardSales,
		TransferSales:    s.TransferSales,
		OtherSales:       s.OtherSales,
		TotalSales:       s.TotalSales,
		CashIn:           s.CashIn,
		CashOut:          s.CashOut,
		DeclaredCash:     s.DeclaredCash,
		ExpectedCash:     s.ExpectedCash,
		Diff:             s.Diff,
		AmountToKeep:     s.AmountToKeep,
		AmountToWithdraw: s.AmountToWithdraw,
	}
}
