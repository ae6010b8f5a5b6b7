package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dormfix/internal/config"
	"github.com/iliyamo/dormfix/internal/model"
	"github.com/iliyamo/dormfix/internal/queue"
	"github.com/iliyamo/dormfix/internal/repository"
	queuepublisher "github.com/iliyamo/dormfix/internal/service"
)

// MaintenanceHandler covers ticket submission, the two listing views and
// the landlord status lifecycle.
type MaintenanceHandler struct {
	Cfg         config.Config
	Requests    *repository.MaintenanceRepo
	Users       *repository.UserRepo
	Assignments *repository.AssignmentRepo
}

func NewMaintenanceHandler(cfg config.Config, m *repository.MaintenanceRepo, u *repository.UserRepo, a *repository.AssignmentRepo) *MaintenanceHandler {
	return &MaintenanceHandler{Cfg: cfg, Requests: m, Users: u, Assignments: a}
}

type submitReq struct {
	IssueType   string `json:"issueType"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
}

type ticketResp struct {
	ID            uint64  `json:"id"`
	TenantID      uint64  `json:"tenantId"`
	DateSubmitted string  `json:"dateSubmitted"`
	IssueType     string  `json:"issueType"`
	Description   string  `json:"description"`
	Urgency       string  `json:"urgency"`
	Status        string  `json:"status"`
	AdminRemarks  *string `json:"adminRemarks,omitempty"`
}

func toTicketResp(m model.MaintenanceRequest) ticketResp {
	return ticketResp{
		ID:            m.ID,
		TenantID:      m.TenantID,
		DateSubmitted: m.DateSubmitted.UTC().Format("2006-01-02"),
		IssueType:     m.IssueType,
		Description:   m.Description,
		Urgency:       m.Urgency,
		Status:        m.Status,
		AdminRemarks:  m.AdminRemarks,
	}
}

// Submit files a new ticket for the authenticated tenant. Status always
// starts at Pending regardless of what the client sends. A
// maintenance.submitted event goes to the broker best-effort: a dead
// broker never fails the request.
func (h *MaintenanceHandler) Submit(c echo.Context) error {
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.IssueType = strings.TrimSpace(req.IssueType)
	req.Description = strings.TrimSpace(req.Description)
	req.Urgency = strings.TrimSpace(req.Urgency)
	if req.IssueType == "" || req.Description == "" || req.Urgency == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "issueType/description/urgency required"})
	}
	if !model.ValidUrgency(req.Urgency) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid urgency"})
	}
	tenantID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := model.MaintenanceRequest{
		TenantID:    tenantID,
		IssueType:   req.IssueType,
		Description: req.Description,
		Urgency:     req.Urgency,
	}
	if err := h.Requests.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}

	go h.publishSubmitted(m)

	return c.JSON(http.StatusCreated, toTicketResp(m))
}

// publishSubmitted enriches the event with tenant name and room before
// publishing. Runs off the request path; failures are logged only.
func (h *MaintenanceHandler) publishSubmitted(m model.MaintenanceRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.MaintenanceSubmittedEvent{
		RequestID:   m.ID,
		TenantID:    m.TenantID,
		IssueType:   m.IssueType,
		Description: m.Description,
		Urgency:     m.Urgency,
		SubmittedAt: m.DateSubmitted.UTC().Format(time.RFC3339),
	}
	if u, err := h.Users.GetByID(ctx, m.TenantID); err == nil {
		ev.TenantName = u.Name
	}
	if a, err := h.Assignments.GetByTenant(ctx, m.TenantID); err == nil {
		ev.RoomNumber = a.RoomNumber
	}
	if err := queuepublisher.PublishMaintenanceSubmitted(ctx, ev); err != nil {
		log.Printf("maintenance: publish submitted event failed: %v", err)
	}
}

// List serves both dashboards from one route. role=landlord returns every
// ticket filed by the landlord's tenants in triage order; anything else
// returns the tenant's own tickets, newest first. The path user ID must
// match the JWT subject either way.
func (h *MaintenanceHandler) List(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	uid, err := getUserID(c)
	if err != nil || uid != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if c.QueryParam("role") == model.RoleLandlord {
		if role, _ := c.Get("role").(string); role != model.RoleLandlord {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		tickets, err := h.Requests.ListByLandlord(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list requests failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"requests": tickets})
	}

	own, err := h.Requests.ListByTenant(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list requests failed"})
	}
	out := make([]ticketResp, 0, len(own))
	for _, m := range own {
		out = append(out, toTicketResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": out})
}

type updateStatusReq struct {
	Status       string  `json:"status"`
	AdminRemarks *string `json:"adminRemarks"`
}

// UpdateStatus moves a ticket through its lifecycle. The ticket is locked
// and its ownership verified inside the transaction, so a landlord can
// only touch tickets filed by their own tenants. With strict transitions
// enabled the terminal states stay terminal.
func (h *MaintenanceHandler) UpdateStatus(c echo.Context) error {
	ticketID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	landlordID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Requests.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	current, err := h.Requests.GetForStatusUpdateTx(ctx, tx, ticketID, landlordID)
	if err != nil {
		switch err {
		case repository.ErrRequestNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load request failed"})
	}

	if h.Cfg.StrictTransitions && !model.CanTransition(current, req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status transition"})
	}

	if err := h.Requests.UpdateStatusTx(ctx, tx, ticketID, req.Status, req.AdminRemarks); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{"id": ticketID, "status": req.Status})
}
