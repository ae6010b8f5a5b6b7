package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dormfix/internal/repository"
)

// LandlordTenantHandler serves the landlord's tenant roster: listing
// linked tenants, approving applications, and rejecting (removing)
// tenants.
type LandlordTenantHandler struct {
	Users       *repository.UserRepo
	Assignments *repository.AssignmentRepo
	Tokens      *repository.TokenRepo
}

func NewLandlordTenantHandler(u *repository.UserRepo, a *repository.AssignmentRepo, t *repository.TokenRepo) *LandlordTenantHandler {
	return &LandlordTenantHandler{Users: u, Assignments: a, Tokens: t}
}

// ListTenants returns every tenant linked to the landlord, with approval
// state and current room. The path landlord ID must match the JWT subject
// so one landlord cannot read another's roster.
func (h *LandlordTenantHandler) ListTenants(c echo.Context) error {
	landlordID, err := pathID(c, "landlordId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid landlord id"})
	}
	uid, err := getUserID(c)
	if err != nil || uid != landlordID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tenants, err := h.Users.ListTenantsByLandlord(ctx, landlordID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list tenants failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tenants": tenants})
}

type statusReq struct {
	IsApproved *bool `json:"isApproved"`
}

// UpdateTenantStatus approves or rejects a tenant application.
// isApproved=true flips the approval flag (idempotent); isApproved=false
// removes the tenant the same way RejectTenant does.
func (h *LandlordTenantHandler) UpdateTenantStatus(c echo.Context) error {
	tenantID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil || req.IsApproved == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "isApproved required"})
	}
	landlordID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// The tenant must be linked to this landlord before any change.
	a, err := h.Assignments.GetByTenant(ctx, tenantID)
	if err != nil || a.LandlordID != landlordID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	if *req.IsApproved {
		if err := h.Users.Approve(ctx, tenantID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"id": tenantID, "isApproved": true})
	}
	return h.reject(c, ctx, tenantID, landlordID)
}

// RejectTenant removes a tenant: the assignment row goes first, then the
// user row, in one transaction. Irreversible; a rejected tenant has to
// register again.
func (h *LandlordTenantHandler) RejectTenant(c echo.Context) error {
	tenantID, err := pathID(c, "tenantId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}
	landlordID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	return h.reject(c, ctx, tenantID, landlordID)
}

func (h *LandlordTenantHandler) reject(c echo.Context, ctx context.Context, tenantID, landlordID uint64) error {
	tx, err := h.Users.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Rows referencing the user go first: the assignment, then any
	// refresh tokens, so a rejected tenant cannot keep a live session.
	if err := h.Assignments.DeleteByTenantTx(ctx, tx, tenantID, landlordID); err != nil {
		if err == repository.ErrTenantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}
	if err := h.Tokens.DeleteAllForUserTx(ctx, tx, tenantID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}
	if err := h.Users.DeleteTx(ctx, tx, tenantID); err != nil {
		if err == repository.ErrTenantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"id": tenantID, "removed": true})
}
