package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dormfix/internal/model"
	"github.com/iliyamo/dormfix/internal/repository"
)

// LandlordRoomHandler covers room management and the assignment engine.
type LandlordRoomHandler struct {
	Rooms       *repository.RoomRepo
	Assignments *repository.AssignmentRepo
}

func NewLandlordRoomHandler(r *repository.RoomRepo, a *repository.AssignmentRepo) *LandlordRoomHandler {
	return &LandlordRoomHandler{Rooms: r, Assignments: a}
}

type createRoomReq struct {
	RoomNumber string `json:"roomNumber"`
	Capacity   uint32 `json:"capacity"`
}

// CreateRoom adds a room to the landlord's property. Room numbers are
// unique per landlord; a duplicate maps to 400.
func (h *LandlordRoomHandler) CreateRoom(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	if req.RoomNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "roomNumber required"})
	}
	if req.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
	}
	landlordID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room := model.Room{LandlordID: landlordID, RoomNumber: req.RoomNumber, Capacity: req.Capacity}
	if err := h.Rooms.Create(ctx, &room); err != nil {
		if err == repository.ErrDuplicateRoom {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         room.ID,
		"roomNumber": room.RoomNumber,
		"capacity":   room.Capacity,
	})
}

// ListRooms returns the landlord's rooms with live occupant counts. The
// path landlord ID must match the JWT subject.
func (h *LandlordRoomHandler) ListRooms(c echo.Context) error {
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

	rooms, err := h.Rooms.ListByLandlord(ctx, landlordID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

type assignReq struct {
	TenantID   uint64 `json:"tenantId"`
	RoomNumber string `json:"roomNumber"`
}

// AssignRoom moves a tenant into a room. Everything happens in one
// transaction: the room row is locked, occupants are counted under the
// lock, and only then is the assignment rewritten. Two requests racing
// for the last free slot serialize on the lock; the second one re-counts
// and gets 409.
func (h *LandlordRoomHandler) AssignRoom(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	if req.TenantID == 0 || req.RoomNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenantId/roomNumber required"})
	}
	landlordID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Rooms.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	room, err := h.Rooms.GetForUpdateTx(ctx, tx, landlordID, req.RoomNumber)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}

	occupants, err := h.Assignments.CountByRoomTx(ctx, tx, landlordID, room.RoomNumber)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count occupants failed"})
	}
	if occupants >= room.Capacity {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is full"})
	}

	if err := h.Assignments.AssignRoomTx(ctx, tx, req.TenantID, landlordID, room.RoomNumber); err != nil {
		if err == repository.ErrTenantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{"newOccupancy": occupants + 1})
}
