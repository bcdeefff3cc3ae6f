package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rezerve/internal/core/apperror"
	appctx "rezerve/internal/core/context"
	"rezerve/internal/core/id"
	"rezerve/internal/core/types"
	"rezerve/internal/domain/reservation"
	"rezerve/internal/infrastructure/http/v1/dto"
)

const dateLayout = "2006-01-02"

// ReservationHandler handles reservation lifecycle endpoints.
type ReservationHandler struct {
	*BaseHandler
	service *reservation.Service
}

// NewReservationHandler creates a reservation handler.
func NewReservationHandler(base *BaseHandler, service *reservation.Service) *ReservationHandler {
	return &ReservationHandler{BaseHandler: base, service: service}
}

// Create handles POST /reservations.
func (h *ReservationHandler) Create(c *gin.Context) {
	var req dto.CreateReservationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := mapCreateInput(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, r)
}

// Get handles GET /reservations/:id.
func (h *ReservationHandler) Get(c *gin.Context) {
	reservationID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), reservationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, r)
}

// Update handles PUT /reservations/:id.
func (h *ReservationHandler) Update(c *gin.Context) {
	reservationID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateReservationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := mapUpdateInput(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	r, err := h.service.Update(c.Request.Context(), reservationID, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, r)
}

// Cancel handles POST /reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	reservationID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.CancelReservationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	// Audit trail records who canceled, by username.
	operator := "system"
	if u := appctx.GetUser(c.Request.Context()); u != nil && u.Username != "" {
		operator = u.Username
	}

	r, err := h.service.Cancel(c.Request.Context(), reservationID, req.WithRefund, operator)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, r)
}

// List handles GET /reservations with filter query params.
func (h *ReservationHandler) List(c *gin.Context) {
	filter := reservation.Filter{
		IncludeCanceled: c.Query("includeCanceled") == "true",
		Limit:           h.ParseIntQuery(c, "limit", 100),
		Offset:          h.ParseIntQuery(c, "offset", 0),
	}

	if v := c.Query("branchId"); v != "" {
		branchID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid branch id"))
			return
		}
		filter.BranchID = &branchID
	}
	if v := c.Query("staffId"); v != "" {
		staffID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid staff id"))
			return
		}
		filter.StaffID = &staffID
	}
	if v := c.Query("customerId"); v != "" {
		customerID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customer id"))
			return
		}
		filter.CustomerID = &customerID
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(dateLayout, v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date, expected YYYY-MM-DD"))
			return
		}
		filter.From = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(dateLayout, v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date, expected YYYY-MM-DD"))
			return
		}
		filter.To = &to
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: int64(total),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// Upcoming handles GET /branches/:id/reservations/upcoming.
func (h *ReservationHandler) Upcoming(c *gin.Context) {
	branchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	items, err := h.service.ListUpcoming(c.Request.Context(), branchID, h.ParseIntQuery(c, "limit", 10))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, items)
}

func mapCreateInput(req dto.CreateReservationRequest) (reservation.CreateInput, error) {
	var in reservation.CreateInput

	totalPrice, err := types.NewMoneyFromString(req.TotalPrice)
	if err != nil {
		return in, apperror.NewValidation("invalid total price").WithDetail("field", "totalPrice")
	}
	advancePct := types.Zero()
	if req.AdvancePct != "" {
		advancePct, err = types.NewMoneyFromString(req.AdvancePct)
		if err != nil {
			return in, apperror.NewValidation("invalid advance percentage").WithDetail("field", "advancePct")
		}
	}
	branchID, err := id.Parse(req.BranchID)
	if err != nil {
		return in, apperror.NewValidation("invalid branch id").WithDetail("field", "branchId")
	}
	staffID, err := id.Parse(req.StaffID)
	if err != nil {
		return in, apperror.NewValidation("invalid staff id").WithDetail("field", "staffId")
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return in, apperror.NewValidation("invalid reservation date, expected YYYY-MM-DD").
			WithDetail("field", "reservationDate")
	}
	slot, err := types.ParseTimeSlot(req.Time)
	if err != nil {
		return in, apperror.NewValidation("invalid reservation time, expected HH:MM").
			WithDetail("field", "reservationTime")
	}

	return reservation.CreateInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		NumPeople:     req.NumPeople,
		TotalPrice:    totalPrice,
		AdvancePct:    advancePct,
		PaymentType:   reservation.PaymentType(req.PaymentType),
		PaymentStatus: reservation.PaymentStatus(req.PaymentStatus),
		BranchID:      branchID,
		StaffID:       staffID,
		Date:          date,
		Time:          slot,
		Notes:         req.Notes,
	}, nil
}

func mapUpdateInput(req dto.UpdateReservationRequest) (reservation.UpdateInput, error) {
	var in reservation.UpdateInput

	in.CustomerName = req.CustomerName
	in.CustomerPhone = req.CustomerPhone
	in.NumPeople = req.NumPeople
	in.Notes = req.Notes

	if req.TotalPrice != nil {
		totalPrice, err := types.NewMoneyFromString(*req.TotalPrice)
		if err != nil {
			return in, apperror.NewValidation("invalid total price").WithDetail("field", "totalPrice")
		}
		in.TotalPrice = &totalPrice
	}
	if req.AdvancePct != nil {
		advancePct, err := types.NewMoneyFromString(*req.AdvancePct)
		if err != nil {
			return in, apperror.NewValidation("invalid advance percentage").WithDetail("field", "advancePct")
		}
		in.AdvancePct = &advancePct
	}
	if req.PaymentType != nil {
		pt := reservation.PaymentType(*req.PaymentType)
		in.PaymentType = &pt
	}
	if req.PaymentStatus != nil {
		ps := reservation.PaymentStatus(*req.PaymentStatus)
		in.PaymentStatus = &ps
	}
	if req.StaffID != nil {
		staffID, err := id.Parse(*req.StaffID)
		if err != nil {
			return in, apperror.NewValidation("invalid staff id").WithDetail("field", "staffId")
		}
		in.StaffID = &staffID
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return in, apperror.NewValidation("invalid reservation date, expected YYYY-MM-DD").
				WithDetail("field", "reservationDate")
		}
		in.Date = &date
	}
	if req.Time != nil {
		slot, err := types.ParseTimeSlot(*req.Time)
		if err != nil {
			return in, apperror.NewValidation("invalid reservation time, expected HH:MM").
				WithDetail("field", "reservationTime")
		}
		in.Time = &slot
	}

	return in, nil
}
