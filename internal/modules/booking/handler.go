package booking

import (
	"errors"
	"net/http"

	"sharespot/internal/domain"
	"sharespot/internal/pkg/dates"
	"sharespot/internal/pkg/response"
	"sharespot/internal/pkg/validator"
	"sharespot/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	items   ItemCatalog
}

func NewHandler(service *Service, items ItemCatalog) *Handler {
	return &Handler{service: service, items: items}
}

// RegisterRoutes expects rg to sit behind JWT auth; user_id comes from the token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.PATCH("/bookings/:id/status", h.UpdateStatus)
	rg.PATCH("/bookings/:id/cancel", h.CancelBooking)
	rg.PATCH("/bookings/:id/extend", h.ExtendBooking)

	rg.GET("/items/:id/availability", h.CheckAvailability)
	rg.GET("/items/:id/bookings", h.GetItemBookings)

	rg.GET("/users/me/bookings", h.GetMyBookings)
	rg.GET("/users/me/listings", h.GetMyListings)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var body createBookingBody
	if !bindJSON(c, &body) {
		return
	}

	r, err := dates.ParseRange(body.StartDate, body.EndDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", err.Error())
		return
	}

	item, err := h.items.GetByID(c.Request.Context(), body.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load item")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), CreateBookingRequest{
		ItemID:       item.ID,
		OwnerID:      item.OwnerID,
		BorrowerID:   c.GetString("user_id"),
		StartDate:    r.Start,
		EndDate:      r.End,
		PricePerDay:  item.PricePerDay,
		Deposit:      item.Deposit,
		ItemTitle:    item.Title,
		ItemImage:    item.Image,
		OwnerName:    item.OwnerName,
		BorrowerName: body.BorrowerName,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetBooking(c *gin.Context) {
	b, found, err := h.service.GetBookingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	userID := c.GetString("user_id")
	// bookings are only visible to the two parties
	if !found || (b.OwnerID != userID && b.BorrowerID != userID) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var body updateStatusBody
	if !bindJSON(c, &body) {
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(body.Status), c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	b, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ExtendBooking(c *gin.Context) {
	var body extendBody
	if !bindJSON(c, &body) {
		return
	}
	newEnd, err := dates.Parse(body.EndDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", err.Error())
		return
	}

	b, err := h.service.ExtendBooking(c.Request.Context(), c.Param("id"), newEnd, c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	r, err := dates.ParseRange(c.Query("start"), c.Query("end"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", err.Error())
		return
	}

	itemID := c.Param("id")
	ok, err := h.service.CheckAvailability(c.Request.Context(), itemID, r.Start, r.End)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, AvailabilityResponse{
		ItemID:    itemID,
		StartDate: r.Start,
		EndDate:   r.End,
		Available: ok,
	})
}

// GetItemBookings returns the busy ranges of an item without any party details.
func (h *Handler) GetItemBookings(c *gin.Context) {
	list, err := h.service.ListBookingsForItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	busy := make([]dates.Range, 0, len(list))
	for i := range list {
		if list[i].Status.HoldsDates() {
			busy = append(busy, list[i].Range())
		}
	}
	response.Success(c, http.StatusOK, gin.H{"busy": busy})
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	list, err := h.service.ListBookingsForBorrower(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) GetMyListings(c *gin.Context) {
	list, err := h.service.ListBookingsForOwner(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func bindJSON(c *gin.Context, body any) bool {
	if err := c.ShouldBindJSON(body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(body); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	code := errorCode(err)
	status := http.StatusInternalServerError
	message := "Internal error"

	switch code {
	case "INVALID_RANGE", "VALIDATION_ERROR":
		status, message = http.StatusBadRequest, err.Error()
	case "UNAVAILABLE":
		status, message = http.StatusConflict, "Item is not available for the selected dates"
	case "FORBIDDEN":
		status, message = http.StatusForbidden, err.Error()
	case "INVALID_TRANSITION":
		status, message = http.StatusConflict, err.Error()
	case "NOT_FOUND":
		status, message = http.StatusNotFound, "Booking not found"
	default:
		_ = c.Error(err)
	}
	response.Error(c, status, code, message)
}
