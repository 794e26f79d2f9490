package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sharespot/internal/database"
	"sharespot/internal/domain"
	"sharespot/internal/middleware"
	"sharespot/internal/pkg/jwt"
	"sharespot/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Booking  domain.Booking   `json:"booking"`
		Bookings []domain.Booking `json:"bookings"`
	} `json:"data"`
}

type errorResponse struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testEnv struct {
	router *gin.Engine
	tokens map[string]string
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	bookings := repository.NewBookingRepository(db)
	require.NoError(t, bookings.Migrate())
	items := repository.NewItemRepository(db)
	require.NoError(t, items.Migrate())

	deposit := 50.0
	require.NoError(t, items.Upsert(context.Background(), &domain.Item{
		ID:          "1",
		OwnerID:     "101",
		OwnerName:   "Alex Johnson",
		Title:       "Power Drill - Cordless",
		RentalType:  domain.RentalRent,
		PricePerDay: 5,
		Deposit:     &deposit,
	}))

	jwtService := jwt.New("test-secret", time.Hour)
	tokens := map[string]string{}
	for _, id := range []string{"101", "102", "103"} {
		tok, err := jwtService.GenerateToken(id, "user")
		require.NoError(t, err)
		tokens[id] = tok
	}

	handler := NewHandler(NewService(bookings, nil), items)
	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtService))
	handler.RegisterRoutes(api)

	return &testEnv{router: router, tokens: tokens}
}

func (e *testEnv) do(method, path string, body interface{}, userID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+e.tokens[userID])
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func decodeBooking(t *testing.T, w *httptest.ResponseRecorder) domain.Booking {
	t.Helper()
	var env bookingEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success)
	return env.Data.Booking
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var env errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func (e *testEnv) create(t *testing.T, start, end string) domain.Booking {
	t.Helper()
	w := e.do(http.MethodPost, "/api/v1/bookings", gin.H{
		"item_id":       "1",
		"start_date":    start,
		"end_date":      end,
		"borrower_name": "Maria Garcia",
	}, "102")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBooking(t, w)
}

func TestCreateBookingHandler(t *testing.T) {
	env := setupRouter(t)

	b := env.create(t, "2023-11-10", "2023-11-12")
	assert.Equal(t, "101", b.OwnerID)
	assert.Equal(t, "102", b.BorrowerID)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, 15.0, b.TotalPrice)
	assert.Equal(t, "Power Drill - Cordless", b.ItemTitle)

	w := env.do(http.MethodPost, "/api/v1/bookings", gin.H{
		"item_id": "1", "start_date": "2023-11-12", "end_date": "2023-11-13",
	}, "103")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "UNAVAILABLE", decodeError(t, w).Error.Code)
}

func TestCreateBookingHandler_BadInput(t *testing.T) {
	env := setupRouter(t)

	w := env.do(http.MethodPost, "/api/v1/bookings", gin.H{
		"item_id": "1", "start_date": "11/10/2023", "end_date": "2023-11-12",
	}, "102")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Error.Code)
	assert.Equal(t, "isodate", errResp.Error.Details["StartDate"])

	w = env.do(http.MethodPost, "/api/v1/bookings", gin.H{
		"item_id": "1", "start_date": "2023-11-12", "end_date": "2023-11-10",
	}, "102")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_RANGE", decodeError(t, w).Error.Code)

	w = env.do(http.MethodPost, "/api/v1/bookings", gin.H{
		"item_id": "404", "start_date": "2023-11-10", "end_date": "2023-11-12",
	}, "102")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ITEM_NOT_FOUND", decodeError(t, w).Error.Code)

	w = env.do(http.MethodPost, "/api/v1/bookings", gin.H{
		"item_id": "1", "start_date": "2023-11-10", "end_date": "2023-11-12",
	}, "101")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Error.Code)

	w = env.do(http.MethodPost, "/api/v1/bookings", gin.H{"item_id": "1"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStatusHandlers(t *testing.T) {
	env := setupRouter(t)
	b := env.create(t, "2023-11-10", "2023-11-12")
	path := "/api/v1/bookings/" + b.ID

	w := env.do(http.MethodPatch, path+"/status", gin.H{"status": "approved"}, "102")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, w).Error.Code)

	w = env.do(http.MethodPatch, path+"/status", gin.H{"status": "active"}, "101")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", decodeError(t, w).Error.Code)

	w = env.do(http.MethodPatch, path+"/status", gin.H{"status": "paid"}, "101")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPatch, path+"/status", gin.H{"status": "approved"}, "101")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.BookingApproved, decodeBooking(t, w).Status)

	w = env.do(http.MethodPatch, path+"/extend", gin.H{"end_date": "2023-11-15"}, "102")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	extended := decodeBooking(t, w)
	assert.Equal(t, "2023-11-15", extended.EndDate.String())
	assert.Equal(t, 30.0, extended.TotalPrice)

	w = env.do(http.MethodPatch, path+"/cancel", nil, "102")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.BookingCancelled, decodeBooking(t, w).Status)

	w = env.do(http.MethodPatch, "/api/v1/bookings/missing/cancel", nil, "102")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBookingHandler_PartiesOnly(t *testing.T) {
	env := setupRouter(t)
	b := env.create(t, "2023-11-10", "2023-11-12")

	w := env.do(http.MethodGet, "/api/v1/bookings/"+b.ID, nil, "101")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, b.ID, decodeBooking(t, w).ID)

	w = env.do(http.MethodGet, "/api/v1/bookings/"+b.ID, nil, "103")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityHandler(t *testing.T) {
	env := setupRouter(t)
	env.create(t, "2023-11-10", "2023-11-12")

	var resp struct {
		Data AvailabilityResponse `json:"data"`
	}

	w := env.do(http.MethodGet, "/api/v1/items/1/availability?start=2023-11-12&end=2023-11-13", nil, "103")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Available)

	w = env.do(http.MethodGet, "/api/v1/items/1/availability?start=2023-11-13&end=2023-11-13", nil, "103")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Available)

	w = env.do(http.MethodGet, "/api/v1/items/1/availability?start=2023-11-13", nil, "103")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/v1/items/1/bookings", nil, "103")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"start":"2023-11-10"`)
	assert.NotContains(t, w.Body.String(), "Maria Garcia")
}

func TestMyBookingsHandlers(t *testing.T) {
	env := setupRouter(t)
	b := env.create(t, "2023-11-10", "2023-11-12")

	var env1 bookingEnvelope
	w := env.do(http.MethodGet, "/api/v1/users/me/bookings", nil, "102")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env1))
	require.Len(t, env1.Data.Bookings, 1)
	assert.Equal(t, b.ID, env1.Data.Bookings[0].ID)

	var env2 bookingEnvelope
	w = env.do(http.MethodGet, "/api/v1/users/me/listings", nil, "101")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env2))
	require.Len(t, env2.Data.Bookings, 1)

	var env3 bookingEnvelope
	w = env.do(http.MethodGet, "/api/v1/users/me/bookings", nil, "101")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env3))
	assert.Empty(t, env3.Data.Bookings)
}
