package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/wheels-backend/internal/auth"
	"github.com/nekogravitycat/wheels-backend/internal/pkg/request"
	"github.com/nekogravitycat/wheels-backend/internal/pkg/response"
	"github.com/nekogravitycat/wheels-backend/internal/rental"
	"github.com/nekogravitycat/wheels-backend/internal/user"
)

type Handler struct {
	service     rental.Service
	userService user.Service
}

func NewHandler(service rental.Service, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
	}
}

// checkIsAdmin helper checks if the current user is an administrator.
func (h *Handler) checkIsAdmin(c *gin.Context, userID string) bool {
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return u.IsAdmin
}

func parseRentalID(c *gin.Context) (int64, bool) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rental ID"})
		return 0, false
	}
	return uri.ID, true
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRentalRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	customerID := auth.GetUserID(c)
	if customerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	req := rental.CreateRequest{
		CustomerID: customerID,
		VehicleID:  body.VehicleID,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
	}

	r, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewRentalResponse(r))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseRentalID(c)
	if !ok {
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	userID := auth.GetUserID(c)
	if r.CustomerID != userID && !h.checkIsAdmin(c, userID) {
		response.Error(c, rental.ErrPermissionDenied)
		return
	}

	c.JSON(http.StatusOK, NewRentalResponse(r))
}

// List returns the caller's rentals. Administrators can see everyone's
// rentals and filter by customer, status and date range.
func (h *Handler) List(c *gin.Context) {
	var req ListRentalsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	currentUserID := auth.GetUserID(c)
	isAdmin := h.checkIsAdmin(c, currentUserID)

	filterCustomerID := currentUserID
	if isAdmin {
		filterCustomerID = req.CustomerID // can be empty to show all
	}

	filter := rental.Filter{
		CustomerID: filterCustomerID,
		VehicleID:  req.VehicleID,
		Status:     req.Status,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	rentals, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rentals"})
		return
	}

	items := make([]RentalResponse, len(rentals))
	for i, r := range rentals {
		items[i] = NewRentalResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

// ListMine returns the full rental history of the caller, newest first.
func (h *Handler) ListMine(c *gin.Context) {
	customerID := auth.GetUserID(c)
	if customerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rentals, err := h.service.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rentals"})
		return
	}

	items := make([]RentalResponse, len(rentals))
	for i, r := range rentals {
		items[i] = NewRentalResponse(r)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := parseRentalID(c)
	if !ok {
		return
	}

	var body CompleteRentalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	if !h.authorizeMutation(c, id) {
		return
	}

	r, err := h.service.Complete(c.Request.Context(), id, body.ActualEndTime)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRentalResponse(r))
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := parseRentalID(c)
	if !ok {
		return
	}

	if !h.authorizeMutation(c, id) {
		return
	}

	r, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRentalResponse(r))
}

func (h *Handler) Extend(c *gin.Context) {
	id, ok := parseRentalID(c)
	if !ok {
		return
	}

	var body ExtendRentalRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if !h.authorizeMutation(c, id) {
		return
	}

	r, err := h.service.Extend(c.Request.Context(), id, body.NewEndTime)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRentalResponse(r))
}

// authorizeMutation ensures the caller owns the rental or is an admin.
func (h *Handler) authorizeMutation(c *gin.Context, rentalID int64) bool {
	r, err := h.service.GetByID(c.Request.Context(), rentalID)
	if err != nil {
		response.Error(c, err)
		return false
	}

	userID := auth.GetUserID(c)
	if r.CustomerID != userID && !h.checkIsAdmin(c, userID) {
		response.Error(c, rental.ErrPermissionDenied)
		return false
	}
	return true
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	var q AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), q.VehicleID, q.StartTime, q.EndTime)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		VehicleID: q.VehicleID,
		StartTime: q.StartTime,
		EndTime:   q.EndTime,
		Available: available,
	})
}

func (h *Handler) CalculateCost(c *gin.Context) {
	var q AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	cost, err := h.service.CalculateCost(c.Request.Context(), q.VehicleID, q.StartTime, q.EndTime)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, CostResponse{
		VehicleID:      q.VehicleID,
		StartTime:      q.StartTime,
		EndTime:        q.EndTime,
		TotalCostCents: cost,
	})
}
