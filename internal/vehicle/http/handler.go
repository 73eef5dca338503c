package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/wheels-backend/internal/pkg/imagestore"
	"github.com/nekogravitycat/wheels-backend/internal/pkg/request"
	"github.com/nekogravitycat/wheels-backend/internal/pkg/response"
	"github.com/nekogravitycat/wheels-backend/internal/vehicle"
)

// maxImageSize caps uploaded vehicle images at 10 MiB.
const maxImageSize = 10 << 20

type Handler struct {
	service vehicle.Service
	images  *imagestore.Store
}

func NewHandler(service vehicle.Service, images *imagestore.Store) *Handler {
	return &Handler{
		service: service,
		images:  images,
	}
}

func parseVehicleID(c *gin.Context) (int64, bool) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle ID"})
		return 0, false
	}
	return uri.ID, true
}

// mapError translates vehicle service errors to HTTP responses.
func mapError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, vehicle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, vehicle.ErrHasActiveRentals):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, vehicle.ErrEmptyModel),
		errors.Is(err, vehicle.ErrEmptyLicensePlate),
		errors.Is(err, vehicle.ErrInvalidCategory),
		errors.Is(err, vehicle.ErrInvalidStatus),
		errors.Is(err, vehicle.ErrInvalidHourlyRate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func (h *Handler) List(c *gin.Context) {
	var req ListVehiclesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := vehicle.Filter{
		Category:      vehicle.Category(req.Category),
		Status:        vehicle.Status(req.Status),
		AvailableOnly: req.AvailableOnly,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}

	vehicles, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list vehicles"})
		return
	}

	items := make([]VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		items[i] = NewVehicleResponse(v)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseVehicleID(c)
	if !ok {
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		mapError(c, err, "failed to get vehicle")
		return
	}

	c.JSON(http.StatusOK, NewVehicleResponse(v))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateVehicleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	v, err := h.service.Create(c.Request.Context(), vehicle.CreateRequest{
		Model:           body.Model,
		Year:            body.Year,
		Category:        vehicle.Category(body.Category),
		HourlyRateCents: body.HourlyRateCents,
		LicensePlate:    body.LicensePlate,
		Description:     body.Description,
	})
	if err != nil {
		mapError(c, err, "failed to create vehicle")
		return
	}

	c.JSON(http.StatusCreated, NewVehicleResponse(v))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseVehicleID(c)
	if !ok {
		return
	}

	var body UpdateVehicleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	v, err := h.service.Update(c.Request.Context(), id, vehicle.UpdateRequest{
		Model:           body.Model,
		Year:            body.Year,
		HourlyRateCents: body.HourlyRateCents,
		Description:     body.Description,
		LastMaintenance: body.LastMaintenance,
	})
	if err != nil {
		mapError(c, err, "failed to update vehicle")
		return
	}

	c.JSON(http.StatusOK, NewVehicleResponse(v))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseVehicleID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		mapError(c, err, "failed to delete vehicle")
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateStatus is the admin maintenance override for a vehicle's status.
// It must not be used to free a vehicle that a rental holds; completing
// or cancelling the rental does that.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseVehicleID(c)
	if !ok {
		return
	}

	var body UpdateVehicleStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	v, err := h.service.UpdateStatus(c.Request.Context(), id, vehicle.Status(body.Status))
	if err != nil {
		mapError(c, err, "failed to update vehicle status")
		return
	}

	c.JSON(http.StatusOK, NewVehicleResponse(v))
}

// UploadImage accepts a multipart image, stores it with a thumbnail and
// records the URI on the vehicle.
func (h *Handler) UploadImage(c *gin.Context) {
	id, ok := parseVehicleID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if header.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image too large"})
		return
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be an image"})
		return
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer src.Close()

	uri, err := h.images.SaveVehicleImage(id, src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to process image"})
		return
	}

	v, err := h.service.SetImageURI(c.Request.Context(), id, uri)
	if err != nil {
		// Don't leave an orphaned file behind if the vehicle is gone.
		_ = h.images.Delete(uri)
		mapError(c, err, "failed to update vehicle image")
		return
	}

	c.JSON(http.StatusOK, NewVehicleResponse(v))
}
