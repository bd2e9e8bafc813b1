package handlers

import (
	"net/http"

	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecordHandler manages cemeteries, plots, memorials and photos.
type RecordHandler struct {
	service services.RecordService
	logger  *zap.Logger
}

func NewRecordHandler(service services.RecordService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{service: service, logger: logger.Named("records")}
}

// CreateCemetery godoc
// @Summary      Create a cemetery
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        cemetery  body      dto.CreateCemeteryRequest  true  "Cemetery details"
// @Success      201 {object}  models.Cemetery
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Router       /manage/cemeteries/ [post]
// @Security     BearerAuth
func (h *RecordHandler) CreateCemetery(c *gin.Context) {
	var req dto.CreateCemeteryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	cemetery, err := h.service.CreateCemetery(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "create cemetery")
		return
	}
	c.JSON(http.StatusCreated, cemetery)
}

// CreatePlot godoc
// @Summary      Create a plot
// @Description  Section, row and plot number are unique within a cemetery.
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "Cemetery ID"
// @Param        plot  body      dto.CreatePlotRequest  true  "Plot details"
// @Success      201 {object}  models.Plot
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      404 {object}  map[string]string "Cemetery not found"
// @Failure      409 {object}  map[string]string "Plot already exists"
// @Router       /manage/cemeteries/{id}/plots/ [post]
// @Security     BearerAuth
func (h *RecordHandler) CreatePlot(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreatePlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	req.CemeteryID = id

	plot, err := h.service.CreatePlot(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "create plot")
		return
	}
	c.JSON(http.StatusCreated, plot)
}

// DeletePlot godoc
// @Summary      Delete a plot
// @Tags         records
// @Param        id  path  int  true  "Plot ID"
// @Success      204 "No Content"
// @Failure      404 {object}  map[string]string "Plot not found"
// @Failure      409 {object}  map[string]string "Plot still holds a memorial"
// @Router       /manage/plots/{id}/ [delete]
// @Security     BearerAuth
func (h *RecordHandler) DeletePlot(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePlot(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "delete plot")
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateMemorial godoc
// @Summary      Create a memorial
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        memorial  body      dto.CreateMemorialRequest  true  "Memorial details"
// @Success      201 {object}  models.Memorial
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      404 {object}  map[string]string "Customer or plot not found"
// @Router       /manage/memorials/ [post]
// @Security     BearerAuth
func (h *RecordHandler) CreateMemorial(c *gin.Context) {
	var req dto.CreateMemorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	memorial, err := h.service.CreateMemorial(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "create memorial")
		return
	}
	c.JSON(http.StatusCreated, memorial)
}

// DeleteMemorial godoc
// @Summary      Delete a memorial
// @Description  Removes the memorial with its services and photos.
// @Tags         records
// @Param        id  path  int  true  "Memorial ID"
// @Success      204 "No Content"
// @Failure      404 {object}  map[string]string "Memorial not found"
// @Router       /manage/memorials/{id}/ [delete]
// @Security     BearerAuth
func (h *RecordHandler) DeleteMemorial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteMemorial(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "delete memorial")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPhotos godoc
// @Summary      Memorial photos
// @Description  Photos of a memorial, newest first.
// @Tags         records
// @Produce      json
// @Param        id  path      int  true  "Memorial ID"
// @Success      200 {array}   dto.PhotoResponse
// @Failure      404 {object}  map[string]string "Memorial not found"
// @Router       /memorials/{id}/photos/ [get]
func (h *RecordHandler) ListPhotos(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	photos, err := h.service.ListPhotos(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "retrieve photos")
		return
	}
	resp := make([]dto.PhotoResponse, 0, len(photos))
	for i := range photos {
		resp = append(resp, MapPhotoToResponse(&photos[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// AddPhoto godoc
// @Summary      Attach a photo
// @Description  Records a photo URL against a memorial, optionally tied to one of its services.
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        id     path      int                     true  "Memorial ID"
// @Param        photo  body      dto.CreatePhotoRequest  true  "Photo details"
// @Success      201 {object}  dto.PhotoResponse
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      404 {object}  map[string]string "Memorial or service not found"
// @Router       /memorials/{id}/photos/ [post]
// @Security     BearerAuth
func (h *RecordHandler) AddPhoto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	req.MemorialID = id

	photo, err := h.service.AddPhoto(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "add photo")
		return
	}
	c.JSON(http.StatusCreated, MapPhotoToResponse(photo))
}
