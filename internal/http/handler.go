package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/fleet-collections/internal/http/middleware"
	"github.com/nurpe/fleet-collections/internal/model"
	"github.com/nurpe/fleet-collections/internal/service"
)

type Handler struct {
	collections *service.CollectionService
	summary     *service.SummaryService
	finance     *service.FinanceService
	log         zerolog.Logger
}

func NewHandler(
	collections *service.CollectionService,
	summary *service.SummaryService,
	finance *service.FinanceService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		collections: collections,
		summary:     summary,
		finance:     finance,
		log:         log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/vehicles", h.registerVehicle)
	protected.PUT("/vehicles/:id/pickup", h.selectPickup)

	protected.POST("/addresses", h.createAddress)
	protected.GET("/addresses", h.listAddresses)

	protected.POST("/collections/price", h.priceCollection)
	protected.POST("/collections/:id/approve", h.approveCollection)
	protected.POST("/collections/:id/reschedule", h.requestDateChange)
	protected.POST("/collections/:id/approve-date", h.approveNewDate)
	protected.POST("/collections/:id/complete", h.completeCollection)

	protected.GET("/clients/:id/collections/summary", h.clientSummary)
	protected.GET("/clients/:id/collections/summary/pdf", h.clientSummaryPDF)

	protected.GET("/finance/overview", h.financeOverview)
	protected.GET("/finance/overview/export", h.financeOverviewExport)
}

type registerVehicleRequest struct {
	ClientID string `json:"client_id"`
	Plate    string `json:"plate" binding:"required"`
	Model    string `json:"model"`
}

func (h *Handler) registerVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req registerVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.RegisterVehicleInput{Plate: req.Plate, Model: req.Model}
	if req.ClientID != "" {
		clientID, err := uuid.Parse(strings.TrimSpace(req.ClientID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		input.ClientID = clientID
	}

	vehicle, err := h.collections.RegisterVehicle(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

type selectPickupRequest struct {
	AddressID   string `json:"address_id" binding:"required"`
	ArrivalDate string `json:"estimated_arrival_date"`
}

func (h *Handler) selectPickup(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}

	var req selectPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addressID, err := uuid.Parse(strings.TrimSpace(req.AddressID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address_id"})
		return
	}

	var arrival *time.Time
	if req.ArrivalDate != "" {
		parsed, err := parseDate(req.ArrivalDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimated_arrival_date"})
			return
		}
		arrival = &parsed
	}

	vehicle, err := h.collections.SelectPickup(c.Request.Context(), principal, service.SelectPickupInput{
		VehicleID:   vehicleID,
		AddressID:   addressID,
		ArrivalDate: arrival,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

type createAddressRequest struct {
	ProfileID string `json:"profile_id"`
	Street    string `json:"street" binding:"required"`
	Number    string `json:"number"`
	City      string `json:"city" binding:"required"`
	ZipCode   string `json:"zip_code"`
}

func (h *Handler) createAddress(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	address := model.Address{
		Street:  req.Street,
		Number:  req.Number,
		City:    req.City,
		ZipCode: req.ZipCode,
	}
	if req.ProfileID != "" {
		profileID, err := uuid.Parse(strings.TrimSpace(req.ProfileID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile_id"})
			return
		}
		address.ProfileID = profileID
	}

	saved, err := h.collections.CreateAddress(c.Request.Context(), principal, address)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) listAddresses(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	profileID := principal.ProfileID
	if raw := c.Query("profile_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile_id"})
			return
		}
		profileID = parsed
	}

	addresses, err := h.collections.ListAddresses(c.Request.Context(), principal, profileID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

type priceCollectionRequest struct {
	ClientID       string  `json:"client_id" binding:"required"`
	AddressID      string  `json:"address_id" binding:"required"`
	CollectionDate string  `json:"collection_date"`
	FeePerVehicle  float64 `json:"fee_per_vehicle"`
}

func (h *Handler) priceCollection(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req priceCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientID, err := uuid.Parse(strings.TrimSpace(req.ClientID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return
	}
	addressID, err := uuid.Parse(strings.TrimSpace(req.AddressID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address_id"})
		return
	}

	var date *time.Time
	if req.CollectionDate != "" {
		parsed, err := parseDate(req.CollectionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection_date"})
			return
		}
		date = &parsed
	}

	collection, err := h.collections.PriceCollection(c.Request.Context(), principal, service.PriceCollectionInput{
		ClientID:       clientID,
		AddressID:      addressID,
		CollectionDate: date,
		FeePerVehicle:  req.FeePerVehicle,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, collection)
}

func (h *Handler) approveCollection(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	collection, err := h.collections.ApproveCollection(c.Request.Context(), principal, collectionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

type rescheduleRequest struct {
	NewDate string `json:"new_date" binding:"required"`
}

func (h *Handler) requestDateChange(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	newDate, err := parseDate(req.NewDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid new_date"})
		return
	}

	if err := h.collections.RequestDateChange(c.Request.Context(), principal, service.RescheduleInput{
		CollectionID: collectionID,
		NewDate:      newDate,
	}); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "date change requested"})
}

func (h *Handler) approveNewDate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	newDate, err := parseDate(req.NewDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid new_date"})
		return
	}

	collection, err := h.collections.ApproveNewDate(c.Request.Context(), principal, service.RescheduleInput{
		CollectionID: collectionID,
		NewDate:      newDate,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

func (h *Handler) completeCollection(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	record, err := h.collections.CompleteCollection(c.Request.Context(), principal, collectionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *Handler) clientSummary(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	summary, err := h.summary.ClientCollectionsSummary(c.Request.Context(), principal, clientID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) clientSummaryPDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	result, err := h.summary.ExportPDF(c.Request.Context(), principal, clientID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) financeOverview(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	from, to, err := parsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	overview, err := h.finance.Overview(c.Request.Context(), principal, from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) financeOverviewExport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	from, to, err := parsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.finance.ExportOverview(c.Request.Context(), principal, from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}

	const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoVehicles):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parsePeriod(c *gin.Context) (time.Time, time.Time, error) {
	from, err := parseDate(c.Query("period_start"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid period_start")
	}
	to, err := parseDate(c.Query("period_end"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid period_end")
	}
	return from, to, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
