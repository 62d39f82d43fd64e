package handler

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/fare"
	"carpool/internal/filter"
	"carpool/internal/middleware"
	"carpool/internal/remote"
	"carpool/internal/service"
)

// PoolHandler handles HTTP requests for pools.
type PoolHandler struct {
	pools *service.PoolService
	auth  *service.AuthService
}

// NewPoolHandler creates a new PoolHandler.
func NewPoolHandler(pools *service.PoolService, auth *service.AuthService) *PoolHandler {
	return &PoolHandler{pools: pools, auth: auth}
}

// PoolView is one pool in a list or detail response, with the per-head fare
// preformatted for display.
type PoolView struct {
	domain.Pool
	FareDisplay string `json:"fare_per_head_display"`
}

// ListResponse is the response for the pool browse view.
type ListResponse struct {
	Pools   []PoolView          `json:"pools"`
	Options filter.Options      `json:"options"`
	User    *domain.UserProfile `json:"user,omitempty"`
	// Notice carries a user-visible notification when the collection could
	// not be refreshed; the previously loaded pools are still served.
	Notice string `json:"notice,omitempty"`
}

// CreatePoolRequest is the HTTP request body for creating or updating a pool.
type CreatePoolRequest struct {
	StartPoint     string  `json:"start_point" binding:"required"`
	EndPoint       string  `json:"end_point" binding:"required"`
	DepartureTime  string  `json:"departure_time" binding:"required"`
	ArrivalTime    string  `json:"arrival_time" binding:"required"`
	TransportMode  string  `json:"transport_mode" binding:"required"`
	TotalPersons   int     `json:"total_persons" binding:"required"`
	CurrentPersons int     `json:"current_persons"`
	TotalFare      float64 `json:"total_fare"`
	Description    string  `json:"description"`
	FemaleOnly     bool    `json:"is_female_only"`
}

// List handles GET /pools. It refreshes the collection and the caller's
// profile concurrently, then applies the filter spec built from the query
// parameters. The two fetches are independent; neither waits for the other.
func (h *PoolHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.GetString(middleware.CtxAccessToken)
	sessionID := c.GetString(middleware.CtxSessionID)

	var (
		wg         sync.WaitGroup
		refreshErr error
		profile    *domain.UserProfile
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		refreshErr = h.pools.Refresh(ctx, token)
	}()
	go func() {
		defer wg.Done()
		profile, _ = h.auth.CurrentUser(ctx, sessionID)
	}()
	wg.Wait()

	if errors.Is(refreshErr, remote.ErrUnauthorized) {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}

	spec := buildSpec(c, h.pools.Options())
	pools, options := h.pools.Browse(spec)

	resp := ListResponse{
		Pools:   poolViews(pools),
		Options: options,
		User:    profile,
	}
	if refreshErr != nil {
		resp.Notice = "failed to refresh pools, showing last loaded results"
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /v1/pools/:id
func (h *PoolHandler) Get(c *gin.Context) {
	token := c.GetString(middleware.CtxAccessToken)

	pool, err := h.pools.Get(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, poolView(*pool))
}

// Create handles POST /v1/pools
func (h *PoolHandler) Create(c *gin.Context) {
	var req CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	profile, token, ok := h.caller(c)
	if !ok {
		return
	}

	pool, err := h.pools.Create(c.Request.Context(), token, profile, poolForm(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, poolView(*pool))
}

// Update handles PUT /v1/pools/:id
func (h *PoolHandler) Update(c *gin.Context) {
	var req CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	profile, token, ok := h.caller(c)
	if !ok {
		return
	}

	pool, err := h.pools.Update(c.Request.Context(), token, profile, c.Param("id"), poolForm(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, poolView(*pool))
}

// Patch handles PATCH /v1/pools/:id
func (h *PoolHandler) Patch(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	profile, token, ok := h.caller(c)
	if !ok {
		return
	}

	pool, err := h.pools.Patch(c.Request.Context(), token, profile, c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, poolView(*pool))
}

// Join handles POST /v1/pools/:id/join
func (h *PoolHandler) Join(c *gin.Context) {
	profile, token, ok := h.caller(c)
	if !ok {
		return
	}

	message, err := h.pools.Join(c.Request.Context(), token, profile, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Delete handles DELETE /v1/pools/:id. Pools are never deleted client-side.
func (h *PoolHandler) Delete(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "delete operation is not allowed"})
}

// caller resolves the requesting user's profile and token from the gated
// context. Responds with the mapped error itself when resolution fails.
func (h *PoolHandler) caller(c *gin.Context) (*domain.UserProfile, string, bool) {
	sessionID := c.GetString(middleware.CtxSessionID)
	token := c.GetString(middleware.CtxAccessToken)

	profile, err := h.auth.CurrentUser(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return nil, "", false
	}
	return profile, token, true
}

// buildSpec translates query parameters into a filter spec anchored to the
// currently derived fare bounds. Absent parameters leave their predicates
// unconstrained.
func buildSpec(c *gin.Context, options filter.Options) filter.Spec {
	spec := filter.NewSpec(options.FareBounds)

	if v, ok := c.GetQuery("search"); ok {
		spec = filter.Update(spec, filter.FieldSearchQuery, v)
	}
	if v, ok := c.GetQuery("female_only"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			spec = filter.Update(spec, filter.FieldFemaleOnly, b)
		}
	}
	if v, ok := c.GetQuery("start_point"); ok {
		spec = filter.Update(spec, filter.FieldStartPoint, v)
	}
	if v, ok := c.GetQuery("end_point"); ok {
		spec = filter.Update(spec, filter.FieldEndPoint, v)
	}
	if v, ok := c.GetQuery("transport_mode"); ok {
		spec = filter.Update(spec, filter.FieldTransportMode, v)
	}

	fareRange := spec.FareRange
	if v, ok := c.GetQuery("fare_min"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			fareRange[0] = f
		}
	}
	if v, ok := c.GetQuery("fare_max"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			fareRange[1] = f
		}
	}
	return filter.Update(spec, filter.FieldFareRange, fareRange)
}

func poolForm(req CreatePoolRequest) domain.PoolForm {
	current := req.CurrentPersons
	if current == 0 {
		current = 1 // The creator always occupies a seat.
	}
	return domain.PoolForm{
		StartPoint:     req.StartPoint,
		EndPoint:       req.EndPoint,
		DepartureTime:  parseTime(req.DepartureTime),
		ArrivalTime:    parseTime(req.ArrivalTime),
		TransportMode:  req.TransportMode,
		TotalPersons:   req.TotalPersons,
		CurrentPersons: current,
		TotalFare:      req.TotalFare,
		Description:    req.Description,
		FemaleOnly:     req.FemaleOnly,
	}
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func poolView(pool domain.Pool) PoolView {
	return PoolView{Pool: pool, FareDisplay: fare.Format(pool.FarePerHead)}
}

func poolViews(pools []domain.Pool) []PoolView {
	views := make([]PoolView, 0, len(pools))
	for _, p := range pools {
		views = append(views, poolView(p))
	}
	return views
}
