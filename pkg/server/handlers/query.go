package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/graphquery"
	"github.com/soundprediction/graphquery/pkg/config"
	"github.com/soundprediction/graphquery/pkg/driver"
	"github.com/soundprediction/graphquery/pkg/server/dto"
	"github.com/soundprediction/graphquery/pkg/types"
)

// QueryHandler handles question answering requests.
type QueryHandler struct {
	store  driver.GraphStore
	cfg    config.QueryConfig
	logger *slog.Logger

	// engine answers requests that carry no per-request overrides.
	engine graphquery.Engine
}

// NewQueryHandler creates a query handler over the given store.
func NewQueryHandler(store driver.GraphStore, cfg config.QueryConfig, logger *slog.Logger) *QueryHandler {
	return &QueryHandler{
		store:  store,
		cfg:    cfg,
		logger: logger,
		engine: graphquery.NewClient(store, cfg, logger),
	}
}

// Query handles POST /query.
func (h *QueryHandler) Query(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_request", Message: err.Error()})
		return
	}

	response, err := h.engineFor(req).Query(c.Request.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrInvalidQuery):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_query", Message: err.Error()})
		case errors.Is(err, types.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Code: "store_unavailable", Message: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "query_failed", Message: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// engineFor returns the shared engine, or a request-scoped one when the
// request overrides retrieval knobs. Engines hold no connections of their
// own, so a per-request instance costs nothing beyond its struct.
func (h *QueryHandler) engineFor(req dto.QueryRequest) graphquery.Engine {
	if req.MaxHops == 0 && req.ResultLimit == 0 {
		return h.engine
	}
	cfg := h.cfg
	if req.MaxHops != 0 {
		cfg.MaxHops = req.MaxHops
	}
	if req.ResultLimit != 0 {
		cfg.ResultLimit = req.ResultLimit
	}
	return graphquery.NewClient(h.store, cfg, h.logger)
}
