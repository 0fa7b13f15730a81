package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphcrawl/client"
)

// NeighborsHandler serves a local graph in the neighbor-lookup wire format.
type NeighborsHandler struct {
	src NeighborSource
	log *logrus.Logger
}

// NewNeighborsHandler creates a NeighborsHandler.
func NewNeighborsHandler(src NeighborSource, log *logrus.Logger) *NeighborsHandler {
	return &NeighborsHandler{src: src, log: log}
}

// Get handles GET /neighbors/:id.
func (h *NeighborsHandler) Get(c *gin.Context) {
	nodeID := c.Param("id")
	if err := validatePathID(nodeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	neighbors, ok := h.src.Lookup(nodeID)
	if !ok {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "node not found")

		return
	}

	h.log.WithFields(logrus.Fields{
		"node_id":   nodeID,
		"neighbors": len(neighbors),
	}).Debug("neighbors.lookup")

	c.JSON(http.StatusOK, client.NeighborResponse{Neighbors: neighbors})
}
