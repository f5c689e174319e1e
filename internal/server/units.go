package server

import (
	"net/http"
	"time"

	"github.com/cadetops/corpshq/internal/docstore"
	"github.com/cadetops/corpshq/internal/unit"
	"github.com/gin-gonic/gin"
)

type unitResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	unit.Unit
}

func unitJSON(item docstore.Item[unit.Unit]) unitResponse {
	return unitResponse{
		ID:        item.ID,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
		Unit:      item.Data,
	}
}

func (s *Server) ListUnits(c *gin.Context) {
	items, err := s.unitSvc.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]unitResponse, 0, len(items))
	for _, item := range items {
		out = append(out, unitJSON(item))
	}
	c.JSON(http.StatusOK, gin.H{"units": out})
}

func (s *Server) CreateUnit(c *gin.Context) {
	var req unit.Unit
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	id, err := s.unitSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	item, err := s.unitSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if item == nil {
		AbortWithError(c, docstore.ErrNotFound)
		return
	}
	c.JSON(http.StatusCreated, unitJSON(*item))
}

func (s *Server) GetUnit(c *gin.Context) {
	item, err := s.unitSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if item == nil {
		AbortWithError(c, docstore.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, unitJSON(*item))
}

func (s *Server) UpdateUnit(c *gin.Context) {
	var fields docstore.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	id := c.Param("id")
	if err := s.unitSvc.Update(c.Request.Context(), id, fields); err != nil {
		AbortWithError(c, err)
		return
	}

	item, err := s.unitSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if item == nil {
		AbortWithError(c, docstore.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, unitJSON(*item))
}

func (s *Server) DeleteUnit(c *gin.Context) {
	if err := s.unitSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
