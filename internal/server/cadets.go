package server

import (
	"net/http"
	"time"

	"github.com/cadetops/corpshq/internal/cadet"
	"github.com/cadetops/corpshq/internal/docstore"
	"github.com/gin-gonic/gin"
)

type cadetResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	cadet.Cadet
}

func cadetJSON(item docstore.Item[cadet.Cadet]) cadetResponse {
	return cadetResponse{
		ID:        item.ID,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
		Cadet:     item.Data,
	}
}

func (s *Server) ListCadets(c *gin.Context) {
	items, err := s.cadetSvc.List(c.Request.Context(), cadet.Query{
		Search: c.Query("search"),
		Unit:   c.Query("unit"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]cadetResponse, 0, len(items))
	for _, item := range items {
		out = append(out, cadetJSON(item))
	}
	c.JSON(http.StatusOK, gin.H{"cadets": out})
}

func (s *Server) CreateCadet(c *gin.Context) {
	var req cadet.Cadet
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	id, err := s.cadetSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	item, err := s.cadetSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if item == nil {
		AbortWithError(c, docstore.ErrNotFound)
		return
	}
	c.JSON(http.StatusCreated, cadetJSON(*item))
}

func (s *Server) GetCadet(c *gin.Context) {
	item, err := s.cadetSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if item == nil {
		AbortWithError(c, docstore.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, cadetJSON(*item))
}

func (s *Server) UpdateCadet(c *gin.Context) {
	var fields docstore.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	id := c.Param("id")
	if err := s.cadetSvc.Update(c.Request.Context(), id, fields); err != nil {
		AbortWithError(c, err)
		return
	}

	item, err := s.cadetSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if item == nil {
		AbortWithError(c, docstore.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, cadetJSON(*item))
}

func (s *Server) DeleteCadet(c *gin.Context) {
	if err := s.cadetSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
