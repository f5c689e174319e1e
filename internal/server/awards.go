package server

import (
	"net/http"
	"time"

	"github.com/cadetops/corpshq/internal/award"
	"github.com/cadetops/corpshq/internal/docstore"
	"github.com/gin-gonic/gin"
)

type awardResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	award.Award
}

func awardJSON(item docstore.Item[award.Award]) awardResponse {
	return awardResponse{
		ID:        item.ID,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
		Award:     item.Data,
	}
}

func (s *Server) ListAwards(c *gin.Context) {
	items, err := s.awardSvc.List(c.Request.Context(), award.Query{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]awardResponse, 0, len(items))
	for _, item := range items {
		out = append(out, awardJSON(item))
	}
	c.JSON(http.StatusOK, gin.H{"awards": out})
}

func (s *Server) CreateAward(c *gin.Context) {
	var req award.Award
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	id, err := s.awardSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	item, err := s.awardSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if item == nil {
		AbortWithError(c, docstore.ErrNotFound)
		return
	}
	c.JSON(http.StatusCreated, awardJSON(*item))
}

func (s *Server) GetAward(c *gin.Context) {
	item, err := s.awardSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if item == nil {
		AbortWithError(c, docstore.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, awardJSON(*item))
}

func (s *Server) UpdateAward(c *gin.Context) {
	var fields docstore.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	id := c.Param("id")
	if err := s.awardSvc.Update(c.Request.Context(), id, fields); err != nil {
		AbortWithError(c, err)
		return
	}

	item, err := s.awardSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if item == nil {
		AbortWithError(c, docstore.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, awardJSON(*item))
}

func (s *Server) DeleteAward(c *gin.Context) {
	if err := s.awardSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
