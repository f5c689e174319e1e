package server

import (
	"io"
	"net/http"

	"github.com/cadetops/corpshq/internal/blobstore"
	"github.com/gin-gonic/gin"
)

func (s *Server) UploadAvatar(c *gin.Context) {
	up, err := s.readUpload(c, "avatars")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	obj, err := s.blobs.UploadImage(c.Request.Context(), *up)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, obj)
}

func (s *Server) UploadDocument(c *gin.Context) {
	up, err := s.readUpload(c, "records")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	obj, err := s.blobs.UploadDocument(c.Request.Context(), *up)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, obj)
}

// readUpload pulls the multipart "file" part into an Upload scoped to the
// authenticated user.
func (s *Server) readUpload(c *gin.Context, pathPrefix string) (*blobstore.Upload, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, ErrInvalidRequest
	}

	file, err := header.Open()
	if err != nil {
		return nil, ErrInvalidRequest
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, ErrInvalidRequest
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &blobstore.Upload{
		Path:        pathPrefix,
		OwnerID:     c.GetString(contextUserIDKey),
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
