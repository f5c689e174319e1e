package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/cadetops/corpshq/internal/docstore"
	identitydomain "github.com/cadetops/corpshq/internal/identity/domain"
	"github.com/gin-gonic/gin"
)

const sessionCookieTTL = 7 * 24 * time.Hour

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type resetRequest struct {
	Email string `json:"email"`
}

// profileRequest carries the editable profile fields. Pointers
// distinguish "leave alone" from "set blank".
type profileRequest struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
}

type profileResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func profileJSON(id *identitydomain.Identity, doc *docstore.Document) profileResponse {
	out := profileResponse{
		ID:          id.ID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
		UpdatedAt:   doc.UpdatedAt,
	}
	if v, ok := doc.Fields["email"].(string); ok && v != "" {
		out.Email = v
	}
	if v, ok := doc.Fields["displayName"].(string); ok {
		out.DisplayName = v
	}
	if v, ok := doc.Fields["photoURL"].(string); ok {
		out.PhotoURL = v
	}
	return out
}

type identityResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func identityJSON(id *identitydomain.Identity) identityResponse {
	return identityResponse{
		ID:          id.ID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
		CreatedAt:   id.CreatedAt,
		UpdatedAt:   id.UpdatedAt,
	}
}

func (s *Server) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	identity, err := s.sessions.SignUpWithPassword(
		c.Request.Context(),
		strings.TrimSpace(req.Email),
		req.Password,
		strings.TrimSpace(req.DisplayName),
	)
	if err != nil {
		s.authState.RecordError(err)
		AbortWithError(c, err)
		return
	}

	s.cookies.Set(c, s.sessions.SessionToken(), sessionCookieTTL)
	c.JSON(http.StatusCreated, identityJSON(identity))
}

func (s *Server) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	identity, err := s.sessions.SignInWithPassword(
		c.Request.Context(),
		strings.TrimSpace(req.Email),
		req.Password,
	)
	if err != nil {
		s.authState.RecordError(err)
		AbortWithError(c, err)
		return
	}

	s.cookies.Set(c, s.sessions.SessionToken(), sessionCookieTTL)
	c.JSON(http.StatusOK, identityJSON(identity))
}

func (s *Server) LoginWithProvider(c *gin.Context) {
	provider, err := identitydomain.ParseProvider(c.Param("provider"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	identity, err := s.sessions.SignInWithProvider(c.Request.Context(), provider)
	if err != nil {
		s.authState.RecordError(err)
		AbortWithError(c, err)
		return
	}

	s.cookies.Set(c, s.sessions.SessionToken(), sessionCookieTTL)
	c.JSON(http.StatusOK, identityJSON(identity))
}

func (s *Server) Logout(c *gin.Context) {
	if err := s.sessions.SignOut(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	s.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}

func (s *Server) RequestPasswordReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.sessions.RequestPasswordReset(c.Request.Context(), strings.TrimSpace(req.Email)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset_requested"})
}

func (s *Server) Me(c *gin.Context) {
	c.JSON(http.StatusOK, identityJSON(currentIdentity(c)))
}

// UpdateProfile writes edited profile fields to the caller's record in
// the users collection, the same record the sign-in upsert maintains.
func (s *Server) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	fields := docstore.Fields{}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		fields["displayName"] = name
	}
	if req.PhotoURL != nil {
		fields["photoURL"] = strings.TrimSpace(*req.PhotoURL)
	}
	if len(fields) == 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	identity := currentIdentity(c)
	ctx := c.Request.Context()
	if err := s.docs.Set(ctx, identitydomain.UsersCollection, identity.ID, fields); err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.docs.Get(ctx, identitydomain.UsersCollection, identity.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if doc == nil {
		AbortWithError(c, docstore.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, profileJSON(identity, doc))
}
