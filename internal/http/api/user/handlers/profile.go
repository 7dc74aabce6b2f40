package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentoroid/user-service/internal/models"
	"github.com/mentoroid/user-service/internal/store"
	log "github.com/sirupsen/logrus"
)

// ProfileHandler handles the student profile endpoints.
type ProfileHandler struct {
	profiles *store.ProfileStore
	users    *store.UserStore
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(profiles *store.ProfileStore, users *store.UserStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, users: users}
}

// profileRequest defines the request body for profile writes. Pointer
// fields distinguish "absent" from "set to empty" on update.
type profileRequest struct {
	Name            *string `json:"name"`
	StudentWhatsapp *string `json:"studentWhatsapp"`
	ParentWhatsapp  *string `json:"parentWhatsapp"`
	SchoolName      *string `json:"schoolName"`
	Board           *string `json:"board"`
	Class           *string `json:"class"`
	ProfileImage    *string `json:"profileImage"`
}

// update converts the request into a store-level field set.
func (r profileRequest) update() store.ProfileUpdate {
	return store.ProfileUpdate{
		StudentWhatsapp: r.StudentWhatsapp,
		ParentWhatsapp:  r.ParentWhatsapp,
		SchoolName:      r.SchoolName,
		Board:           r.Board,
		Class:           r.Class,
		ProfileImage:    r.ProfileImage,
	}
}

// validBoard reports whether the supplied board, if any, is acceptable.
func (r profileRequest) validBoard() bool {
	return r.Board == nil || models.ValidBoard(*r.Board)
}

// Create makes the first profile row for the user. The student contact
// number, board, class, and school are required on first create.
func (h *ProfileHandler) Create(c *gin.Context) {
	userID := sessionUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body profileRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.StudentWhatsapp == nil || *body.StudentWhatsapp == "" ||
		body.Board == nil || body.Class == nil || body.SchoolName == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required"})
		return
	}
	if !body.validBoard() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board must be one of CBSE, ICSE, State Board, Other"})
		return
	}

	exists, errExists := h.profiles.Exists(c.Request.Context(), userID)
	if errExists != nil {
		log.WithError(errExists).Error("check profile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile already exists, use update instead"})
		return
	}

	profile := models.Profile{
		UserID:          userID,
		StudentWhatsapp: *body.StudentWhatsapp,
		ParentWhatsapp:  derefOr(body.ParentWhatsapp, ""),
		SchoolName:      *body.SchoolName,
		Board:           *body.Board,
		Class:           *body.Class,
		ProfileImage:    derefOr(body.ProfileImage, ""),
	}
	if errCreate := h.profiles.Create(c.Request.Context(), &profile); errCreate != nil {
		if errors.Is(errCreate, store.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "profile already exists, use update instead"})
			return
		}
		log.WithError(errCreate).Error("create profile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "profile created successfully",
		"profile": formatProfile(&profile),
	})
}

// Update upserts the profile, merging only supplied fields, and updates
// the display name on the user record when supplied.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID := sessionUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body profileRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if !body.validBoard() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board must be one of CBSE, ICSE, State Board, Other"})
		return
	}

	if body.Name != nil && *body.Name != "" {
		if errName := h.users.SetName(c.Request.Context(), userID, *body.Name); errName != nil {
			log.WithError(errName).Error("update user name failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}
	}

	profile, errUpsert := h.profiles.Upsert(c.Request.Context(), userID, body.update())
	if errUpsert != nil {
		log.WithError(errUpsert).Error("upsert profile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated successfully",
		"profile": formatProfile(profile),
	})
}

// Get returns the joined profile view. 404 when the user has no profile yet.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID := sessionUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, errGet := h.profiles.Get(c.Request.Context(), userID)
	if errGet != nil {
		if errors.Is(errGet, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		log.WithError(errGet).Error("get profile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	view := gin.H{
		"studentWhatsapp": profile.StudentWhatsapp,
		"parentWhatsapp":  profile.ParentWhatsapp,
		"schoolName":      profile.SchoolName,
		"board":           profile.Board,
		"class":           profile.Class,
		"profileImage":    profile.ProfileImage,
	}
	if profile.User != nil {
		view["name"] = profile.User.Name
		view["email"] = profile.User.Email
	}
	c.JSON(http.StatusOK, gin.H{"profile": view})
}

// formatProfile builds the outbound profile view.
func formatProfile(p *models.Profile) gin.H {
	return gin.H{
		"studentWhatsapp": p.StudentWhatsapp,
		"parentWhatsapp":  p.ParentWhatsapp,
		"schoolName":      p.SchoolName,
		"board":           p.Board,
		"class":           p.Class,
		"profileImage":    p.ProfileImage,
	}
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
