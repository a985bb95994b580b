package handler

import (
	"net/http"

	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/storage"
	users "auction-marketplace/internal/userService"
	"auction-marketplace/services/marketplace/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type UserServiceInterface interface {
	Signup(in users.SignupInput) (model.User, error)
	Login(email, password string) (model.User, users.TokenPair, error)
	RefreshTokens(refreshToken string) (users.TokenPair, error)
	GetProfile(userID uint) (model.User, error)
	UpdateProfile(userID uint, upd users.ProfileUpdate) (model.User, error)
	SetProfilePicture(userID uint, url string) (string, error)
	ClearProfilePicture(userID uint) (string, error)
	DeleteUser(targetID, actorID uint, isAdmin bool) error
}

type UserHandler struct {
	service UserServiceInterface
	files   storage.FileStore
}

func NewUserHandler(service UserServiceInterface, files storage.FileStore) *UserHandler {
	return &UserHandler{service: service, files: files}
}

// SignupHandler handles POST /signup
func (h *UserHandler) SignupHandler(c *gin.Context) {
	var req helpers.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SignupHandler", err)
		return
	}

	dob, err := helpers.ParseDate(req.DateOfBirth)
	if err != nil {
		helpers.RespondError(c, "SignupHandler", err)
		return
	}

	user, err := h.service.Signup(users.SignupInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		DateOfBirth: dob,
	})
	if err != nil {
		helpers.RespondError(c, "SignupHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{"user": user})
	helpers.LogSuccess("SignupHandler", "account created", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
}

// LoginHandler handles POST /login
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	user, tokens, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		helpers.RespondError(c, "LoginHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
	helpers.LogSuccess("LoginHandler", "login", map[string]any{"user_id": user.ID})
}

// RefreshHandler handles POST /token/refresh
func (h *UserHandler) RefreshHandler(c *gin.Context) {
	var req helpers.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RefreshHandler", err)
		return
	}

	tokens, err := h.service.RefreshTokens(req.RefreshToken)
	if err != nil {
		helpers.RespondError(c, "RefreshHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// GetMeHandler handles GET /users/me
func (h *UserHandler) GetMeHandler(c *gin.Context) {
	userID, _ := principal(c)
	user, err := h.service.GetProfile(userID)
	if err != nil {
		helpers.RespondError(c, "GetMeHandler", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"user": user})
}

// GetUserHandler handles GET /users/:user_id
func (h *UserHandler) GetUserHandler(c *gin.Context) {
	targetID, err := helpers.ParseIDParam(c, "user_id")
	if err != nil {
		helpers.RespondError(c, "GetUserHandler", err)
		return
	}

	user, err := h.service.GetProfile(targetID)
	if err != nil {
		helpers.RespondError(c, "GetUserHandler", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"user": user})
}

// UpdateMeHandler handles PUT /users/me/update
func (h *UserHandler) UpdateMeHandler(c *gin.Context) {
	userID, _ := principal(c)

	var req helpers.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateMeHandler", err)
		return
	}

	upd := users.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}
	if req.DateOfBirth != nil {
		dob, err := helpers.ParseDate(*req.DateOfBirth)
		if err != nil {
			helpers.RespondError(c, "UpdateMeHandler", err)
			return
		}
		upd.DateOfBirth = &dob
	}

	user, err := h.service.UpdateProfile(userID, upd)
	if err != nil {
		helpers.RespondError(c, "UpdateMeHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"user": user})
	helpers.LogSuccess("UpdateMeHandler", "profile updated", map[string]any{"user_id": userID})
}

// UploadProfilePictureHandler handles POST /users/me/profile-picture
func (h *UserHandler) UploadProfilePictureHandler(c *gin.Context) {
	userID, _ := principal(c)

	file, err := imageUpload(c, "picture")
	if err != nil {
		helpers.RespondError(c, "UploadProfilePictureHandler", err)
		return
	}
	src, err := file.Open()
	if err != nil {
		helpers.RespondError(c, "UploadProfilePictureHandler", err)
		return
	}
	defer src.Close()

	url, err := h.files.Save(file.Filename, src)
	if err != nil {
		helpers.RespondError(c, "UploadProfilePictureHandler", err)
		return
	}

	old, err := h.service.SetProfilePicture(userID, url)
	if err != nil {
		// The record was not updated; remove the orphaned upload.
		if delErr := h.files.Delete(url); delErr != nil {
			utils.Warn("UploadProfilePictureHandler: orphan cleanup failed", map[string]any{"error": delErr.Error()})
		}
		helpers.RespondError(c, "UploadProfilePictureHandler", err)
		return
	}
	if old != "" {
		if delErr := h.files.Delete(old); delErr != nil {
			utils.Warn("UploadProfilePictureHandler: failed to delete old picture", map[string]any{"error": delErr.Error()})
		}
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"profile_picture": url})
	helpers.LogSuccess("UploadProfilePictureHandler", "picture uploaded", map[string]any{"user_id": userID})
}

// DeleteProfilePictureHandler handles DELETE /users/me/profile-picture
func (h *UserHandler) DeleteProfilePictureHandler(c *gin.Context) {
	userID, _ := principal(c)

	old, err := h.service.ClearProfilePicture(userID)
	if err != nil {
		helpers.RespondError(c, "DeleteProfilePictureHandler", err)
		return
	}
	if delErr := h.files.Delete(old); delErr != nil {
		utils.Warn("DeleteProfilePictureHandler: failed to delete file", map[string]any{"error": delErr.Error()})
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{})
}

// DeleteUserHandler handles DELETE /users/:user_id/delete
func (h *UserHandler) DeleteUserHandler(c *gin.Context) {
	actorID, isAdmin := principal(c)

	targetID, err := helpers.ParseIDParam(c, "user_id")
	if err != nil {
		helpers.RespondError(c, "DeleteUserHandler", err)
		return
	}

	if err := h.service.DeleteUser(targetID, actorID, isAdmin); err != nil {
		helpers.RespondError(c, "DeleteUserHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{})
	helpers.LogSuccess("DeleteUserHandler", "account deleted", map[string]any{
		"user_id":  targetID,
		"actor_id": actorID,
	})
}
