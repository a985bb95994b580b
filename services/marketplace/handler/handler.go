package handler

import (
	"fmt"
	"mime/multipart"
	"strings"

	"auction-marketplace/internal/auctionerrors"

	"github.com/gin-gonic/gin"
)

// Context keys populated by the auth middleware.
const (
	CtxUserID  = "user_id"
	CtxIsAdmin = "is_admin"
)

// principal returns the authenticated user and admin flag for the request.
func principal(c *gin.Context) (uint, bool) {
	return c.GetUint(CtxUserID), c.GetBool(CtxIsAdmin)
}

// imageUpload reads a multipart file field and rejects non-image uploads.
func imageUpload(c *gin.Context, field string) (*multipart.FileHeader, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%w - missing %s file", auctionerrors.ErrInvalidInput, field)
	}
	if ct := file.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("%w - %s must be an image file", auctionerrors.ErrInvalidInput, field)
	}
	return file, nil
}
