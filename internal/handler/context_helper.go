package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
	"github.com/noah-isme/course-planner-api/pkg/middleware/profile"
	"github.com/noah-isme/course-planner-api/pkg/response"
)

var validate = validator.New()

// profileFromContext returns the planner profile, failing the request when the profile middleware
// did not run.
func profileFromContext(c *gin.Context) (string, bool) {
	id := profile.Value(c)
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing "+profile.HeaderKey+" header"))
		return "", false
	}
	return id, true
}

// bindJSON decodes and validates the request body into dest.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	if err := validate.Struct(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func scopeParam(c *gin.Context) (models.FilterScope, bool) {
	scope := models.FilterScope(c.Param("scope"))
	if !scope.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "scope must be catalog or schedule"))
		return "", false
	}
	return scope, true
}
