package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-planner-api/internal/dto"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
	"github.com/noah-isme/course-planner-api/pkg/response"
	"github.com/noah-isme/course-planner-api/pkg/term"
)

// TermHandler exposes term extraction.
type TermHandler struct{}

// NewTermHandler constructs a term handler.
func NewTermHandler() *TermHandler {
	return &TermHandler{}
}

// Extract godoc
// @Summary Derive the term letter of a section
// @Tags Terms
// @Produce json
// @Param term query string false "Raw term text"
// @Param section query string false "Section number"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /terms/extract [get]
func (h *TermHandler) Extract(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("term"))
	section := strings.TrimSpace(c.Query("section"))
	if raw == "" && section == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "term or section is required"))
		return
	}
	letter, matched := term.Lookup(raw, section)
	response.JSON(c, http.StatusOK, dto.TermExtractResponse{
		Letter:  letter,
		Name:    term.FormatName(letter),
		Matched: matched,
	}, nil)
}
