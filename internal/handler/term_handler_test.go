package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-planner-api/internal/dto"
)

func TestTermHandlerExtract(t *testing.T) {
	handler := NewTermHandler()

	cases := []struct {
		query   string
		letter  string
		name    string
		matched bool
	}{
		{"?section=BL01&term=A+Term", "B", "B Term", true},
		{"?term=2025+Fall+-+C+Term", "C", "C Term", true},
		{"?term=Spring", "A", "A Term", false},
	}
	for _, tc := range cases {
		c, w := newGinContext(http.MethodGet, "/terms/extract"+tc.query, nil)
		handler.Extract(c)

		require.Equal(t, http.StatusOK, w.Code, tc.query)
		var resp dto.TermExtractResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &resp))
		assert.Equal(t, tc.letter, resp.Letter, tc.query)
		assert.Equal(t, tc.name, resp.Name, tc.query)
		assert.Equal(t, tc.matched, resp.Matched, tc.query)
	}
}

func TestTermHandlerExtractRequiresInput(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/terms/extract", nil)
	NewTermHandler().Extract(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
