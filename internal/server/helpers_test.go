package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"commentId", "comment ID"},
		{"parentCommentId", "parent comment ID"},
		{"username", "username"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query string
		want  service.Page
	}{
		{"", service.Page{Page: 1, Limit: 0}},
		{"?page=3", service.Page{Page: 3, Limit: 0}},
		{"?page=0&limit=-2", service.Page{Page: 1, Limit: 0}},
		{"?page=2&limit=500", service.Page{Page: 2, Limit: 100}},
		{"?limit=10", service.Page{Page: 1, Limit: 10}},
	}

	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePage(c)
		return c.JSON(fiber.Map{"page": p.Page, "limit": p.Limit})
	})

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body map[string]int
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.want.Page, body["page"])
			assert.Equal(t, tt.want.Limit, body["limit"])
		})
	}
}

func TestParseID_Invalid(t *testing.T) {
	app := fiber.New()
	app.Get("/comments/:commentId", func(c *fiber.Ctx) error {
		id, err := parseID(c, "commentId")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	for _, raw := range []string{"abc", "0", "-5"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/comments/"+raw, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, raw)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, "Invalid comment ID", body["error"])
		assert.Equal(t, "BAD_REQUEST", body["code"])
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/comments/12", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
