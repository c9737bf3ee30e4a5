package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campdir/internal/apperr"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "not found",
			err:         apperr.NotFound("Resource not found with id %s", "abc"),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Resource not found with id abc",
		},
		{
			name:        "validation",
			err:         apperr.Validation("Please add a name"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Please add a name",
		},
		{
			name:        "forbidden",
			err:         apperr.Forbidden("User is not authorized to update this bootcamp"),
			wantStatus:  http.StatusForbidden,
			wantMessage: "User is not authorized to update this bootcamp",
		},
		{
			name:        "upstream",
			err:         apperr.Upstream("Email could not be sent", nil),
			wantStatus:  http.StatusBadGateway,
			wantMessage: "Email could not be sent",
		},
		{
			name:        "duplicate key from the driver",
			err:         mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Duplicate resource",
		},
		{
			name:        "no documents",
			err:         mongo.ErrNoDocuments,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Resource not found",
		},
		{
			name:        "malformed object id",
			err:         primitive.ErrInvalidHex,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Resource not found",
		},
		{
			name:        "fiber routing error",
			err:         fiber.ErrMethodNotAllowed,
			wantStatus:  http.StatusMethodNotAllowed,
			wantMessage: "Method Not Allowed",
		},
		{
			name:        "anything else",
			err:         assert.AnError,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
			app.Get("/boom", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var envelope struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
			assert.False(t, envelope.Success)
			assert.Equal(t, tt.wantMessage, envelope.Error)
		})
	}
}
