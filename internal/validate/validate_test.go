package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campdir/internal/apperr"
	"campdir/internal/models"
)

func TestStructValid(t *testing.T) {
	bootcamp := models.Bootcamp{
		Name:        "Devworks Bootcamp",
		Description: "Devworks is a full stack JavaScript Bootcamp",
		Careers:     []string{"Web Development", "UI/UX"},
	}
	assert.NoError(t, Struct(&bootcamp))
}

func TestStructAggregatesMessages(t *testing.T) {
	err := Struct(&models.Bootcamp{})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Message, "Please add a name")
	assert.Contains(t, ae.Message, "Please add a description")
	assert.Contains(t, ae.Message, "Please add a careers")
}

func TestStructFieldMessages(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{
			name: "url format on website",
			input: &models.Bootcamp{
				Name:        "Devworks",
				Description: "ok",
				Careers:     []string{"Web Development"},
				Website:     "not-a-url",
			},
			want: "Please use a valid URL for website",
		},
		{
			name: "oneof on careers entries",
			input: &models.Bootcamp{
				Name:        "Devworks",
				Description: "ok",
				Careers:     []string{"Basket Weaving"},
			},
			want: "must be one of:",
		},
		{
			name: "email format",
			input: &models.User{
				Name:     "John",
				Email:    "not-an-email",
				Password: "123456",
			},
			want: "Please add a valid email for email",
		},
		{
			name: "min length on password",
			input: &models.User{
				Name:     "John",
				Email:    "john@example.com",
				Password: "123",
			},
			want: "password must be at least 6 characters",
		},
		{
			name: "numeric range on rating",
			input: &models.Review{
				Title:  "Great",
				Text:   "Loved it",
				Rating: 11,
			},
			want: "rating must be at most 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			require.Error(t, err)

			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Contains(t, ae.Message, tt.want)
		})
	}
}
