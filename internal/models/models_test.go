package models

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Devworks Bootcamp", "devworks-bootcamp"},
		{"ModernTech  Bootcamp", "moderntech-bootcamp"},
		{"Codemasters!", "codemasters"},
		{"  UI/UX Experts  ", "uiux-experts"},
		{"already-slugged", "already-slugged"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestUserCanModify(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	t.Run("owner may modify", func(t *testing.T) {
		u := User{ID: owner, Role: RolePublisher}
		assert.True(t, u.CanModify(owner))
	})

	t.Run("admin may modify anything", func(t *testing.T) {
		u := User{ID: other, Role: RoleAdmin}
		assert.True(t, u.CanModify(owner))
	})

	t.Run("stranger may not", func(t *testing.T) {
		u := User{ID: other, Role: RolePublisher}
		assert.False(t, u.CanModify(owner))
	})
}

func TestUserSerializationHidesSecrets(t *testing.T) {
	u := User{
		Name:               "John Doe",
		Email:              "john@example.com",
		Role:               RolePublisher,
		Password:           "$2a$10$hash",
		ResetPasswordToken: "deadbeef",
	}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotContains(t, out, "password")
	assert.NotContains(t, out, "reset_password_token")
	assert.Equal(t, "john@example.com", out["email"])
}

func TestBootcampAddressNotPersisted(t *testing.T) {
	// Address carries bson:"-" so only the resolved location is stored.
	f, ok := reflect.TypeOf(Bootcamp{}).FieldByName("Address")
	require.True(t, ok)
	assert.Equal(t, "-", f.Tag.Get("bson"))
}
