package console

import (
	"testing"

	"github.com/go-playground/assert/v2"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestParseSessionJwtUnverified(t *testing.T) {
	userId := NewId()

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"user_id":      userId.String(),
		"user_name":    "medic one",
		"station_name": "mile 3 aid",
	})
	sessionJwt, err := token.SignedString([]byte("testsecret"))
	assert.Equal(t, nil, err)

	parsedJwt, err := ParseSessionJwtUnverified(sessionJwt)
	assert.Equal(t, nil, err)
	assert.Equal(t, userId, parsedJwt.UserId)
	assert.Equal(t, "medic one", parsedJwt.UserName)
	assert.Equal(t, "mile 3 aid", parsedJwt.StationName)
}

func TestParseSessionJwtMissingUser(t *testing.T) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"user_name": "medic one",
	})
	sessionJwt, err := token.SignedString([]byte("testsecret"))
	assert.Equal(t, nil, err)

	_, err = ParseSessionJwtUnverified(sessionJwt)
	assert.NotEqual(t, nil, err)
}

func TestParseSessionJwtGarbage(t *testing.T) {
	_, err := ParseSessionJwtUnverified("not a jwt")
	assert.NotEqual(t, nil, err)
}
