package console

import (
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"
)


// Claims of the session token issued by auth/login. The console never
// verifies the signature; the backend is the trust boundary and the
// claims here are display metadata only.
type SessionJwt struct {
	UserId      Id     `json:"user_id"`
	UserName    string `json:"user_name"`
	StationName string `json:"station_name"`
}

func ParseSessionJwtUnverified(sessionJwt string) (*SessionJwt, error) {
	parser := gojwt.NewParser()
	token, _, err := parser.ParseUnverified(sessionJwt, gojwt.MapClaims{})
	if err != nil {
		return nil, err
	}

	claims := token.Claims.(gojwt.MapClaims)

	parsedJwt := &SessionJwt{}

	if userIdStr, ok := claims["user_id"].(string); ok {
		userId, err := ParseId(userIdStr)
		if err != nil {
			return nil, fmt.Errorf("Malformed user_id claim: %s", err)
		}
		parsedJwt.UserId = userId
	} else {
		return nil, fmt.Errorf("Token missing user_id.")
	}

	if userName, ok := claims["user_name"].(string); ok {
		parsedJwt.UserName = userName
	}
	if stationName, ok := claims["station_name"].(string); ok {
		parsedJwt.StationName = stationName
	}

	return parsedJwt, nil
}
