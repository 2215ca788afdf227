package api

import (
	"net/http"

	"github.com/dekarrin/synparse/server/dao"
	"github.com/dekarrin/synparse/server/result"
	"github.com/dekarrin/synparse/server/token"
	"golang.org/x/crypto/bcrypt"
)

// LoginRequest is the body of a POST to the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token a client presents on subsequent
// admin-gated requests.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Login verifies a username/password pair and, on success, issues a JWT
// bearer token for it.
func (api API) Login(req *http.Request) result.Result {
	var body LoginRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), "parse login body: %s", err.Error())
	}

	if body.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "login: empty username")
	}
	if body.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "login: empty password")
	}

	user, err := api.DB.Users().GetByUsername(req.Context(), body.Username)
	if err != nil {
		if err == dao.ErrNotFound {
			return result.Unauthorized("the supplied username/password combination is incorrect", "login: user %q does not exist", body.Username)
		}
		return result.InternalServerError("login: get user %q: %s", body.Username, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		return result.Unauthorized("the supplied username/password combination is incorrect", "login: user %q: bad password", body.Username)
	}

	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return result.InternalServerError("login: generate token for %q: %s", body.Username, err.Error())
	}

	return result.Created(LoginResponse{Token: tok, UserID: user.ID.String()}, "user %q logged in", user.Username)
}
