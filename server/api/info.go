package api

import (
	"net/http"

	"github.com/dekarrin/synparse/internal/version"
	"github.com/dekarrin/synparse/server/dao"
	"github.com/dekarrin/synparse/server/middle"
	"github.com/dekarrin/synparse/server/result"
)

// InfoModel is the body of a response from the info endpoint.
type InfoModel struct {
	Version struct {
		Server   string `json:"server"`
		Synparse string `json:"synparse"`
	} `json:"version"`
}

// Info reports the running server and engine versions. It is open to
// unauthenticated clients, but reports more context in its log line when the
// requester is logged in.
func (api API) Info(req *http.Request) result.Result {
	loggedIn, _ := req.Context().Value(middle.AuthLoggedIn).(bool)

	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Synparse = version.Current

	userStr := "unauthed client"
	if loggedIn {
		user, _ := req.Context().Value(middle.AuthUser).(dao.User)
		userStr = "user '" + user.Username + "'"
	}

	return result.OK(resp, "%s got API info", userStr)
}
