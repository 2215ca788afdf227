// Package api provides HTTP API endpoints for the grammar server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/synparse/cache"
	"github.com/dekarrin/synparse/server/dao"
	"github.com/dekarrin/synparse/server/result"
	"github.com/dekarrin/synparse/server/serr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PathPrefix is the prefix of all paths in the API. Routers should mount a
// sub-router that routes all requests to the API at this path.
const PathPrefix = "/api/v1"

// API holds the parameters endpoint handlers need and a service layer that
// performs the actual logic.
type API struct {
	// DB is the backing store for grammars and users.
	DB dao.Store

	// Cache compiles and caches grammars loaded from DB. Its zero value
	// disables caching but still compiles correctly.
	Cache cache.Cache

	// UnauthDelay is the amount of time a request pauses before responding
	// with an HTTP-403, HTTP-401, or HTTP-500, to deprioritize such requests
	// from processing and I/O.
	UnauthDelay time.Duration

	// Secret is the secret used to sign JWT tokens.
	Secret []byte
}

// requireIDParam gets the ID of the main entity being referenced in the URI
// and returns it. It panics if the key is not there or is not parsable,
// since routes that call this always register :id.
func requireIDParam(r *http.Request) uuid.UUID {
	id, err := getURLParam(r, "id", uuid.Parse)
	if err != nil {
		panic(err.Error())
	}
	return id
}

func getURLParam[E any](r *http.Request, key string, parse func(string) (E, error)) (val E, err error) {
	valStr := chi.URLParam(r, key)
	if valStr == "" {
		return val, fmt.Errorf("parameter does not exist")
	}

	val, err = parse(valStr)
	if err != nil {
		return val, serr.New("", serr.ErrBadArgument)
	}
	return val, nil
}

// v must be a pointer to a type. Returns an error such that
// errors.Is(err, serr.ErrBodyUnmarshal) is true if the problem is with the
// JSON itself.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")

	if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	if err := json.Unmarshal(bodyData, v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

// EndpointFunc is the signature every API handler method is implemented
// against; Endpoint adapts one into a chi-compatible http.HandlerFunc.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint wraps ep with panic recovery, unauthorized-response delay, and
// response logging, and adapts it to http.HandlerFunc.
func (api API) Endpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)

		r := ep(req)

		if r.Status == 0 {
			panic("endpoint result was never populated")
		}

		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.InternalServerError("could not marshal JSON response: " + err.Error())
		}

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(api.UnauthDelay)
		}

		r.WriteResponse(w)
		r.Log(req)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		r.WriteResponse(w)
		r.Log(req)
	}
}
