package api

import (
	"net/http"
	"time"

	"github.com/dekarrin/synparse/grammar"
	"github.com/dekarrin/synparse/server/dao"
	"github.com/dekarrin/synparse/server/result"
)

// GrammarResponse is the wire representation of a stored grammar. Source is
// included so a client can re-edit and re-upload it; it is omitted from the
// list endpoint's entries to keep that response small.
type GrammarResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Source      string    `json:"source,omitempty"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
}

func toGrammarResponse(g dao.Grammar, includeSource bool) GrammarResponse {
	resp := GrammarResponse{
		ID:          g.ID.String(),
		Name:        g.Name,
		Description: g.Description,
		Created:     g.Created,
		Modified:    g.Modified,
	}
	if includeSource {
		resp.Source = g.Source
	}
	return resp
}

// CreateGrammarRequest is the body of a POST to the grammar collection
// endpoint.
type CreateGrammarRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// CreateGrammar decodes and validates the submitted JSON grammar description
// before storing it, so a malformed grammar is rejected at upload time
// rather than the first time someone tries to parse against it. Requires an
// admin bearer token.
func (api API) CreateGrammar(req *http.Request) result.Result {
	var body CreateGrammarRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), "parse create-grammar body: %s", err.Error())
	}

	if body.Name == "" {
		return result.BadRequest("name is required", "create grammar: missing name")
	}

	if _, err := grammar.Decode(body.Source); err != nil {
		return result.BadRequest("grammar source is invalid: "+err.Error(), "create grammar %q: invalid source: %s", body.Name, err.Error())
	}

	g, err := api.DB.Grammars().Create(req.Context(), dao.Grammar{
		Name:        body.Name,
		Description: body.Description,
		Source:      body.Source,
	})
	if err != nil {
		if err == dao.ErrConstraintViolation {
			return result.Conflict("a grammar named "+body.Name+" already exists", "create grammar: name %q already exists", body.Name)
		}
		return result.InternalServerError("create grammar %q: %s", body.Name, err.Error())
	}

	return result.Created(toGrammarResponse(g, true), "created grammar %q (%s)", g.Name, g.ID)
}

// GetGrammar fetches one stored grammar, including its source text.
func (api API) GetGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)

	g, err := api.DB.Grammars().GetByID(req.Context(), id)
	if err != nil {
		if err == dao.ErrNotFound {
			return result.NotFound("grammar %s does not exist", id)
		}
		return result.InternalServerError("get grammar %s: %s", id, err.Error())
	}

	return result.OK(toGrammarResponse(g, true), "fetched grammar %s", id)
}

// ListGrammars returns every stored grammar, without source text.
func (api API) ListGrammars(req *http.Request) result.Result {
	all, err := api.DB.Grammars().GetAll(req.Context())
	if err != nil {
		return result.InternalServerError("list grammars: %s", err.Error())
	}

	resp := make([]GrammarResponse, len(all))
	for i, g := range all {
		resp[i] = toGrammarResponse(g, false)
	}

	return result.OK(resp, "listed %d grammars", len(resp))
}

// UpdateGrammarRequest is the body of a PUT to a single grammar. Any field
// left zero-valued keeps the stored value unchanged, except Source: an
// empty Source is never valid and one must always be given.
type UpdateGrammarRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// UpdateGrammar re-validates and replaces a stored grammar's source text.
// Requires an admin bearer token.
func (api API) UpdateGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)

	var body UpdateGrammarRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), "parse update-grammar body: %s", err.Error())
	}

	existing, err := api.DB.Grammars().GetByID(req.Context(), id)
	if err != nil {
		if err == dao.ErrNotFound {
			return result.NotFound("grammar %s does not exist", id)
		}
		return result.InternalServerError("get grammar %s: %s", id, err.Error())
	}

	if body.Name != "" {
		existing.Name = body.Name
	}
	if body.Description != "" {
		existing.Description = body.Description
	}
	if body.Source != "" {
		if _, err := grammar.Decode(body.Source); err != nil {
			return result.BadRequest("grammar source is invalid: "+err.Error(), "update grammar %s: invalid source: %s", id, err.Error())
		}
		existing.Source = body.Source
	}

	updated, err := api.DB.Grammars().Update(req.Context(), id, existing)
	if err != nil {
		if err == dao.ErrConstraintViolation {
			return result.Conflict("a grammar named "+existing.Name+" already exists", "update grammar %s: name %q already exists", id, existing.Name)
		}
		return result.InternalServerError("update grammar %s: %s", id, err.Error())
	}

	return result.OK(toGrammarResponse(updated, true), "updated grammar %s", id)
}

// DeleteGrammar removes a stored grammar. Requires an admin bearer token.
func (api API) DeleteGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)

	_, err := api.DB.Grammars().Delete(req.Context(), id)
	if err != nil {
		if err == dao.ErrNotFound {
			return result.NotFound("grammar %s does not exist", id)
		}
		return result.InternalServerError("delete grammar %s: %s", id, err.Error())
	}

	return result.NoContent("deleted grammar %s", id)
}
