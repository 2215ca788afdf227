package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dekarrin/synparse"
	"github.com/dekarrin/synparse/parsetree"
	"github.com/dekarrin/synparse/server/dao"
	"github.com/dekarrin/synparse/server/result"
)

// ParseRequest is the body of a POST to the parse-text endpoint.
type ParseRequest struct {
	Text     string `json:"text"`
	RootNode string `json:"root_node"`
	Trace    bool   `json:"trace"`
}

// ParseResponse carries the typed parse tree, rendered the same way
// parsetree.Node.MarshalJSON renders it, plus an optional trace log.
type ParseResponse struct {
	Tree  *parsetree.Node `json:"tree"`
	Trace string          `json:"trace,omitempty"`
}

// ParseText compiles the named grammar (by ID) and parses req's Text against
// it, returning the flattened parse tree as JSON. Any registered user may
// call this; it does not mutate stored state.
func (api API) ParseText(req *http.Request) result.Result {
	id := requireIDParam(req)

	var body ParseRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), "parse request body: %s", err.Error())
	}

	g, err := api.DB.Grammars().GetByID(req.Context(), id)
	if err != nil {
		if err == dao.ErrNotFound {
			return result.NotFound("grammar %s does not exist", id)
		}
		return result.InternalServerError("get grammar %s: %s", id, err.Error())
	}

	compiled, err := api.Cache.Load(g.Source)
	if err != nil {
		return result.InternalServerError("grammar %s does not compile: %s", id, err.Error())
	}

	eng := synparse.NewFromGrammar(compiled)

	var opts []synparse.ParseOption
	if body.RootNode != "" {
		opts = append(opts, synparse.WithRootNodeType(body.RootNode))
	}

	var trace strings.Builder
	if body.Trace {
		opts = append(opts, synparse.WithTrace(&trace))
	}

	tree, err := eng.Parse(body.Text, "request-"+strconv.Itoa(len(body.Text)), opts...)
	if err != nil {
		return result.BadRequest(err.Error(), "parse against grammar %s: %s", id, err.Error())
	}

	return result.OK(ParseResponse{Tree: tree, Trace: trace.String()}, "parsed against grammar %s", id)
}
