package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lspecian/maas-mcp-server/pkg/mcperr"
	"github.com/lspecian/maas-mcp-server/pkg/pipeline"
	"github.com/lspecian/maas-mcp-server/pkg/resources"
)

// resourceHandler serves resource reads. The resource URI comes in the
// "uri" query parameter; "format=xml" selects the XML projection.
//
// Example: GET /resource?uri=maas://machine/abc123
func resourceHandler(registry *resources.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uri := r.URL.Query().Get("uri")
		if uri == "" {
			writeError(w, mcperr.New(mcperr.KindMissingParameter, "", "Missing 'uri' query parameter"))
			return
		}

		p, ok := registry.Resolve(uri)
		if !ok {
			writeError(w, mcperr.New(mcperr.KindResourceNotFound, "", "No resource registered for URI '"+uri+"'"))
			return
		}

		result, err := p.Read(r.Context(), pipeline.Request{
			URI:    uri,
			Format: r.URL.Query().Get("format"),
			IP:     r.RemoteAddr,
		})
		if err != nil {
			var classified *mcperr.Error
			if errors.As(err, &classified) {
				writeError(w, classified)
				return
			}
			writeError(w, mcperr.New(mcperr.KindUnexpectedError, "", err.Error()))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// errorBody is the JSON shape of a classified error response.
type errorBody struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Resource string `json:"resource,omitempty"`
	Details  any    `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, err *mcperr.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(errorBody{
		Kind:     string(err.Kind),
		Message:  err.Message,
		Resource: err.ResourceName,
		Details:  err.Details,
	})
}
