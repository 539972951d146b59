package server

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeBody reads the request body as a generic JSON object for schema
// validation. A syntactically broken body is reported the same way as a
// schema violation.
func decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// listResponse is the envelope every paginated listing shares.
type listResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// queryValues lifts the pagination query string into the map shape the
// list schema expects. Absent parameters stay absent so defaults apply.
func queryValues(r *http.Request) map[string]any {
	values := map[string]any{}
	q := r.URL.Query()
	if page := q.Get("page"); page != "" {
		values["page"] = page
	}
	if limit := q.Get("limit"); limit != "" {
		values["limit"] = limit
	}
	return values
}
