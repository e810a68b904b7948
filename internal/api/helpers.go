package api

import (
	"encoding/json/v2"
	"net/http"
)

// decodeJSON decodes a request body into dst using json/v2.
func decodeJSON(r *http.Request, dst any) error {
	return json.UnmarshalRead(r.Body, dst)
}
