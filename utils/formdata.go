package utils

import (
	"encoding/json"
	"net/url"
)

// ParseFormDataJSON decodes a form value that may carry a JSON-encoded
// object. Multipart submissions cannot carry nested values natively, so the
// client serializes them; anything that fails to decode is passed through
// unchanged. Never errors.
func ParseFormDataJSON(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// ParseRequestBody flattens form values into a map, decoding only the fields
// named in jsonFields. Unlisted fields pass through as plain strings.
func ParseRequestBody(form url.Values, jsonFields ...string) map[string]interface{} {
	decode := make(map[string]bool, len(jsonFields))
	for _, f := range jsonFields {
		decode[f] = true
	}

	body := make(map[string]interface{}, len(form))
	for key, values := range form {
		if len(values) == 0 {
			continue
		}
		if decode[key] {
			body[key] = ParseFormDataJSON(values[0])
		} else {
			body[key] = values[0]
		}
	}
	return body
}
