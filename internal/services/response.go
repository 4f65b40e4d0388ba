package services

import (
	"encoding/json"
	"fmt"
)

// Response headers shared by every entrypoint
const (
	CacheControl    = "s-maxage=300, stale-while-revalidate=600"
	JSONContentType = "application/json; charset=utf-8"
)

// fallbackBody is sent if the envelope itself cannot be encoded
const fallbackBody = `{"ok":false,"error":"Unexpected server error"}`

// ResponseHeaders returns the headers sent with every total response
func ResponseHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin": "*",
		"Cache-Control":               CacheControl,
		"Content-Type":                JSONContentType,
	}
}

// EncodeResponse marshals an envelope, returning the fallback body on failure
func EncodeResponse(v interface{}) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return fallbackBody, fmt.Errorf("failed to marshal response body: %w", err)
	}
	return string(body), nil
}
