// Package api holds the request and response messages of the claimwise.v1 RPC
// services and the JSON codec they travel in.
package api

import (
	"github.com/goccy/go-json"
)

// Codec marshals messages as JSON. It is registered under the name "json", so it
// replaces Connect's protobuf-JSON codec for application/json requests.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
