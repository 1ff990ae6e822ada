package bookingapi

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errBadEnvelope = errors.New("malformed gateway envelope")

// unwrap returns the payload carried by raw together with the status that
// applies to it.  A document with a "body" member is treated as a gateway
// envelope: body may hold the payload as a JSON string or as an object,
// and a statusCode member overrides the HTTP status.  Anything else is the
// payload itself.
func unwrap(raw []byte, status int) ([]byte, int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return raw, status, nil
	}
	var env struct {
		StatusCode *int            `json:"statusCode"`
		Body       json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, status, err
	}
	body := bytes.TrimSpace(env.Body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return raw, status, nil
	}
	if env.StatusCode != nil {
		status = *env.StatusCode
	}
	switch body[0] {
	case '"':
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, status, err
		}
		return []byte(s), status, nil
	case '{':
		return body, status, nil
	}
	return nil, status, errBadEnvelope
}
