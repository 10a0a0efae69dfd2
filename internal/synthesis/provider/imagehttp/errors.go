package imagehttp

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxErrorBody = 512

// HTTPError is a non-2xx answer from the images gateway.
type HTTPError struct {
	StatusCode int
	Body       string
	// Message is the gateway's own error text when the body carries one.
	Message string
}

func newHTTPError(status int, raw []byte) *HTTPError {
	body := strings.TrimSpace(string(raw))
	if len(body) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "..."
	}
	e := &HTTPError{StatusCode: status, Body: body}

	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(raw, &env) == nil && len(env.Error) > 0 {
		var msg string
		var obj struct {
			Message string `json:"message"`
		}
		switch {
		case json.Unmarshal(env.Error, &msg) == nil:
			e.Message = msg
		case json.Unmarshal(env.Error, &obj) == nil:
			e.Message = obj.Message
		}
	}
	return e
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "image gateway error"
	}
	switch {
	case e.Message != "":
		return fmt.Sprintf("image gateway: status %d: %s", e.StatusCode, e.Message)
	case e.Body != "":
		return fmt.Sprintf("image gateway: status %d: %s", e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("image gateway: status %d", e.StatusCode)
	}
}

func (e *HTTPError) HTTPStatus() int { return e.StatusCode }
