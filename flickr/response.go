package flickr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrRequestFailed = errors.New("flickr request failed")

// ProviderError is a stat "fail" envelope.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("flickr error %d: %s", e.Code, e.Message)
}

type envelope struct {
	Stat    string   `json:"stat"`
	Code    *flexInt `json:"code"`
	Message *string  `json:"message"`
	rest    map[string]json.RawMessage
}

func (e *envelope) UnmarshalJSON(data []byte) error {
	type plain envelope
	if err := json.Unmarshal(data, (*plain)(e)); err != nil {
		return err
	}
	return json.Unmarshal(data, &e.rest)
}

// handleResponse scopes a successful response to the value at key. A nil value with a
// nil error is an empty result: a non-200 status, a body that is not a JSON object or a
// response without a stat field all end up here.
func handleResponse(resp *http.Response, key string) (json.RawMessage, error) {
	if resp == nil {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, nil
	}

	switch env.Stat {
	case "ok":
		if v, ok := env.rest[key]; ok && string(v) != "null" {
			return v, nil
		}
	case "fail":
		if env.Code != nil && env.Message != nil {
			return nil, &ProviderError{Code: int(*env.Code), Message: *env.Message}
		}
		return nil, ErrRequestFailed
	}
	return nil, nil
}

func decodePayload(raw json.RawMessage, out any) error {
	return json.Unmarshal(raw, out)
}

func echoMatches(body []byte, key string) bool {
	var echo struct {
		Stat   string `json:"stat"`
		APIKey *struct {
			Content *string `json:"_content"`
		} `json:"api_key"`
	}
	if err := json.Unmarshal(body, &echo); err != nil {
		return false
	}
	return echo.Stat == "ok" &&
		echo.APIKey != nil &&
		echo.APIKey.Content != nil &&
		*echo.APIKey.Content == key
}
