package client

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

const StatusOK = "ok"

// envelope is the part every backend response shares.
type envelope struct {
	Status string          `json:"status"`
	Detail json.RawMessage `json:"detail"`
}

// decodeEnvelope turns a raw response into a Result. The payload is decoded
// into T only when both the HTTP status and the "status" field say ok.
func decodeEnvelope[T any](resp *Response) Result[T] {
	var env envelope
	if err := resp.DecodeJSON(&env); err != nil {
		if !resp.IsSuccess() {
			return Fail[T](failureKindFor(resp.StatusCode), "")
		}
		return Fail[T](FailureDecode, "")
	}

	if !resp.IsSuccess() || env.Status != StatusOK {
		return Fail[T](failureKindFor(resp.StatusCode), detailText(env.Detail))
	}

	var payload T
	if err := resp.DecodeJSON(&payload); err != nil {
		return Fail[T](FailureDecode, "")
	}
	return Ok(payload)
}

func failureKindFor(statusCode int) FailureKind {
	if statusCode == http.StatusNotFound {
		return FailureNotFound
	}
	return FailureRejected
}

// detailText accepts both a plain string and a list of {"msg": "..."} objects.
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

// flexString decodes both JSON strings and numbers, since ids come back in either form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexInt decodes numbers and numeric strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(int(n))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*f = flexInt(v)
	return nil
}
