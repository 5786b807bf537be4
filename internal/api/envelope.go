package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelope is the wire format every API response is wrapped in. The version
// field lets clients detect breaking envelope changes without guessing from
// shape. Success responses carry data; error responses carry either a bare
// error string or a code/message/details triple.
type envelope struct {
	Data    any    `json:"data,omitempty"`
	Details any    `json:"details,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	V       int    `json:"v"`
	Success bool   `json:"success"`
}

// EnvelopeTransformer wraps every response body in the standard envelope.
// Register it on huma.Config.Transformers so it runs for both handler output
// and error responses produced by RegisterErrorHandler.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	// Already wrapped (e.g. a transformer ran twice); pass through.
	if env, ok := v.(*envelope); ok {
		return env, nil
	}

	if apiErr, ok := v.(*APIError); ok {
		if apiErr.Code == "" && apiErr.Details == nil {
			return &envelope{V: 1, Success: false, Error: apiErr.Message}, nil
		}
		return &envelope{
			V:       1,
			Success: false,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	success := status == "" || status[0] == '2' || status[0] == '3'
	if !success {
		if err, ok := v.(error); ok {
			return &envelope{V: 1, Success: false, Error: err.Error()}, nil
		}
		return &envelope{V: 1, Success: false, Data: v}, nil
	}

	return &envelope{V: 1, Success: true, Data: v}, nil
}
