package trpc

import "encoding/json"

// Envelope is the JSON wrapper of every procedure response. Successful calls
// fill Result.Data. Server-side failures fill Error. Transport failures are
// reported by the client as Result{Data: null, Error: NETWORK_ERROR}.
type Envelope struct {
	Result *Result `json:"result,omitempty"`
	Error  *Error  `json:"error,omitempty"`
}

type Result struct {
	Data  json.RawMessage `json:"data"`
	Error *Error          `json:"error,omitempty"`
}

// Err returns whichever error the envelope carries, or nil.
func (e Envelope) Err() *Error {
	if e.Error != nil {
		return e.Error
	}
	if e.Result != nil && e.Result.Error != nil {
		return e.Result.Error
	}
	return nil
}

func SuccessEnvelope(data json.RawMessage) Envelope {
	return Envelope{Result: &Result{Data: data}}
}

func ErrorEnvelope(err *Error) Envelope {
	return Envelope{Error: err}
}

// NetworkErrorEnvelope is the synthetic envelope for unreachable backends.
func NetworkErrorEnvelope(message string) Envelope {
	return Envelope{Result: &Result{
		Data:  json.RawMessage("null"),
		Error: &Error{Message: message, Code: CodeNetworkError},
	}}
}
