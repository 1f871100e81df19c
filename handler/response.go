package handler

import "net/http"

// jsonResponse implements Response for envelope rendering.
type jsonResponse struct {
	status int
	body   Envelope
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return WriteJSON(w, j.status, j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithJSONStatus sets a custom HTTP status code.
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithJSONMeta adds metadata such as pagination to the envelope.
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		r.body.Meta = meta
	}
}

// WithJSONMessage sets the envelope message.
func WithJSONMessage(message string) JSONOption {
	return func(r *jsonResponse) {
		r.body.Message = message
	}
}

// JSON wraps v in a success envelope with status 200.
// An error value is rendered through WriteError instead.
func JSON(v any, opts ...JSONOption) Response {
	if err, ok := v.(error); ok {
		return Error(err)
	}

	r := &jsonResponse{
		status: http.StatusOK,
		body:   Envelope{Success: true, Data: v},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Created wraps v in a success envelope with status 201.
func Created(v any, opts ...JSONOption) Response {
	return JSON(v, append([]JSONOption{WithJSONStatus(http.StatusCreated)}, opts...)...)
}

// emptyResponse represents an empty HTTP response with only a status code
type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty creates an empty response with status 204 (No Content).
func Empty() Response {
	return emptyResponse{status: http.StatusNoContent}
}

// EmptyWithStatus creates an empty response with a custom status code.
func EmptyWithStatus(status int) Response {
	return emptyResponse{status: status}
}

// errorResponse renders err as a failure envelope.
type errorResponse struct {
	err error
}

func (e errorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	WriteError(w, r, e.err)
	return nil
}

// Error returns a Response that renders err through WriteError.
//
//	if !rbac.IsOwnerOrAdmin(ctx, order.User) {
//		return handler.Error(handler.ErrForbidden)
//	}
func Error(err error) Response {
	return errorResponse{err: err}
}
