package buildserver

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// errorResponse is the JSON body written for any non-2xx result.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// result is a prepared HTTP response, built through one of the constructor
// functions below and written out by an EndpointFunc wrapper. Trimmed down
// from the teacher's full result package to the statuses the build service
// actually returns.
type result struct {
	status      int
	internalMsg string

	resp interface{}
	hdrs [][2]string

	respJSONBytes []byte
}

func response(status int, respObj interface{}, internalMsg string, v ...interface{}) result {
	return result{
		status:      status,
		internalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        respObj,
	}
}

func errResult(status int, userMsg, internalMsg string, v ...interface{}) result {
	return result{
		status:      status,
		internalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        errorResponse{Error: userMsg, Status: status},
	}
}

// ok returns an HTTP-200 wrapping respObj.
func ok(respObj interface{}, internalMsg ...interface{}) result {
	msgFmt, msgArgs := splitMsg("OK", internalMsg)
	return response(http.StatusOK, respObj, msgFmt, msgArgs...)
}

// created returns an HTTP-201 wrapping respObj.
func created(respObj interface{}, internalMsg ...interface{}) result {
	msgFmt, msgArgs := splitMsg("created", internalMsg)
	return response(http.StatusCreated, respObj, msgFmt, msgArgs...)
}

// badRequest returns an HTTP-400 with userMsg shown to the caller.
func badRequest(userMsg string, internalMsg ...interface{}) result {
	msgFmt, msgArgs := splitMsg("bad request", internalMsg)
	return errResult(http.StatusBadRequest, userMsg, msgFmt, msgArgs...)
}

// unauthorized returns an HTTP-401 carrying a WWW-Authenticate header. The
// auth-failure delay is not applied here; the code that writes the response
// sleeps before sending a 401.
func unauthorized(userMsg string, internalMsg ...interface{}) result {
	if userMsg == "" {
		userMsg = "you are not authorized to do that"
	}
	msgFmt, msgArgs := splitMsg("unauthorized", internalMsg)
	return errResult(http.StatusUnauthorized, userMsg, msgFmt, msgArgs...).
		withHeader("WWW-Authenticate", `Bearer realm="marzipan build service"`)
}

// notFound returns an HTTP-404.
func notFound(internalMsg ...interface{}) result {
	msgFmt, msgArgs := splitMsg("not found", internalMsg)
	return errResult(http.StatusNotFound, "the requested build record was not found", msgFmt, msgArgs...)
}

// internalServerError returns an HTTP-500.
func internalServerError(internalMsg ...interface{}) result {
	msgFmt, msgArgs := splitMsg("internal server error", internalMsg)
	return errResult(http.StatusInternalServerError, "an internal server error occurred", msgFmt, msgArgs...)
}

// splitMsg mirrors the teacher's inline "internalMsg[0].(string), internalMsg[1:]"
// pattern repeated across every result.* constructor: the first vararg (if
// any) is the Sprintf format string, the rest are its arguments.
func splitMsg(fallback string, args []interface{}) (string, []interface{}) {
	if len(args) == 0 {
		return fallback, nil
	}
	return args[0].(string), args[1:]
}

func (r result) withHeader(name, val string) result {
	cp := r
	cp.hdrs = append(append([][2]string(nil), r.hdrs...), [2]string{name, val})
	return cp
}

func (r *result) prepareMarshaledResponse() error {
	if r.respJSONBytes != nil {
		return nil
	}
	if r.status == http.StatusNoContent {
		return nil
	}
	var err error
	r.respJSONBytes, err = json.Marshal(r.resp)
	return err
}

func (r result) writeResponse(w http.ResponseWriter) {
	if r.status == 0 {
		panic("result not populated")
	}
	if err := r.prepareMarshaledResponse(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}
	w.WriteHeader(r.status)
	if r.status != http.StatusNoContent {
		w.Write(r.respJSONBytes)
	}
}
