package inertia

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Reply is a fully computed response: status, headers and body. It is
// what precognition probes and conflict responses are made of.
type Reply struct {
	status int
	header http.Header
	body   []byte
}

// NewReply creates an empty reply with status.
func NewReply(status int) *Reply {
	return &Reply{status: status, header: make(http.Header)}
}

// jsonReply encodes data as the body of a JSON reply.
func jsonReply(status int, data any) (*Reply, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode reply: %w", err)
	}
	rp := NewReply(status)
	rp.header.Set("Content-Type", "application/json")
	rp.body = body
	return rp, nil
}

// Status returns the HTTP status code.
func (rp *Reply) Status() int { return rp.status }

// Header returns the response headers. They may be modified before the
// reply is served.
func (rp *Reply) Header() http.Header { return rp.header }

// Body returns the response body.
func (rp *Reply) Body() []byte { return rp.body }

// ServeHTTP writes the reply to w.
func (rp *Reply) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeReply(w, rp.status, rp.header, rp.body)
}

func writeReply(w http.ResponseWriter, status int, header http.Header, body []byte) {
	for k, vs := range header {
		w.Header()[k] = append([]string(nil), vs...)
	}
	w.WriteHeader(status)
	if len(body) > 0 {
		_, _ = w.Write(body)
	}
}
