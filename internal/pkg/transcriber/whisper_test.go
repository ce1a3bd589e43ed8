package transcriber

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func initWhisperServer(t *testing.T, rData map[string]testResp) (*WhisperClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		resp, f := rData[req.URL.String()]
		if f {
			rw.WriteHeader(resp.code)
			rw.Write([]byte(resp.resp))
		}
	}))
	api, err := NewWhisperClient(&Config{Name: "whisper", UploadURL: server.URL + "/upload",
		StatusURL: server.URL + "/status", MaxPolls: 3})
	assert.Nil(t, err)
	api.pollInterval = time.Millisecond
	return api, server
}

func TestNewWhisperClient(t *testing.T) {
	c, err := NewWhisperClient(&Config{Name: "w", UploadURL: "http://olia", StatusURL: "http://olia"})
	assert.Nil(t, err)
	assert.Equal(t, "w", c.Name())
	assert.Equal(t, 60, c.maxPolls)
}

func TestNewWhisperClient_Fails(t *testing.T) {
	_, err := NewWhisperClient(&Config{UploadURL: "http://olia", StatusURL: "http://olia"})
	assert.NotNil(t, err)
	_, err = NewWhisperClient(&Config{Name: "w", UploadURL: "http://olia"})
	assert.NotNil(t, err)
}

func TestWhisperTranscribe_Segments(t *testing.T) {
	resp := `{"id":"w1","status":"completed","language":"en","text":"Hello world",
		"segments":[{"start":0,"end":2,"text":"Hello"},{"start":2,"end":4,"text":"world"}]}`
	api, server := initWhisperServer(t, map[string]testResp{
		"/upload":    newTestR(200, `{"id":"w1"}`),
		"/status/w1": newTestR(200, resp)})
	defer server.Close()

	r, err := api.Transcribe(context.Background(), "http://media/v1.mp4", "en")

	assert.Nil(t, err)
	assert.Equal(t, 2, len(r.Segments))
	assert.Equal(t, "Hello", r.Segments[0].Text)
	assert.Equal(t, "", r.Segments[0].Speaker)
	assert.Equal(t, "Hello world", r.Text)
}

func TestWhisperTranscribe_TextOnly(t *testing.T) {
	resp := `{"id":"w1","status":"completed","text":"Hello world"}`
	api, server := initWhisperServer(t, map[string]testResp{
		"/upload":    newTestR(200, `{"id":"w1"}`),
		"/status/w1": newTestR(200, resp)})
	defer server.Close()

	r, err := api.Transcribe(context.Background(), "http://media/v1.mp4", "")

	assert.Nil(t, err)
	assert.Equal(t, 1, len(r.Segments))
}

func TestWhisperTranscribe_Error(t *testing.T) {
	resp := `{"id":"w1","status":"error","error":"olia"}`
	api, server := initWhisperServer(t, map[string]testResp{
		"/upload":    newTestR(200, `{"id":"w1"}`),
		"/status/w1": newTestR(200, resp)})
	defer server.Close()

	_, err := api.Transcribe(context.Background(), "http://media/v1.mp4", "")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "olia")
}

func TestWhisperTranscribe_NoID_Fails(t *testing.T) {
	api, server := initWhisperServer(t, map[string]testResp{"/upload": newTestR(200, `{}`)})
	defer server.Close()

	_, err := api.Transcribe(context.Background(), "http://media/v1.mp4", "")
	assert.NotNil(t, err)
}
