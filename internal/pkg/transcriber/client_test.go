package transcriber

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testResp struct {
	code int
	resp string
}

type testReq struct {
	URL  string
	body string
}

func newTestR(code int, resp string) testResp {
	return testResp{code: code, resp: resp}
}

func initTestServer(t *testing.T, rData map[string]testResp) (*Client, *httptest.Server, *[]testReq) {
	t.Helper()
	resRequest := make([]testReq, 0)
	rLock := &sync.Mutex{}
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rLock.Lock()
		defer rLock.Unlock()
		b, _ := io.ReadAll(req.Body)
		resRequest = append(resRequest, testReq{URL: req.URL.String(), body: string(b)})
		resp, f := rData[req.URL.String()]
		if f {
			rw.WriteHeader(resp.code)
			rw.Write([]byte(resp.resp))
		}
	}))
	api, err := NewClient(&Config{Name: "test", UploadURL: server.URL + "/upload",
		StatusURL: server.URL + "/status", MaxPolls: 3})
	assert.Nil(t, err)
	api.pollInterval = time.Millisecond
	return api, server, &resRequest
}

func testCalled(t *testing.T, URL string, tReq []testReq) {
	t.Helper()
	assert.GreaterOrEqual(t, len(tReq), 1)
	for _, r := range tReq {
		if r.URL == URL {
			return
		}
	}
	t.Errorf("URL %s not called", URL)
}

func statusJSON(t *testing.T, st statusResponse) string {
	t.Helper()
	rb, err := json.Marshal(st)
	assert.Nil(t, err)
	return string(rb)
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(&Config{Name: "rec", UploadURL: "http://olia", StatusURL: "http://olia"})
	assert.Nil(t, err)
	assert.Equal(t, "rec", c.Name())
	assert.Equal(t, 5*time.Second, c.pollInterval)
	assert.Equal(t, 120, c.maxPolls)
}

func TestNewClient_Fails(t *testing.T) {
	_, err := NewClient(&Config{Name: "", UploadURL: "http://olia", StatusURL: "http://olia"})
	assert.NotNil(t, err)
	_, err = NewClient(&Config{Name: "rec", StatusURL: "http://olia"})
	assert.NotNil(t, err)
	_, err = NewClient(&Config{Name: "rec", UploadURL: "http://olia"})
	assert.NotNil(t, err)
}

func TestTranscribe_Utterances(t *testing.T) {
	c := 0.9
	st := statusResponse{ID: "k10", Status: "completed", Language: "en",
		Utterances: []wireUtterance{{Start: 0, End: 2, Text: "Hello", Speaker: "A", Confidence: &c},
			{Start: 2, End: 4, Text: "Hi", Speaker: "B"}}}
	api, server, tReq := initTestServer(t, map[string]testResp{
		"/upload":      newTestR(200, `{"id":"k10"}`),
		"/status/k10":  newTestR(200, statusJSON(t, st))})
	defer server.Close()

	r, err := api.Transcribe(context.Background(), "http://media/v1.mp4", "en")

	assert.Nil(t, err)
	assert.Equal(t, 2, len(r.Segments))
	assert.Equal(t, "A", r.Segments[0].Speaker)
	assert.Equal(t, "en", r.Language)
	assert.Equal(t, "Hello Hi", r.Text)
	testCalled(t, "/upload", *tReq)
	testCalled(t, "/status/k10", *tReq)
}

func TestTranscribe_WordsFallback(t *testing.T) {
	st := statusResponse{ID: "k10", Status: "completed",
		Words: []wireWord{{Start: 0, End: 1, Text: "Hello"}, {Start: 1, End: 2, Text: "world"}}}
	api, server, _ := initTestServer(t, map[string]testResp{
		"/upload":     newTestR(200, `{"id":"k10"}`),
		"/status/k10": newTestR(200, statusJSON(t, st))})
	defer server.Close()

	r, err := api.Transcribe(context.Background(), "http://media/v1.mp4", "")

	assert.Nil(t, err)
	assert.Equal(t, 1, len(r.Segments))
	assert.Equal(t, "Hello world", r.Segments[0].Text)
}

func TestTranscribe_TextFallback(t *testing.T) {
	st := statusResponse{ID: "k10", Status: "completed", Text: "Hello world"}
	api, server, _ := initTestServer(t, map[string]testResp{
		"/upload":     newTestR(200, `{"id":"k10"}`),
		"/status/k10": newTestR(200, statusJSON(t, st))})
	defer server.Close()

	r, err := api.Transcribe(context.Background(), "http://media/v1.mp4", "")

	assert.Nil(t, err)
	assert.Equal(t, 1, len(r.Segments))
	assert.Equal(t, "Hello world", r.Text)
}

func TestTranscribe_NoID_Fails(t *testing.T) {
	api, server, _ := initTestServer(t, map[string]testResp{"/upload": newTestR(200, `{"id":""}`)})
	defer server.Close()

	_, err := api.Transcribe(context.Background(), "http://media/v1.mp4", "")
	assert.NotNil(t, err)
}

func TestTranscribe_NoURL_Fails(t *testing.T) {
	api, server, tReq := initTestServer(t, map[string]testResp{})
	defer server.Close()

	_, err := api.Transcribe(context.Background(), "", "")
	assert.NotNil(t, err)
	assert.Equal(t, 0, len(*tReq))
}

func TestTranscribe_ProviderError_Fails(t *testing.T) {
	st := statusResponse{ID: "k10", Status: "error", Error: "unsupported audio"}
	api, server, _ := initTestServer(t, map[string]testResp{
		"/upload":     newTestR(200, `{"id":"k10"}`),
		"/status/k10": newTestR(200, statusJSON(t, st))})
	defer server.Close()

	_, err := api.Transcribe(context.Background(), "http://media/v1.mp4", "")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "unsupported audio")
}

func TestTranscribe_Timeout_AfterExactBudget(t *testing.T) {
	st := statusResponse{ID: "k10", Status: "processing"}
	api, server, tReq := initTestServer(t, map[string]testResp{
		"/upload":     newTestR(200, `{"id":"k10"}`),
		"/status/k10": newTestR(200, statusJSON(t, st))})
	defer server.Close()
	api.maxPolls = 4

	_, err := api.Transcribe(context.Background(), "http://media/v1.mp4", "")

	assert.NotNil(t, err)
	statusCalls := 0
	for _, r := range *tReq {
		if r.URL == "/status/k10" {
			statusCalls++
		}
	}
	assert.Equal(t, 4, statusCalls)
}

func TestTranscribe_ContextCancel(t *testing.T) {
	st := statusResponse{ID: "k10", Status: "processing"}
	api, server, _ := initTestServer(t, map[string]testResp{
		"/upload":     newTestR(200, `{"id":"k10"}`),
		"/status/k10": newTestR(200, statusJSON(t, st))})
	defer server.Close()
	api.pollInterval = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := api.Transcribe(ctx, "http://media/v1.mp4", "")
	assert.NotNil(t, err)
}

func TestTranscribe_PassesLanguage(t *testing.T) {
	api, server, tReq := initTestServer(t, map[string]testResp{"/upload": newTestR(400, "err")})
	defer server.Close()

	_, err := api.Transcribe(context.Background(), "http://media/v1.mp4", "lt")
	assert.NotNil(t, err)
	assert.Contains(t, (*tReq)[0].body, `"language":"lt"`)
	assert.Contains(t, (*tReq)[0].body, `"audio_url":"http://media/v1.mp4"`)
}
