package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vidscribe/internal/pkg/segments"
	"bitbucket.org/airenas/vidscribe/internal/pkg/utils"
	"github.com/pkg/errors"

	"github.com/hashicorp/go-retryablehttp"
)

// Client communicates with a speaker aware transcription service.
// The service takes a media URL, returns a job ID and is polled
// until it reports a terminal status.
type Client struct {
	httpclient   *retryablehttp.Client
	name         string
	uploadURL    string
	statusURL    string
	key          string
	pollInterval time.Duration
	maxPolls     int
	chunkSize    int
}

// NewClient creates a speaker aware provider client
func NewClient(cfg *Config) (*Client, error) {
	res := Client{name: cfg.Name, key: cfg.Key, chunkSize: cfg.ChunkSize}
	if res.name == "" {
		return nil, errors.New("No provider name")
	}
	var err error
	res.uploadURL, err = utils.ValidateURL(cfg.UploadURL, "uploadUrl")
	if err != nil {
		return nil, err
	}
	res.statusURL, err = utils.ValidateURL(cfg.StatusURL, "statusUrl")
	if err != nil {
		return nil, err
	}
	res.pollInterval = time.Duration(cfg.PollIntervalSec) * time.Second
	if res.pollInterval <= 0 {
		res.pollInterval = 5 * time.Second
	}
	res.maxPolls = cfg.MaxPolls
	if res.maxPolls <= 0 {
		res.maxPolls = 120
	}
	res.httpclient = retryablehttp.NewClient()
	res.httpclient.RetryMax = 3
	res.httpclient.Logger = nil
	return &res, nil
}

// Name returns the configured provider name
func (sp *Client) Name() string {
	return sp.name
}

// Transcribe submits the URL and polls until completion, provider error
// or the attempt budget runs out
func (sp *Client) Transcribe(ctx context.Context, sourceURL string, lang string) (*Result, error) {
	id, err := sp.upload(ctx, sourceURL, lang)
	if err != nil {
		return nil, err
	}
	cmdapp.Log.Infof("Provider %s accepted job %s", sp.name, id)
	for i := 0; i < sp.maxPolls; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sp.pollInterval):
		}
		st, err := sp.getStatus(ctx, id)
		if err != nil {
			return nil, errors.Wrap(err, "Can't get status")
		}
		if st.Status == stError {
			return nil, errors.Errorf("Provider error: %s", st.Error)
		}
		if st.Status == stCompleted {
			return sp.makeResult(st), nil
		}
	}
	return nil, errors.Errorf("Transcription %s not finished after %d attempts", id, sp.maxPolls)
}

const (
	stCompleted = "completed"
	stError     = "error"
)

type uploadRequest struct {
	AudioURL string `json:"audio_url"`
	Language string `json:"language,omitempty"`
	Speakers bool   `json:"speaker_labels"`
}

type uploadResponse struct {
	ID string `json:"id"`
}

type statusResponse struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	Error      string          `json:"error"`
	Language   string          `json:"language"`
	Text       string          `json:"text"`
	Utterances []wireUtterance `json:"utterances"`
	Words      []wireWord      `json:"words"`
}

type wireUtterance struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Speaker    string   `json:"speaker"`
	Confidence *float64 `json:"confidence"`
}

type wireWord struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

func (sp *Client) upload(ctx context.Context, sourceURL string, lang string) (string, error) {
	if sourceURL == "" {
		return "", errors.New("No source URL")
	}
	cmdapp.Log.Infof("Sending media URL to: %s", sp.uploadURL)
	b, err := json.Marshal(uploadRequest{AudioURL: sourceURL, Language: lang, Speakers: true})
	if err != nil {
		return "", errors.Wrap(err, "Can't marshal request")
	}
	req, err := retryablehttp.NewRequest("POST", sp.uploadURL, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	sp.addAuth(req)

	resp, err := sp.httpclient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	err = utils.ValidateResponse(resp)
	if err != nil {
		return "", errors.Wrap(err, "Can't start transcription")
	}
	var respData uploadResponse
	err = json.NewDecoder(resp.Body).Decode(&respData)
	if err != nil {
		return "", errors.Wrap(err, "Can't decode response")
	}
	if respData.ID == "" {
		return "", errors.New("Can't get ID from response")
	}
	return respData.ID, nil
}

func (sp *Client) getStatus(ctx context.Context, id string) (*statusResponse, error) {
	urlStr := utils.URLJoin(sp.statusURL, id)
	cmdapp.Log.Debugf("Get status: %s", urlStr)
	req, err := retryablehttp.NewRequest("GET", urlStr, nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	sp.addAuth(req)
	resp, err := sp.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	err = utils.ValidateResponse(resp)
	if err != nil {
		return nil, err
	}
	var result statusResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, errors.Wrap(err, "Can't decode response")
	}
	return &result, nil
}

// makeResult prefers speaker utterances, falls back to word chunking,
// finally to the flat text
func (sp *Client) makeResult(st *statusResponse) *Result {
	res := &Result{Language: st.Language, Text: st.Text}
	if len(st.Utterances) > 0 {
		utts := make([]segments.Utterance, 0, len(st.Utterances))
		for _, u := range st.Utterances {
			utts = append(utts, segments.Utterance{Start: u.Start, End: u.End,
				Text: u.Text, Speaker: u.Speaker, Confidence: u.Confidence})
		}
		res.Segments = segments.FromUtterances(utts)
	} else if len(st.Words) > 0 {
		words := make([]segments.Word, 0, len(st.Words))
		for _, w := range st.Words {
			words = append(words, segments.Word{Start: w.Start, End: w.End,
				Text: w.Text, Confidence: w.Confidence})
		}
		res.Segments = segments.FromWords(words, sp.chunkSize)
	} else {
		res.Segments = segments.FromPlainText(st.Text, 0)
	}
	if res.Text == "" {
		res.Text = segments.Flatten(res.Segments)
	}
	return res
}

func (sp *Client) addAuth(req *retryablehttp.Request) {
	if sp.key != "" {
		req.Header.Set("Authorization", sp.key)
	}
}
