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

// WhisperClient communicates with a whisper style transcription service.
// The service returns its own time coded segments without speaker labels.
type WhisperClient struct {
	httpclient   *retryablehttp.Client
	name         string
	uploadURL    string
	statusURL    string
	key          string
	pollInterval time.Duration
	maxPolls     int
}

// NewWhisperClient creates a whisper style provider client
func NewWhisperClient(cfg *Config) (*WhisperClient, error) {
	res := WhisperClient{name: cfg.Name, key: cfg.Key}
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
		res.maxPolls = 60
	}
	res.httpclient = retryablehttp.NewClient()
	res.httpclient.RetryMax = 3
	res.httpclient.Logger = nil
	return &res, nil
}

// Name returns the configured provider name
func (sp *WhisperClient) Name() string {
	return sp.name
}

type whisperStatus struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Error    string  `json:"error"`
	Language string  `json:"language"`
	Text     string  `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe submits the URL and polls the status endpoint until done
func (sp *WhisperClient) Transcribe(ctx context.Context, sourceURL string, lang string) (*Result, error) {
	if sourceURL == "" {
		return nil, errors.New("No source URL")
	}
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
			return makeWhisperResult(st), nil
		}
	}
	return nil, errors.Errorf("Transcription %s not finished after %d attempts", id, sp.maxPolls)
}

func (sp *WhisperClient) upload(ctx context.Context, sourceURL string, lang string) (string, error) {
	b, err := json.Marshal(uploadRequest{AudioURL: sourceURL, Language: lang})
	if err != nil {
		return "", errors.Wrap(err, "Can't marshal request")
	}
	req, err := retryablehttp.NewRequest("POST", sp.uploadURL, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	if sp.key != "" {
		req.Header.Set("Authorization", "Bearer "+sp.key)
	}
	resp, err := sp.httpclient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := utils.ValidateResponse(resp); err != nil {
		return "", errors.Wrap(err, "Can't start transcription")
	}
	var respData uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", errors.Wrap(err, "Can't decode response")
	}
	if respData.ID == "" {
		return "", errors.New("Can't get ID from response")
	}
	return respData.ID, nil
}

func (sp *WhisperClient) getStatus(ctx context.Context, id string) (*whisperStatus, error) {
	urlStr := utils.URLJoin(sp.statusURL, id)
	cmdapp.Log.Debugf("Get status: %s", urlStr)
	req, err := retryablehttp.NewRequest("GET", urlStr, nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	if sp.key != "" {
		req.Header.Set("Authorization", "Bearer "+sp.key)
	}
	resp, err := sp.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := utils.ValidateResponse(resp); err != nil {
		return nil, err
	}
	var result whisperStatus
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "Can't decode response")
	}
	return &result, nil
}

func makeWhisperResult(st *whisperStatus) *Result {
	res := &Result{Language: st.Language, Text: st.Text}
	if len(st.Segments) > 0 {
		segs := make([]segments.Utterance, 0, len(st.Segments))
		for _, s := range st.Segments {
			segs = append(segs, segments.Utterance{Start: s.Start, End: s.End, Text: s.Text})
		}
		res.Segments = segments.FromUtterances(segs)
	} else {
		res.Segments = segments.FromPlainText(st.Text, 0)
	}
	if res.Text == "" {
		res.Text = segments.Flatten(res.Segments)
	}
	return res
}
