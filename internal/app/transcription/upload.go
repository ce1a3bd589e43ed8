package transcription

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vidscribe/internal/pkg/segments"
	"bitbucket.org/airenas/vidscribe/internal/pkg/transcript"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const manualProvider = "manual"

type uploadHandler struct {
	data *ServiceData
}

// UploadResult - upload method response in JSON
type UploadResult struct {
	VideoID   string `json:"videoId"`
	RequestID string `json:"requestId"`
	Segments  int    `json:"segments"`
}

func (h uploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rID := uuid.New().String()
	cmdapp.Log.Infof("Saving transcript for %s from %s, request %s", id, r.Host, rID)

	err := r.ParseMultipartForm(32 << 20)
	if err != nil {
		http.Error(w, "Can't parse MultipartForm", http.StatusBadRequest)
		cmdapp.Log.Error(errors.Wrap(err, "Can't parse MultipartForm"))
		return
	}
	defer cleanFiles(r.MultipartForm)

	file, handler, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	if !checkFileExtension(ext) {
		http.Error(w, "Wrong file extension: "+ext, http.StatusBadRequest)
		cmdapp.Log.Errorf("Wrong file extension: " + ext)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Can't read file", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}

	segs, err := parseSegments(ext, content)
	if err != nil {
		http.Error(w, "Can't parse transcript file", http.StatusBadRequest)
		cmdapp.Log.Error(errors.Wrap(err, "Can't parse transcript file, request "+rID))
		return
	}
	if len(segs) == 0 {
		http.Error(w, "Empty transcript file", http.StatusBadRequest)
		cmdapp.Log.Errorf("Empty transcript file, request %s", rID)
		return
	}

	err = h.data.Saver.ReplaceSegments(id, segs)
	if err != nil {
		http.Error(w, "Can not save segments", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	fields := &transcript.Fields{Content: segments.Flatten(segs), Provider: manualProvider,
		Language: r.FormValue("language"), Confidence: segments.MeanConfidence(segs)}
	err = h.data.Saver.SaveCompleted(id, fields)
	if err != nil {
		http.Error(w, "Can not save transcript", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	cmdapp.Log.Infof("Saved %d segments for %s, request %s", len(segs), id, rID)

	writeJSON(w, &UploadResult{VideoID: id, RequestID: rID, Segments: len(segs)})
}

func parseSegments(ext string, content []byte) ([]segments.Segment, error) {
	switch ext {
	case ".vtt":
		return segments.FromWebVTT(string(content)), nil
	case ".srt":
		return segments.FromSRT(string(content)), nil
	case ".json":
		return segments.FromJSONArray(content)
	case ".txt":
		return segments.FromPlainText(string(content), 0), nil
	}
	return nil, errors.Errorf("Unknown extension '%s'", ext)
}

func cleanFiles(f *multipart.Form) {
	if f != nil {
		f.RemoveAll()
	}
}

func checkFileExtension(ext string) bool {
	return ext == ".vtt" || ext == ".srt" || ext == ".json" || ext == ".txt"
}
