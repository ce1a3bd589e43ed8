package transcription

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vidscribe/internal/pkg/generator"
	"bitbucket.org/airenas/vidscribe/internal/pkg/metrics"
	"bitbucket.org/airenas/vidscribe/internal/pkg/segments"
	"bitbucket.org/airenas/vidscribe/internal/pkg/transcript"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heptiolabs/healthcheck"
)

// Queue admits, reorders and clears transcript generation jobs
type Queue interface {
	Enqueue(videoID string, sourceURL string, lang string, pr generator.Priority) (bool, error)
	Regenerate(videoID string) (bool, error)
	RetryFailed() (int, error)
	ClearFailed() (int, error)
	ClearAll() (int, error)
	Info() *generator.QueueInfo
}

// TranscriptProvider loads a transcript record
type TranscriptProvider interface {
	Find(videoID string) (*transcript.Record, error)
}

// TranscriptSaver persists manually uploaded transcripts
type TranscriptSaver interface {
	ReplaceSegments(videoID string, segs []segments.Segment) error
	SaveCompleted(videoID string, fields *transcript.Fields) error
}

type serviceMetric struct {
	enqueueResponseDur prometheus.ObserverVec
	uploadResponseDur  prometheus.ObserverVec
	uploadRequestSize  prometheus.ObserverVec
}

// ServiceData keeps data required for service work
type ServiceData struct {
	Queue       Queue
	Provider    TranscriptProvider
	Saver       TranscriptSaver
	Subscribers *subscribers

	Port    int
	health  healthcheck.Handler
	metrics serviceMetric
}

// ActionResult - post method response in JSON
type ActionResult struct {
	Queued bool `json:"queued,omitempty"`
	Count  int  `json:"count,omitempty"`
}

// StartWebServer starts the HTTP service and listens for the requests
func StartWebServer(data *ServiceData) error {
	cmdapp.Log.Infof("Starting HTTP service at %d", data.Port)
	err := initMetrics(data)
	if err != nil {
		return errors.Wrap(err, "Can't init metrics")
	}
	r := NewRouter(data)

	portStr := strconv.Itoa(data.Port)
	srv := http.Server{
		Addr:              ":" + portStr,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		Handler:           r,
	}

	w := cmdapp.Log.Writer()
	defer w.Close()
	l := log.New(w, "", 0)
	gracehttp.SetLogger(l)

	return gracehttp.Serve(&srv)
}

// NewRouter creates the router for HTTP service
func NewRouter(data *ServiceData) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	eh := promhttp.InstrumentHandlerDuration(data.metrics.enqueueResponseDur, enqueueHandler{data: data})
	uh := promhttp.InstrumentHandlerDuration(data.metrics.uploadResponseDur,
		promhttp.InstrumentHandlerRequestSize(data.metrics.uploadRequestSize, uploadHandler{data: data}))
	router.Methods("POST").Path("/enqueue").Handler(eh)
	router.Methods("POST").Path("/transcript/{id}/regenerate").Handler(regenerateHandler{data: data})
	router.Methods("POST").Path("/transcript/{id}/upload").Handler(uh)
	router.Methods("GET").Path("/transcript/{id}").Handler(transcriptHandler{data: data})
	router.Methods("POST").Path("/retryFailed").Handler(retryFailedHandler{data: data})
	router.Methods("POST").Path("/clearFailed").Handler(clearHandler{data: data, all: false})
	router.Methods("POST").Path("/clearAll").Handler(clearHandler{data: data, all: true})
	router.Methods("GET").Path("/queue").Handler(queueHandler{data: data})
	router.Handle("/subscribe", websocketHandler{data: data})
	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
	router.Methods("GET").Path("/live").HandlerFunc(data.health.LiveEndpoint)
	router.Methods("GET").Path("/ready").HandlerFunc(data.health.ReadyEndpoint)
	return router
}

type enqueueHandler struct {
	data *ServiceData
}

type enqueueRequest struct {
	VideoID   string `json:"videoId"`
	SourceURL string `json:"sourceUrl"`
	Language  string `json:"language"`
	Priority  string `json:"priority"`
}

func (h enqueueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Enqueue request from %s", r.Host)
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Can't decode request", http.StatusBadRequest)
		cmdapp.Log.Error(errors.Wrap(err, "Can't decode request"))
		return
	}
	if req.VideoID == "" {
		http.Error(w, "No videoId", http.StatusBadRequest)
		cmdapp.Log.Errorf("No videoId")
		return
	}
	if req.SourceURL == "" {
		http.Error(w, "No sourceUrl", http.StatusBadRequest)
		cmdapp.Log.Errorf("No sourceUrl")
		return
	}
	pr, err := generator.ParsePriority(req.Priority)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	queued, err := h.data.Queue.Enqueue(req.VideoID, req.SourceURL, req.Language, pr)
	if err != nil {
		http.Error(w, "Can't enqueue video", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	writeJSON(w, &ActionResult{Queued: queued})
}

type regenerateHandler struct {
	data *ServiceData
}

func (h regenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	cmdapp.Log.Infof("Regenerate request for %s", id)
	queued, err := h.data.Queue.Regenerate(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	writeJSON(w, &ActionResult{Queued: queued})
}

type retryFailedHandler struct {
	data *ServiceData
}

func (h retryFailedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("RetryFailed request from %s", r.Host)
	n, err := h.data.Queue.RetryFailed()
	if err != nil {
		http.Error(w, "Can't retry failed videos", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	writeJSON(w, &ActionResult{Count: n})
}

type clearHandler struct {
	data *ServiceData
	all  bool
}

func (h clearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Clear request from %s, all: %t", r.Host, h.all)
	var n int
	var err error
	if h.all {
		n, err = h.data.Queue.ClearAll()
	} else {
		n, err = h.data.Queue.ClearFailed()
	}
	if err != nil {
		http.Error(w, "Can't clear records", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	writeJSON(w, &ActionResult{Count: n})
}

type queueHandler struct {
	data *ServiceData
}

func (h queueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.data.Queue.Info())
}

type transcriptHandler struct {
	data *ServiceData
}

func (h transcriptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	cmdapp.Log.Infof("Transcript request for %s", id)
	rec, err := h.data.Provider.Find(id)
	if err != nil {
		http.Error(w, "Can't get transcript", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	if rec == nil {
		rec = &transcript.Record{VideoID: id, Status: transcript.Name(transcript.None)}
	}
	writeJSON(w, rec)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(data)
	if err != nil {
		http.Error(w, "Can not prepare result", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
	}
}

func initMetrics(data *ServiceData) error {
	data.metrics.enqueueResponseDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "transcription_enqueue_duration_seconds",
		Help: "Enqueue request duration"}, nil)
	data.metrics.uploadResponseDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "transcription_upload_duration_seconds",
		Help: "Upload request duration"}, nil)
	data.metrics.uploadRequestSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "transcription_upload_size_bytes",
		Help:    "Upload request size",
		Buckets: []float64{100, 1000, 10000, 100000, 1000000}}, nil)
	for _, m := range []prometheus.Collector{data.metrics.enqueueResponseDur,
		data.metrics.uploadResponseDur, data.metrics.uploadRequestSize} {
		if err := metrics.Register(m); err != nil {
			return err
		}
	}
	return nil
}
