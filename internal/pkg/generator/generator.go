package generator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vidscribe/internal/pkg/segments"
	"bitbucket.org/airenas/vidscribe/internal/pkg/transcript"
	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
)

const defaultMaxConcurrent = 3

// Generator picks pending jobs in batches and turns them into transcripts
type Generator struct {
	db        DB
	providers ProviderSelector
	jobs      *jobs
	bp        backoffProvider

	maxConcurrent int
	pause         time.Duration

	completed int64
	failed    int64

	wakeCh chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	doneCh chan struct{}
}

// NewGenerator creates and validates the generator, does not start the loop
func NewGenerator(db DB, providers ProviderSelector) (*Generator, error) {
	res := &Generator{db: db, providers: providers}
	if res.db == nil {
		return nil, errors.New("No DB provided")
	}
	if res.providers == nil {
		return nil, errors.New("No provider selector")
	}
	res.jobs = newJobs()
	res.jobs.changedFunc = func() { updateQueueMetrics(res.jobs) }
	res.bp = &defaultBackoffProvider{}
	res.maxConcurrent = cmdapp.Config.GetInt("generator.maxConcurrent")
	if res.maxConcurrent <= 0 {
		res.maxConcurrent = defaultMaxConcurrent
	}
	res.pause = cmdapp.Config.GetDuration("generator.pause")
	if res.pause <= 0 {
		res.pause = time.Second
	}
	res.wakeCh = make(chan struct{}, 1)
	res.doneCh = make(chan struct{})
	res.ctx, res.cancel = context.WithCancel(context.Background())
	return res, nil
}

// SetChangedFunc registers a queue change listener
func (g *Generator) SetChangedFunc(f func()) {
	g.jobs.changedFunc = func() {
		updateQueueMetrics(g.jobs)
		f()
	}
}

// Start runs the generation loop
func (g *Generator) Start() {
	cmdapp.Log.Infof("Starting generator, maxConcurrent: %d", g.maxConcurrent)
	go g.serviceLoop()
}

// Close stops the loop and waits for running jobs to settle
func (g *Generator) Close() {
	g.cancel()
	<-g.doneCh
}

// Enqueue adds a video to the queue.
// Does nothing when the video already has a transcript or is queued.
func (g *Generator) Enqueue(videoID string, sourceURL string, lang string, pr Priority) (bool, error) {
	if videoID == "" {
		return false, errors.New("No video ID")
	}
	rec, err := g.db.Find(videoID)
	if err != nil {
		return false, errors.Wrap(err, "Can't check status")
	}
	if rec != nil && transcript.From(rec.Status) == transcript.Completed {
		cmdapp.Log.Infof("Skip %s, transcript exists", videoID)
		return false, nil
	}
	return g.addJob(&job{videoID: videoID, sourceURL: sourceURL, lang: lang, priority: pr}), nil
}

// Regenerate queues a video again even if a transcript exists.
// Does nothing while the video is pending or running.
func (g *Generator) Regenerate(videoID string) (bool, error) {
	if videoID == "" {
		return false, errors.New("No video ID")
	}
	if g.jobs.contains(videoID) {
		cmdapp.Log.Infof("Skip regenerate %s, already queued", videoID)
		return false, nil
	}
	rec, err := g.db.Find(videoID)
	if err != nil {
		return false, errors.Wrap(err, "Can't check status")
	}
	if rec == nil || rec.SourceURL == "" {
		return false, errors.Errorf("No source for video '%s'", videoID)
	}
	return g.addJob(&job{videoID: videoID, sourceURL: rec.SourceURL, lang: rec.Language, priority: PriorityHigh}), nil
}

// RetryFailed queues all failed videos again at medium priority, returns the count of queued ones
func (g *Generator) RetryFailed() (int, error) {
	recs, err := g.db.FindFailed()
	if err != nil {
		return 0, errors.Wrap(err, "Can't load failed records")
	}
	res := 0
	for _, rec := range recs {
		if rec.SourceURL == "" {
			cmdapp.Log.Warnf("Skip retry %s, no source", rec.VideoID)
			continue
		}
		if g.addJob(&job{videoID: rec.VideoID, sourceURL: rec.SourceURL, lang: rec.Language,
			priority: PriorityMedium}) {
			res++
		}
	}
	return res, nil
}

// ClearFailed drops failed records from the DB
func (g *Generator) ClearFailed() (int, error) {
	return g.db.DeleteFailed()
}

// ClearAll drops pending jobs and all non-completed records.
// Finished transcripts are kept, running jobs settle on their own.
func (g *Generator) ClearAll() (int, error) {
	dropped := g.jobs.dropPending()
	cmdapp.Log.Infof("Dropped %d pending jobs", dropped)
	return g.db.DeleteNotCompleted()
}

// Info returns a queue snapshot
func (g *Generator) Info() *QueueInfo {
	res := g.jobs.info()
	res.Completed = atomic.LoadInt64(&g.completed)
	res.Failed = atomic.LoadInt64(&g.failed)
	return res
}

func (g *Generator) addJob(j *job) bool {
	if !g.jobs.add(j) {
		cmdapp.Log.Infof("Skip %s, already queued", j.videoID)
		return false
	}
	cmdapp.Log.Infof("Queued %s (%s)", j.videoID, j.priority)
	g.wake()
	return true
}

func (g *Generator) wake() {
	select {
	case g.wakeCh <- struct{}{}:
	default:
	}
}

func (g *Generator) serviceLoop() {
	defer close(g.doneCh)
	for {
		batch := g.jobs.takeBatch(g.maxConcurrent)
		if len(batch) == 0 {
			select {
			case <-g.wakeCh:
				continue
			case <-g.ctx.Done():
				return
			}
		}
		var wg sync.WaitGroup
		for _, j := range batch {
			wg.Add(1)
			go func(j *job) {
				defer wg.Done()
				g.runJob(j)
			}(j)
		}
		wg.Wait()
		select {
		case <-g.ctx.Done():
			return
		case <-time.After(g.pause):
		}
	}
}

func (g *Generator) runJob(j *job) {
	defer g.jobs.finish(j.videoID)
	cmdapp.Log.Infof("Generating transcript for %s", j.videoID)
	startedAt := time.Now()
	err := g.generate(j)
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "Can't generate transcript for "+j.videoID))
		cmdapp.LogIf(g.saveWithRetry(func() error { return g.db.SaveFailed(j.videoID, err.Error()) }))
		atomic.AddInt64(&g.failed, 1)
		failedCounter.Inc()
		return
	}
	cmdapp.Log.Infof("Done %s in %s", j.videoID, time.Since(startedAt).String())
	atomic.AddInt64(&g.completed, 1)
	completedCounter.Inc()
	durationHist.Observe(time.Since(startedAt).Seconds())
}

func (g *Generator) generate(j *job) error {
	err := g.saveWithRetry(func() error { return g.db.SaveProcessing(j.videoID, j.sourceURL, j.lang) })
	if err != nil {
		return errors.Wrap(err, "Can't mark processing")
	}
	p, err := g.providers.Get(j.lang)
	if err != nil {
		return errors.Wrap(err, "Can't select provider")
	}
	res, err := p.Transcribe(g.ctx, j.sourceURL, j.lang)
	if err != nil {
		return errors.Wrap(err, "Can't transcribe")
	}
	if res == nil || len(res.Segments) == 0 {
		return errors.Errorf("Empty result from provider '%s'", p.Name())
	}
	err = g.saveWithRetry(func() error { return g.db.ReplaceSegments(j.videoID, res.Segments) })
	if err != nil {
		return errors.Wrap(err, "Can't save segments")
	}
	fields := &transcript.Fields{Language: res.Language, Content: res.Text,
		Confidence: segments.MeanConfidence(res.Segments), Provider: p.Name()}
	if fields.Language == "" {
		fields.Language = j.lang
	}
	if fields.Content == "" {
		fields.Content = segments.Flatten(res.Segments)
	}
	err = g.saveWithRetry(func() error { return g.db.SaveCompleted(j.videoID, fields) })
	if err != nil {
		return errors.Wrap(err, "Can't save result")
	}
	return nil
}

func (g *Generator) saveWithRetry(f func() error) error {
	return backoff.Retry(f, g.bp.Get())
}

type defaultBackoffProvider struct {
}

func (p *defaultBackoffProvider) Get() backoff.BackOff {
	res := backoff.NewExponentialBackOff()
	res.MaxElapsedTime = 2 * time.Minute
	return res
}
