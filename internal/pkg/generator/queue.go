package generator

import (
	"sort"
	"sync"
	"time"
)

type job struct {
	videoID   string
	sourceURL string
	lang      string
	priority  Priority
	addedAt   time.Time
}

// jobs keeps pending and running generation jobs.
// A video ID appears at most once over both lists.
type jobs struct {
	pending []*job
	running map[string]*job
	lock    *sync.Mutex

	changedFunc changedFunc
}

type changedFunc func()

func newJobs() *jobs {
	res := &jobs{}
	res.lock = &sync.Mutex{}
	res.running = make(map[string]*job)
	res.changedFunc = func() {}
	return res
}

// add puts a job into the pending list, returns false if the video is already known
func (js *jobs) add(j *job) bool {
	js.lock.Lock()
	defer js.lock.Unlock()
	if js.containsNoLock(j.videoID) {
		return false
	}
	j.addedAt = time.Now()
	js.pending = append(js.pending, j)
	go js.changedFunc()
	return true
}

func (js *jobs) contains(videoID string) bool {
	js.lock.Lock()
	defer js.lock.Unlock()
	return js.containsNoLock(videoID)
}

func (js *jobs) containsNoLock(videoID string) bool {
	if _, f := js.running[videoID]; f {
		return true
	}
	for _, p := range js.pending {
		if p.videoID == videoID {
			return true
		}
	}
	return false
}

// takeBatch moves up to n best pending jobs to the running list.
// Higher priority goes first, ties keep the arrival order.
func (js *jobs) takeBatch(n int) []*job {
	js.lock.Lock()
	defer js.lock.Unlock()
	if len(js.pending) == 0 || n <= 0 {
		return nil
	}
	sort.SliceStable(js.pending, func(i, j int) bool {
		return js.pending[i].priority > js.pending[j].priority
	})
	if n > len(js.pending) {
		n = len(js.pending)
	}
	res := js.pending[:n]
	js.pending = js.pending[n:]
	for _, j := range res {
		js.running[j.videoID] = j
	}
	go js.changedFunc()
	return res
}

// finish drops a job from the running list
func (js *jobs) finish(videoID string) {
	js.lock.Lock()
	defer js.lock.Unlock()
	delete(js.running, videoID)
	go js.changedFunc()
}

// dropPending clears the pending list, returns the count of dropped jobs
func (js *jobs) dropPending() int {
	js.lock.Lock()
	defer js.lock.Unlock()
	res := len(js.pending)
	js.pending = nil
	go js.changedFunc()
	return res
}

func (js *jobs) pendingCount() int {
	js.lock.Lock()
	defer js.lock.Unlock()
	return len(js.pending)
}

func (js *jobs) runningCount() int {
	js.lock.Lock()
	defer js.lock.Unlock()
	return len(js.running)
}

// info returns a snapshot for introspection
func (js *jobs) info() *QueueInfo {
	js.lock.Lock()
	defer js.lock.Unlock()
	res := &QueueInfo{Pending: make([]JobInfo, 0, len(js.pending)), Running: make([]JobInfo, 0, len(js.running))}
	for _, j := range js.pending {
		res.Pending = append(res.Pending, newJobInfo(j))
	}
	for _, j := range js.running {
		res.Running = append(res.Running, newJobInfo(j))
	}
	sort.Slice(res.Running, func(i, j int) bool { return res.Running[i].VideoID < res.Running[j].VideoID })
	return res
}

func newJobInfo(j *job) JobInfo {
	return JobInfo{VideoID: j.videoID, Language: j.lang, Priority: j.priority.String(), AddedAt: j.addedAt}
}
