package report

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

// dataLinePattern matches a numbered report data line: a sequence number
// directly followed by a dot, whitespace, an actor token, whitespace, and
// the measured value. The same pattern drives both ingestion and rendering.
var dataLinePattern = regexp.MustCompile(`^(\d+)\.\s+(\S+)\s+(.+)$`)

// Tracker accumulates one sender's in-progress report. Once a tracker has
// been finalized by a sweep it must not be mutated again.
type Tracker struct {
	ID       int
	Sender   string
	Producer Producer
	Headline string
	Lines    []string
	Deadline time.Duration
}

// Registry owns the per-sender accumulation state. Active trackers are keyed
// by sender (at most one per sender); finalized trackers are keyed by the id
// assigned at creation. All methods assume single-threaded use: the host
// calls the line filter and the tick sweep cooperatively, never in parallel.
type Registry struct {
	active    map[string]*Tracker
	finalized map[int]*Tracker
	order     []int
	nextID    int
	retain    int
}

// NewRegistry returns an empty registry. retain bounds how many finalized
// trackers are kept; the oldest id is evicted on overflow. retain <= 0 keeps
// everything.
func NewRegistry(retain int) *Registry {
	return &Registry{
		active:    make(map[string]*Tracker),
		finalized: make(map[int]*Tracker),
		retain:    retain,
	}
}

// BeginReport creates and registers a tracker for sender. The caller must
// have checked that no active tracker exists for sender; a violation is a
// logic fault, so the stale tracker is simply replaced.
func (r *Registry) BeginReport(sender, headline string, producer Producer, now, grace time.Duration) *Tracker {
	r.nextID++
	t := &Tracker{
		ID:       r.nextID,
		Sender:   sender,
		Producer: producer,
		Headline: headline,
		Deadline: now + grace,
	}
	r.active[sender] = t
	return t
}

// AppendLine validates raw against the next expected sequence number for
// sender's active tracker and appends it on a match. It reports whether the
// line was accepted; a rejected line leaves the tracker untouched.
func (r *Registry) AppendLine(sender, raw string) bool {
	t, ok := r.active[sender]
	if !ok {
		return false
	}
	m := dataLinePattern.FindStringSubmatch(raw)
	if m == nil {
		return false
	}
	seq, err := strconv.Atoi(m[1])
	if err != nil || seq != len(t.Lines)+1 {
		return false
	}
	t.Lines = append(t.Lines, raw)
	return true
}

// Sweep moves every active tracker whose deadline has passed into finalized
// storage and applies the retention bound. It returns the trackers it just
// finalized, in id order, so the caller can log them.
func (r *Registry) Sweep(now time.Duration) []*Tracker {
	var moved []int
	for sender, t := range r.active {
		if t.Deadline <= now {
			delete(r.active, sender)
			r.finalized[t.ID] = t
			moved = append(moved, t.ID)
		}
	}
	// Map iteration order is random; keep the eviction order tied to id
	// assignment order instead.
	sort.Ints(moved)
	r.order = append(r.order, moved...)
	finalized := make([]*Tracker, 0, len(moved))
	for _, id := range moved {
		finalized = append(finalized, r.finalized[id])
	}
	if r.retain > 0 {
		for len(r.order) > r.retain {
			delete(r.finalized, r.order[0])
			r.order = r.order[1:]
		}
	}
	return finalized
}

// LookupByID returns the finalized tracker with the given id, or nil.
func (r *Registry) LookupByID(id int) *Tracker {
	return r.finalized[id]
}

// LookupActiveBySender returns sender's in-progress tracker, or nil.
func (r *Registry) LookupActiveBySender(sender string) *Tracker {
	return r.active[sender]
}

// ActiveCount returns the number of senders with a report in progress.
func (r *Registry) ActiveCount() int {
	return len(r.active)
}

// FinalizedCount returns the number of retained finalized trackers.
func (r *Registry) FinalizedCount() int {
	return len(r.finalized)
}
