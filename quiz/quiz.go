// Package quiz runs the "find the district" game: a shuffled queue of
// region ids, one question at a time, with a score.
package quiz

import (
	"math"
	"math/rand/v2"
)

// Phase is the quiz state.
type Phase int

const (
	Idle Phase = iota
	Active
	AwaitingNext
	Complete
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case AwaitingNext:
		return "awaiting-next"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Answer is the outcome of one submitted selection.
type Answer struct {
	Selected  string
	Correct   string
	IsCorrect bool
}

// Progress reports how far through the queue the player is.
type Progress struct {
	Current int
	Total   int
	Percent int
}

// Verdict grades a finished or abandoned run.
type Verdict int

const (
	KeepPracticing Verdict = iota
	Good
	Excellent
)

func (v Verdict) String() string {
	switch v {
	case Excellent:
		return "Excellent!"
	case Good:
		return "Good job!"
	}
	return "Keep practicing!"
}

// Snapshot is a copy of the quiz state for display.
type Snapshot struct {
	Phase         Phase
	Current       string
	Remaining     int
	Score         int
	TotalAnswered int
	TotalRegions  int
	Answered      []string
	Last          *Answer
}

// Quiz is owned by a single UI component and is not safe for concurrent use.
type Quiz struct {
	ids []string
	rng *rand.Rand

	phase    Phase
	current  string
	queue    []string
	answered []string
	seen     map[string]bool
	score    int
	total    int
	last     *Answer
}

// New returns an idle quiz over ids. Duplicate and empty ids are dropped.
// A nil rng uses the global source.
func New(ids []string, rng *rand.Rand) *Quiz {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		uniq = append(uniq, id)
	}
	return &Quiz{ids: uniq, rng: rng, seen: map[string]bool{}}
}

// Shuffle returns a uniformly random permutation of ids using Fisher-Yates.
// The input is not modified.
func Shuffle(ids []string, rng *rand.Rand) []string {
	out := append([]string(nil), ids...)
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for i := len(out) - 1; i > 0; i-- {
		j := intN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Start shuffles every region into a fresh queue and asks the first one.
// With no regions the quiz completes immediately.
func (q *Quiz) Start() {
	order := Shuffle(q.ids, q.rng)
	q.score, q.total = 0, 0
	q.answered = nil
	q.seen = make(map[string]bool, len(order))
	q.last = nil
	if len(order) == 0 {
		q.current, q.queue = "", nil
		q.phase = Complete
		return
	}
	q.current = order[0]
	q.queue = order[1:]
	q.phase = Active
}

// Submit records a selection for the current question. It is a no-op
// returning false unless the quiz is active with no pending answer.
func (q *Quiz) Submit(selected string) (Answer, bool) {
	if q.phase != Active || q.last != nil {
		return Answer{}, false
	}
	a := Answer{Selected: selected, Correct: q.current, IsCorrect: selected == q.current}
	q.total++
	if a.IsCorrect {
		q.score++
	}
	if !q.seen[q.current] {
		q.seen[q.current] = true
		q.answered = append(q.answered, q.current)
	}
	q.last = &a
	q.phase = AwaitingNext
	return a, true
}

// Advance moves to the next question, or to Complete when the queue is
// empty. It is a no-op returning false unless an answer is pending.
func (q *Quiz) Advance() bool {
	if q.phase != AwaitingNext {
		return false
	}
	q.last = nil
	if len(q.queue) == 0 {
		q.current = ""
		q.phase = Complete
		return true
	}
	q.current = q.queue[0]
	q.queue = q.queue[1:]
	q.phase = Active
	return true
}

// End abandons the run. Score and answered regions stay readable until the
// next Start.
func (q *Quiz) End() {
	q.phase = Idle
	q.current = ""
	q.queue = nil
	q.last = nil
}

func (q *Quiz) Phase() Phase       { return q.phase }
func (q *Quiz) Current() string    { return q.current }
func (q *Quiz) Score() int         { return q.score }
func (q *Quiz) TotalAnswered() int { return q.total }
func (q *Quiz) TotalRegions() int  { return len(q.ids) }
func (q *Quiz) Remaining() int     { return len(q.queue) }

// Last returns the pending answer while awaiting the next question.
func (q *Quiz) Last() (Answer, bool) {
	if q.last == nil {
		return Answer{}, false
	}
	return *q.last, true
}

// IsAnswered reports whether id has been asked and answered this run.
func (q *Quiz) IsAnswered(id string) bool { return q.seen[id] }

// AnsweredSet returns a copy of the answered ids as a set.
func (q *Quiz) AnsweredSet() map[string]bool {
	out := make(map[string]bool, len(q.seen))
	for id := range q.seen {
		out[id] = true
	}
	return out
}

// GameOver reports whether the last question has been answered.
func (q *Quiz) GameOver() bool {
	return q.phase == AwaitingNext && len(q.queue) == 0
}

func (q *Quiz) Progress() Progress {
	p := Progress{Current: q.total, Total: len(q.ids)}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Current) / float64(p.Total) * 100))
	}
	return p
}

// Verdict grades the score against every region: three quarters correct is
// excellent, half is good.
func (q *Quiz) Verdict() Verdict {
	n := len(q.ids)
	switch {
	case n == 0:
		return KeepPracticing
	case q.score*4 >= n*3:
		return Excellent
	case q.score*2 >= n:
		return Good
	}
	return KeepPracticing
}

func (q *Quiz) Snapshot() Snapshot {
	s := Snapshot{
		Phase:         q.phase,
		Current:       q.current,
		Remaining:     len(q.queue),
		Score:         q.score,
		TotalAnswered: q.total,
		TotalRegions:  len(q.ids),
		Answered:      append([]string(nil), q.answered...),
	}
	if q.last != nil {
		a := *q.last
		s.Last = &a
	}
	return s
}
