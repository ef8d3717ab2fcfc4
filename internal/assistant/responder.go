// Package assistant implements the rule-based chat panels for applicants and hiring managers.
//
// A responder maps one free-text query against the current jobs and applications to exactly
// one reply. Rules are evaluated in order and the first match wins. Responders never perform
// I/O; replies that need the remote API carry an Action for the caller to execute.
package assistant

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/hirechat/internal/types"
)

// ActionKind names a remote operation requested by a reply.
type ActionKind string

const (
	ActionCreateJob ActionKind = "create_job"
	ActionCloseJob  ActionKind = "close_job"
	ActionAnalyze   ActionKind = "analyze_application"
	ActionEmail     ActionKind = "generate_email"
)

// Action is a structured API call derived from a chat message.
type Action struct {
	Kind          ActionKind             `json:"kind"`
	Draft         *types.JobPostingDraft `json:"draft,omitempty"`
	JobID         int64                  `json:"job_id,omitempty"`
	ApplicationID int64                  `json:"application_id,omitempty"`
	EmailKind     types.EmailKind        `json:"email_kind,omitempty"`
}

// Reply is the outcome of one responder turn.
type Reply struct {
	Text   string  `json:"reply"`
	Action *Action `json:"action,omitempty"`
}

// Snapshot is the locally cached state a responder reasons over.
type Snapshot struct {
	Jobs         []types.Job         `json:"jobs"`
	Applications []types.Application `json:"applications"`
}

// JobByID returns the job with the given id.
func (s Snapshot) JobByID(id int64) (types.Job, bool) {
	for _, job := range s.Jobs {
		if job.ID == id {
			return job, true
		}
	}
	return types.Job{}, false
}

// OpenJobs returns the jobs still accepting applications, in listing order.
func (s Snapshot) OpenJobs() []types.Job {
	open := make([]types.Job, 0, len(s.Jobs))
	for _, job := range s.Jobs {
		if job.IsOpen() {
			open = append(open, job)
		}
	}
	return open
}

// Responder answers a single chat query.
type Responder interface {
	Respond(query string, snapshot Snapshot) Reply
}

// rule is one branch of a responder. match receives the lowercased query.
type rule struct {
	name    string
	match   func(lower string) bool
	respond func(query string, snapshot Snapshot) Reply
}

// firstMatch evaluates rules in order; fallback runs when none match.
func firstMatch(rules []rule, query string, snapshot Snapshot, fallback func() Reply) Reply {
	lower := strings.ToLower(query)
	for _, r := range rules {
		if r.match(lower) {
			return r.respond(query, snapshot)
		}
	}
	return fallback()
}

func containsAll(s string, words ...string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

var idRe = regexp.MustCompile(`#\s*(\d+)`)

// referencedID returns the first "#<n>" in the query.
func referencedID(query string) (int64, bool) {
	m := idRe.FindStringSubmatch(query)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// highestPaying reduces over salary_max; the first job wins ties.
func highestPaying(jobs []types.Job) (types.Job, bool) {
	if len(jobs) == 0 {
		return types.Job{}, false
	}
	best := jobs[0]
	for _, job := range jobs[1:] {
		if job.SalaryMax > best.SalaryMax {
			best = job
		}
	}
	return best, true
}

func jobLines(jobs []types.Job, withStatus bool) string {
	lines := make([]string, 0, len(jobs))
	for _, job := range jobs {
		line := fmt.Sprintf("• #%d %s (%s) £%d–£%d", job.ID, job.Title, locationOrDash(job.Location), job.SalaryMin, job.SalaryMax)
		if withStatus {
			status := job.Status
			if status == "" {
				status = types.JobStatusOpen
			}
			line += " [" + string(status) + "]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func locationOrDash(location string) string {
	if location == "" {
		return "-"
	}
	return location
}

func jobTitle(snapshot Snapshot, id int64) string {
	if job, ok := snapshot.JobByID(id); ok {
		return job.Title
	}
	return fmt.Sprintf("job #%d", id)
}

// applicationCounts groups applications per job, ordered by job id.
func applicationCounts(apps []types.Application) ([]int64, map[int64]int) {
	counts := make(map[int64]int)
	for _, app := range apps {
		counts[app.JobID]++
	}
	ids := make([]int64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, counts
}
