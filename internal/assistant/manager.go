package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/hirechat/internal/parsing"
	"github.com/jonathan/hirechat/internal/replies"
	"github.com/jonathan/hirechat/internal/types"
)

// Manager answers hiring managers and turns instructions into actions.
type Manager struct {
	rules []rule
}

// NewManager returns the hiring manager panel responder.
func NewManager() *Manager {
	m := &Manager{}
	m.rules = []rule{
		{
			name:    "create-job",
			match:   func(q string) bool { return parsing.HasCreationVerb(q) },
			respond: m.createJob,
		},
		{
			name:    "close-job",
			match:   func(q string) bool { return strings.Contains(q, "close") },
			respond: m.closeJob,
		},
		{
			name:    "analyze",
			match:   func(q string) bool { return strings.Contains(q, "analy") },
			respond: m.analyze,
		},
		{
			name:    "email",
			match:   func(q string) bool { return containsAny(q, "invite", "interview", "reject") },
			respond: m.email,
		},
		{
			name:    "highest-pay",
			match:   func(q string) bool { return containsAll(q, "highest", "pay") },
			respond: m.highestPay,
		},
		{
			name:    "applications",
			match:   func(q string) bool { return containsAny(q, "applicant", "application") },
			respond: m.applications,
		},
		{
			name:    "jobs",
			match:   func(q string) bool { return strings.Contains(q, "job") },
			respond: m.jobs,
		},
	}
	return m
}

// Respond implements Responder.
func (m *Manager) Respond(query string, snapshot Snapshot) Reply {
	return firstMatch(m.rules, query, snapshot, func() Reply {
		return Reply{Text: replies.MustGet(replies.Manager, "help")}
	})
}

func (m *Manager) createJob(query string, _ Snapshot) Reply {
	draft := parsing.ExtractJobPosting(query)
	if !draft.Valid() {
		return Reply{Text: replies.MustGet(replies.Manager, "extraction-failed")}
	}
	return Reply{
		Text: replies.Render(replies.Manager, "job-draft", draftFields(draft)),
		Action: &Action{
			Kind:  ActionCreateJob,
			Draft: &draft,
		},
	}
}

func (m *Manager) closeJob(query string, snapshot Snapshot) Reply {
	job, ok := findJobToClose(query, snapshot)
	if !ok {
		return Reply{Text: replies.MustGet(replies.Manager, "job-not-found")}
	}
	return Reply{
		Text:   fmt.Sprintf("Closing job #%d: %s...", job.ID, job.Title),
		Action: &Action{Kind: ActionCloseJob, JobID: job.ID},
	}
}

// findJobToClose resolves "#id" first, then the longest open job title contained in the query.
func findJobToClose(query string, snapshot Snapshot) (types.Job, bool) {
	if id, ok := referencedID(query); ok {
		return snapshot.JobByID(id)
	}

	lower := strings.ToLower(query)
	var best types.Job
	found := false
	for _, job := range snapshot.OpenJobs() {
		title := strings.ToLower(strings.TrimSpace(job.Title))
		if title == "" || !strings.Contains(lower, title) {
			continue
		}
		if !found || len(job.Title) > len(best.Title) {
			best = job
			found = true
		}
	}
	return best, found
}

func (m *Manager) analyze(query string, _ Snapshot) Reply {
	id, ok := referencedID(query)
	if !ok {
		return Reply{Text: replies.MustGet(replies.Manager, "application-id-required")}
	}
	return Reply{
		Text:   fmt.Sprintf("Analysing application #%d...", id),
		Action: &Action{Kind: ActionAnalyze, ApplicationID: id},
	}
}

func (m *Manager) email(query string, _ Snapshot) Reply {
	id, ok := referencedID(query)
	if !ok {
		return Reply{Text: replies.MustGet(replies.Manager, "application-id-required")}
	}
	kind := types.EmailInterview
	if strings.Contains(strings.ToLower(query), "reject") {
		kind = types.EmailRejection
	}
	return Reply{
		Text:   fmt.Sprintf("Drafting %s email for application #%d...", kind, id),
		Action: &Action{Kind: ActionEmail, ApplicationID: id, EmailKind: kind},
	}
}

func (m *Manager) highestPay(_ string, snapshot Snapshot) Reply {
	best, ok := highestPaying(snapshot.Jobs)
	if !ok {
		return Reply{Text: replies.MustGet(replies.Manager, "no-jobs")}
	}
	return Reply{Text: replies.Render(replies.Manager, "highest-pay", map[string]string{
		"Title":     best.Title,
		"SalaryMax": strconv.Itoa(best.SalaryMax),
	})}
}

func (m *Manager) applications(_ string, snapshot Snapshot) Reply {
	if len(snapshot.Applications) == 0 {
		return Reply{Text: replies.MustGet(replies.Manager, "no-applications")}
	}
	ids, counts := applicationCounts(snapshot.Applications)
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf("• %s (#%d): %d application(s)", jobTitle(snapshot, id), id, counts[id]))
	}
	return Reply{Text: replies.Render(replies.Manager, "applications", map[string]string{
		"Applications": strings.Join(lines, "\n"),
	})}
}

func (m *Manager) jobs(_ string, snapshot Snapshot) Reply {
	if len(snapshot.Jobs) == 0 {
		return Reply{Text: replies.MustGet(replies.Manager, "no-jobs")}
	}
	return Reply{Text: replies.Render(replies.Manager, "jobs", map[string]string{
		"Count": strconv.Itoa(len(snapshot.Jobs)),
		"Jobs":  jobLines(snapshot.Jobs, true),
	})}
}

func draftFields(draft types.JobPostingDraft) map[string]string {
	return map[string]string{
		"Title":     draft.Title,
		"Location":  locationOrDash(draft.Location),
		"SalaryMin": strconv.Itoa(draft.SalaryMin),
		"SalaryMax": strconv.Itoa(draft.SalaryMax),
	}
}
