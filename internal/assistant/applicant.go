package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/hirechat/internal/replies"
	"github.com/jonathan/hirechat/internal/types"
)

// cityLocations are the job locations the applicant panel can filter by name.
var cityLocations = []string{"london", "manchester", "edinburgh", "hybrid"}

// Applicant answers questions from job seekers.
type Applicant struct {
	rules []rule
}

// NewApplicant returns the applicant panel responder.
func NewApplicant() *Applicant {
	a := &Applicant{}
	a.rules = []rule{
		{
			name:    "remote-jobs",
			match:   func(q string) bool { return containsAll(q, "remote", "job") },
			respond: a.remoteJobs,
		},
		{
			name:    "highest-pay",
			match:   func(q string) bool { return containsAll(q, "highest", "pay") },
			respond: a.highestPay,
		},
		{
			name:    "applications",
			match:   func(q string) bool { return containsAny(q, "applied", "application") },
			respond: a.applications,
		},
		{
			name:    "job-count",
			match:   func(q string) bool { return containsAll(q, "how many", "job") },
			respond: a.jobCount,
		},
		{
			name: "location-jobs",
			match: func(q string) bool {
				return strings.Contains(q, "job") && containsAny(q, cityLocations...)
			},
			respond: a.locationJobs,
		},
		{
			name:    "open-jobs",
			match:   func(q string) bool { return containsAny(q, "list", "show", "browse") },
			respond: a.openJobs,
		},
	}
	return a
}

// Respond implements Responder.
func (a *Applicant) Respond(query string, snapshot Snapshot) Reply {
	return firstMatch(a.rules, query, snapshot, func() Reply {
		return Reply{Text: replies.MustGet(replies.Applicant, "help")}
	})
}

func (a *Applicant) remoteJobs(_ string, snapshot Snapshot) Reply {
	var remote []types.Job
	for _, job := range snapshot.OpenJobs() {
		if strings.Contains(strings.ToLower(job.Location), "remote") {
			remote = append(remote, job)
		}
	}
	if len(remote) == 0 {
		return Reply{Text: replies.MustGet(replies.Applicant, "no-remote-jobs")}
	}
	return Reply{Text: replies.Render(replies.Applicant, "remote-jobs", map[string]string{
		"Count": strconv.Itoa(len(remote)),
		"Jobs":  jobLines(remote, false),
	})}
}

func (a *Applicant) highestPay(_ string, snapshot Snapshot) Reply {
	best, ok := highestPaying(snapshot.OpenJobs())
	if !ok {
		return Reply{Text: replies.MustGet(replies.Applicant, "no-jobs")}
	}
	return Reply{Text: replies.Render(replies.Applicant, "highest-pay", map[string]string{
		"Title":     best.Title,
		"Location":  locationOrDash(best.Location),
		"SalaryMax": strconv.Itoa(best.SalaryMax),
	})}
}

func (a *Applicant) applications(_ string, snapshot Snapshot) Reply {
	if len(snapshot.Applications) == 0 {
		return Reply{Text: replies.MustGet(replies.Applicant, "no-applications")}
	}
	lines := make([]string, 0, len(snapshot.Applications))
	for _, app := range snapshot.Applications {
		line := fmt.Sprintf("• #%d %s: %s", app.ID, jobTitle(snapshot, app.JobID), app.Status)
		if !app.CreatedAt.IsZero() {
			line += fmt.Sprintf(" (applied %s)", app.CreatedAt.Format("2006-01-02"))
		}
		lines = append(lines, line)
	}
	return Reply{Text: replies.Render(replies.Applicant, "applications", map[string]string{
		"Count":        strconv.Itoa(len(snapshot.Applications)),
		"Applications": strings.Join(lines, "\n"),
	})}
}

func (a *Applicant) jobCount(_ string, snapshot Snapshot) Reply {
	return Reply{Text: replies.Render(replies.Applicant, "job-count", map[string]string{
		"Count": strconv.Itoa(len(snapshot.OpenJobs())),
	})}
}

func (a *Applicant) locationJobs(query string, snapshot Snapshot) Reply {
	lower := strings.ToLower(query)
	var city string
	for _, c := range cityLocations {
		if strings.Contains(lower, c) {
			city = c
			break
		}
	}
	location := titleWord(city)

	var matching []types.Job
	for _, job := range snapshot.OpenJobs() {
		if strings.EqualFold(job.Location, city) {
			matching = append(matching, job)
		}
	}
	if len(matching) == 0 {
		return Reply{Text: replies.Render(replies.Applicant, "no-location-jobs", map[string]string{
			"Location": location,
		})}
	}
	return Reply{Text: replies.Render(replies.Applicant, "location-jobs", map[string]string{
		"Location": location,
		"Count":    strconv.Itoa(len(matching)),
		"Jobs":     jobLines(matching, false),
	})}
}

func (a *Applicant) openJobs(_ string, snapshot Snapshot) Reply {
	open := snapshot.OpenJobs()
	if len(open) == 0 {
		return Reply{Text: replies.MustGet(replies.Applicant, "no-jobs")}
	}
	return Reply{Text: replies.Render(replies.Applicant, "open-jobs", map[string]string{
		"Count": strconv.Itoa(len(open)),
		"Jobs":  jobLines(open, false),
	})}
}

func titleWord(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
