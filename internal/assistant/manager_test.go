package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hirechat/internal/replies"
	"github.com/jonathan/hirechat/internal/types"
)

func TestManager_CreateJob(t *testing.T) {
	manager := NewManager()

	reply := manager.Respond("Create Senior React Developer in London £65-85k with description Build UI features", Snapshot{})
	require.NotNil(t, reply.Action)
	assert.Equal(t, ActionCreateJob, reply.Action.Kind)
	require.NotNil(t, reply.Action.Draft)
	assert.Equal(t, types.JobPostingDraft{
		Title:       "Senior React Developer",
		Description: "Build UI features",
		Location:    "London",
		SalaryMin:   65000,
		SalaryMax:   85000,
	}, *reply.Action.Draft)
	assert.Equal(t, `Creating "Senior React Developer" (London, £65000–£85000)...`, reply.Text)
}

func TestManager_CreateJobExtractionFailed(t *testing.T) {
	manager := NewManager()

	reply := manager.Respond("Create !!!", Snapshot{})
	assert.Nil(t, reply.Action)
	assert.Equal(t, replies.MustGet(replies.Manager, "extraction-failed"), reply.Text)
}

func TestManager_CloseJob(t *testing.T) {
	manager := NewManager()
	snapshot := testSnapshot()

	tests := []struct {
		name   string
		query  string
		wantID int64
	}{
		{"by id", "close job #2", 2},
		{"by id with space", "Close # 4 please", 4},
		{"by title", "close the backend engineer role", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := manager.Respond(tt.query, snapshot)
			require.NotNil(t, reply.Action)
			assert.Equal(t, ActionCloseJob, reply.Action.Kind)
			assert.Equal(t, tt.wantID, reply.Action.JobID)
		})
	}
}

func TestManager_CloseJobNotFound(t *testing.T) {
	manager := NewManager()
	snapshot := testSnapshot()

	for _, query := range []string{"close job #99", "close the barista role", "close staff engineer"} {
		reply := manager.Respond(query, snapshot)
		assert.Nil(t, reply.Action, query)
		assert.Equal(t, replies.MustGet(replies.Manager, "job-not-found"), reply.Text, query)
	}
}

func TestManager_AnalyzeAndEmail(t *testing.T) {
	manager := NewManager()

	reply := manager.Respond("Analyse application #10", Snapshot{})
	require.NotNil(t, reply.Action)
	assert.Equal(t, Action{Kind: ActionAnalyze, ApplicationID: 10}, *reply.Action)

	reply = manager.Respond("analyze it", Snapshot{})
	assert.Nil(t, reply.Action)
	assert.Equal(t, replies.MustGet(replies.Manager, "application-id-required"), reply.Text)

	reply = manager.Respond("invite #11 to interview", Snapshot{})
	require.NotNil(t, reply.Action)
	assert.Equal(t, Action{Kind: ActionEmail, ApplicationID: 11, EmailKind: types.EmailInterview}, *reply.Action)

	reply = manager.Respond("Reject #11", Snapshot{})
	require.NotNil(t, reply.Action)
	assert.Equal(t, types.EmailRejection, reply.Action.EmailKind)
}

func TestManager_Overviews(t *testing.T) {
	manager := NewManager()
	snapshot := testSnapshot()

	reply := manager.Respond("what is the highest pay?", snapshot)
	assert.Equal(t, "Your highest paying role is Staff Engineer at up to £120000.", reply.Text)

	reply = manager.Respond("how many applicants?", snapshot)
	assert.Contains(t, reply.Text, "• Backend Engineer (#1): 1 application(s)")
	assert.Contains(t, reply.Text, "• Frontend Developer (#2): 1 application(s)")

	reply = manager.Respond("my jobs", snapshot)
	assert.Contains(t, reply.Text, "Your jobs (4)")
	assert.Contains(t, reply.Text, "#3 Staff Engineer (Remote) £90000–£120000 [closed]")
	assert.Contains(t, reply.Text, "#4 Data Analyst (Manchester) £40000–£80000 [open]")

	reply = manager.Respond("good morning", snapshot)
	assert.Equal(t, replies.MustGet(replies.Manager, "help"), reply.Text)
}

func TestManager_EmptySnapshot(t *testing.T) {
	manager := NewManager()

	assert.Equal(t, replies.MustGet(replies.Manager, "no-jobs"), manager.Respond("highest pay", Snapshot{}).Text)
	assert.Equal(t, replies.MustGet(replies.Manager, "no-applications"), manager.Respond("applications", Snapshot{}).Text)
	assert.Equal(t, replies.MustGet(replies.Manager, "no-jobs"), manager.Respond("jobs", Snapshot{}).Text)
}
