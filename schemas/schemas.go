// Package schemas holds the JSON Schema documents shipped with the binary.
package schemas

import "embed"

// Schema file names.
const (
	JobPostingDraft = "job_posting_draft.schema.json"
	ChatRequest     = "chat_request.schema.json"
)

// Files contains every *.schema.json in this directory.
//
//go:embed *.schema.json
var Files embed.FS
