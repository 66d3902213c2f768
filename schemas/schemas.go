// Package schemas embeds the JSON Schemas shipped with hypercorn.
package schemas

import _ "embed"

// SubmissionSchemaJSON is the canonical schema for one submission row, as
// produced by the leaderboard dump pipeline.
//
//go:embed submission.schema.json
var SubmissionSchemaJSON string
