// Package leaderboard implements the remote high-score service: an HTTP
// API backed by storage, a websocket feed of accepted scores and a client
// the game uses to submit and fetch them.
package leaderboard

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vovakirdan/tui-crossy/internal/storage"
)

// MaxUsernameLen is the longest stored username, in runes.
const MaxUsernameLen = 18

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// ErrInvalidSubmission is returned for submissions the board rejects.
var ErrInvalidSubmission = errors.New("leaderboard: invalid submission")

const submissionSchema = `{
	"type": "object",
	"required": ["username", "score"],
	"properties": {
		"username": {"type": "string", "minLength": 1, "maxLength": 256},
		"score": {"type": "number"}
	},
	"additionalProperties": false
}`

func compileSubmissionSchema() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("submission.schema.json", submissionSchema)
}

// Entry is one leaderboard row.
type Entry struct {
	ID        int64     `json:"id,omitempty"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func entryFrom(e storage.RemoteEntry) Entry {
	return Entry{ID: e.ID, Username: e.Username, Score: e.Score, CreatedAt: e.CreatedAt}
}

// submission is the POST /api/scores body.
type submission struct {
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// Normalize trims the username to MaxUsernameLen runes and floors the
// score at zero.
func Normalize(username string, score float64) (string, int, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return "", 0, fmt.Errorf("%w: empty username", ErrInvalidSubmission)
	}
	if !utf8.ValidString(name) {
		return "", 0, fmt.Errorf("%w: username is not valid UTF-8", ErrInvalidSubmission)
	}
	if utf8.RuneCountInString(name) > MaxUsernameLen {
		name = strings.TrimSpace(string([]rune(name)[:MaxUsernameLen]))
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return "", 0, fmt.Errorf("%w: score must be finite", ErrInvalidSubmission)
	}

	s := math.Floor(score)
	switch {
	case s < 0:
		s = 0
	case s > math.MaxInt32:
		s = math.MaxInt32
	}
	return name, int(s), nil
}
