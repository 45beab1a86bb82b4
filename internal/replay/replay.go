// Package replay records finished runs as zstd-compressed JSON lines and
// re-simulates them to check the recorded result.
//
// A file holds one header line, one line per gameplay input and a final
// result line:
//
//	{"type":"header","run_id":"...","game_id":"crossy","seed":42,...}
//	{"type":"input","frame":12,"action":"Up"}
//	{"type":"result","frames":930,"score":17,...}
package replay

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-crossy/internal/config"
	"github.com/vovakirdan/tui-crossy/internal/games/crossy"
)

// Ext is the replay file extension.
const Ext = ".jsonl.zst"

// DefaultDir is where the CLI writes replays.
const DefaultDir = "~/.crossy/replays"

// Line types.
const (
	typeHeader = "header"
	typeInput  = "input"
	typeResult = "result"
)

// ErrMismatch is returned when a re-simulation disagrees with the file.
var ErrMismatch = errors.New("replay: result mismatch")

// Header identifies the run and everything needed to rebuild it.
type Header struct {
	Type         string              `json:"type"`
	RunID        string              `json:"run_id"`
	GameID       string              `json:"game_id"`
	Seed         int64               `json:"seed"`
	TickRate     int                 `json:"tick_rate"`
	Restarted    bool                `json:"restarted"`
	ConfigDigest string              `json:"config_digest"`
	Config       config.CrossyConfig `json:"config"`
	RecordedAt   time.Time           `json:"recorded_at"`
}

// Input is one recorded gameplay action.
type Input struct {
	Type   string `json:"type"`
	Frame  uint64 `json:"frame"`
	Action string `json:"action"`
}

// Result is the outcome the recording ended with.
type Result struct {
	Type         string  `json:"type"`
	Frames       uint64  `json:"frames"`
	Score        int     `json:"score"`
	Jumps        int     `json:"jumps"`
	Dodges       int     `json:"dodges"`
	SurvivalTime float64 `json:"survival_time"`
}

// Replay is a decoded recording.
type Replay struct {
	Header Header
	Inputs []Input
	Result Result
}

// Digest fingerprints a config so replays recorded under different
// tuning are easy to tell apart.
func Digest(cfg config.CrossyConfig) string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// FromGame captures the current run of g. Call it at game over.
func FromGame(g *crossy.Game) Replay {
	cfg := g.Config()
	rep := g.RunReport()

	r := Replay{
		Header: Header{
			Type:         typeHeader,
			RunID:        uuid.NewString(),
			GameID:       g.ID(),
			Seed:         g.Seed(),
			TickRate:     g.TickRate(),
			Restarted:    g.Restarted(),
			ConfigDigest: Digest(cfg),
			Config:       cfg,
			RecordedAt:   time.Now().UTC(),
		},
		Result: Result{
			Type:         typeResult,
			Frames:       g.Frames(),
			Score:        rep.Score,
			Jumps:        rep.Jumps,
			Dodges:       rep.Dodges,
			SurvivalTime: rep.SurvivalTime,
		},
	}
	for _, in := range g.Inputs() {
		r.Inputs = append(r.Inputs, Input{Type: typeInput, Frame: in.Frame, Action: in.Action})
	}
	return r
}

// FileName is the file name a replay is saved under.
func (r Replay) FileName() string {
	id := r.Header.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s-%s-%s%s", r.Header.GameID, r.Header.RecordedAt.Format("20060102-150405"), id, Ext)
}

// Save writes r into dir and returns the file path.
func Save(dir string, r Replay) (string, error) {
	dir, err := expandHome(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("replay: cannot create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, r.FileName())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("replay: create %s: %w", path, err)
	}
	if err := write(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("replay: close %s: %w", path, err)
	}
	return path, nil
}

func write(f *os.File, r Replay) error {
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return fmt.Errorf("replay: zstd writer: %w", err)
	}
	w := bufio.NewWriterSize(enc, 32*1024)
	line := func(v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
		return w.WriteByte('\n')
	}

	r.Header.Type = typeHeader
	if err := line(r.Header); err != nil {
		enc.Close()
		return fmt.Errorf("replay: write header: %w", err)
	}
	for _, in := range r.Inputs {
		in.Type = typeInput
		if err := line(in); err != nil {
			enc.Close()
			return fmt.Errorf("replay: write input: %w", err)
		}
	}
	r.Result.Type = typeResult
	if err := line(r.Result); err != nil {
		enc.Close()
		return fmt.Errorf("replay: write result: %w", err)
	}

	if err := w.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("replay: flush: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("replay: finish zstd stream: %w", err)
	}
	return nil
}

// Load reads a replay file.
func Load(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("replay: zstd reader: %w", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var r Replay
	var sawHeader, sawResult bool
	for n := 1; sc.Scan(); n++ {
		raw := sc.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}
		var probe struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("replay: line %d: %w", n, err)
		}

		switch probe.Type {
		case typeHeader:
			if err := json.Unmarshal(raw, &r.Header); err != nil {
				return nil, fmt.Errorf("replay: line %d header: %w", n, err)
			}
			sawHeader = true
		case typeInput:
			var in Input
			if err := json.Unmarshal(raw, &in); err != nil {
				return nil, fmt.Errorf("replay: line %d input: %w", n, err)
			}
			r.Inputs = append(r.Inputs, in)
		case typeResult:
			if err := json.Unmarshal(raw, &r.Result); err != nil {
				return nil, fmt.Errorf("replay: line %d result: %w", n, err)
			}
			sawResult = true
		default:
			return nil, fmt.Errorf("replay: line %d: unknown type %q", n, probe.Type)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("replay: read %s: %w", path, err)
	}
	if !sawHeader || !sawResult {
		return nil, fmt.Errorf("replay: %s is truncated", path)
	}
	return &r, nil
}

// List returns replay files in dir, most recently written first.
func List(dir string) ([]string, error) {
	dir, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("replay: list %s: %w", dir, err)
	}

	type file struct {
		path string
		mod  time.Time
	}
	var files []file
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, file{filepath.Join(dir, e.Name()), info.ModTime()})
	}
	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].mod.Equal(files[j].mod) {
			return files[i].mod.After(files[j].mod)
		}
		return files[i].path > files[j].path
	})

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("replay: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
