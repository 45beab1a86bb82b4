package replay

import (
	"fmt"

	platformcore "github.com/vovakirdan/tui-crossy/internal/core"
	"github.com/vovakirdan/tui-crossy/internal/games/crossy"
)

// Outcome is what a re-simulation produced.
type Outcome struct {
	Frames       uint64
	Score        int
	Jumps        int
	SurvivalTime float64
	GameOver     bool
}

func newGame(id string) (*crossy.Game, error) {
	switch id {
	case crossy.IDCrossy:
		return crossy.New(), nil
	case crossy.IDClassic:
		return crossy.NewClassic(), nil
	default:
		return nil, fmt.Errorf("replay: unknown game %q", id)
	}
}

// Simulate re-runs the recorded inputs headless.
func Simulate(r *Replay) (Outcome, error) {
	g, err := newGame(r.Header.GameID)
	if err != nil {
		return Outcome{}, err
	}
	if err := r.Header.Config.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("replay: recorded config: %w", err)
	}
	g.SetConfig(r.Header.Config)

	rt := platformcore.RuntimeConfig{TickRate: r.Header.TickRate, Seed: r.Header.Seed}
	g.Reset(rt)
	if r.Header.Restarted {
		g.Reset(rt)
	}

	byFrame := make(map[uint64][]platformcore.Action, len(r.Inputs))
	for _, in := range r.Inputs {
		a := platformcore.ParseAction(in.Action)
		if a == platformcore.ActionNone {
			return Outcome{}, fmt.Errorf("replay: frame %d: unknown action %q", in.Frame, in.Action)
		}
		byFrame[in.Frame] = append(byFrame[in.Frame], a)
	}

	var st platformcore.GameState
	for frame := uint64(0); frame < r.Result.Frames; frame++ {
		in := platformcore.NewInputFrame()
		for _, a := range byFrame[frame] {
			in.Set(a)
		}
		st = g.Step(in).State
		if st.GameOver {
			break
		}
	}
	if err := g.Fault(); err != nil {
		return Outcome{}, fmt.Errorf("replay: simulation fault: %w", err)
	}

	rep := g.RunReport()
	return Outcome{
		Frames:       g.Frames(),
		Score:        rep.Score,
		Jumps:        rep.Jumps,
		SurvivalTime: rep.SurvivalTime,
		GameOver:     st.GameOver,
	}, nil
}

// Verify re-simulates r and checks it against the recorded result.
func Verify(r *Replay) (Outcome, error) {
	if digest := Digest(r.Header.Config); r.Header.ConfigDigest != "" && digest != r.Header.ConfigDigest {
		return Outcome{}, fmt.Errorf("%w: config digest %s, recorded %s", ErrMismatch, digest, r.Header.ConfigDigest)
	}

	out, err := Simulate(r)
	if err != nil {
		return out, err
	}
	switch {
	case out.Score != r.Result.Score:
		return out, fmt.Errorf("%w: score %d, recorded %d", ErrMismatch, out.Score, r.Result.Score)
	case out.Frames != r.Result.Frames:
		return out, fmt.Errorf("%w: %d frames, recorded %d", ErrMismatch, out.Frames, r.Result.Frames)
	case out.Jumps != r.Result.Jumps:
		return out, fmt.Errorf("%w: %d jumps, recorded %d", ErrMismatch, out.Jumps, r.Result.Jumps)
	}
	return out, nil
}
