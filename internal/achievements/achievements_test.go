package achievements

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/vovakirdan/tui-crossy/internal/core"
)

type memStore struct {
	life     Lifetime
	unlocked map[string]time.Time
	failSave bool
}

func newMemStore() *memStore {
	return &memStore{unlocked: make(map[string]time.Time)}
}

func (m *memStore) LoadLifetime() (Lifetime, error) { return m.life, nil }

func (m *memStore) SaveLifetime(life Lifetime) error {
	if m.failSave {
		return errors.New("disk full")
	}
	m.life = life
	return nil
}

func (m *memStore) UnlockedAchievements() (map[string]time.Time, error) {
	return m.unlocked, nil
}

func (m *memStore) UnlockAchievement(id string) (bool, error) {
	if _, ok := m.unlocked[id]; ok {
		return false, nil
	}
	m.unlocked[id] = time.Unix(1700000000, 0)
	return true, nil
}

func TestCatalog(t *testing.T) {
	all := All()
	if len(all) != 17 {
		t.Fatalf("catalog has %d achievements, expected 17", len(all))
	}
	seen := make(map[string]bool)
	for _, d := range all {
		if seen[d.ID] {
			t.Errorf("duplicate id %q", d.ID)
		}
		seen[d.ID] = true
		if d.Title == "" || d.Description == "" {
			t.Errorf("%s is missing a title or description", d.ID)
		}
	}
	if d, ok := Lookup("jumper_100"); !ok || d.Title != "Hop Hop Hop!" {
		t.Errorf("Lookup(jumper_100) = %+v, %v", d, ok)
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup should miss unknown ids")
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		run      core.RunReport
		life     Lifetime
		expected []string
	}{
		{
			name:     "no hops",
			run:      core.RunReport{},
			life:     Lifetime{GamesPlayed: 1},
			expected: nil,
		},
		{
			name:     "first hop",
			run:      core.RunReport{Jumps: 1, Score: 1, SurvivalTime: 2},
			life:     Lifetime{GamesPlayed: 1, TotalJumps: 1},
			expected: []string{"first_steps"},
		},
		{
			name: "fast climber",
			run:  core.RunReport{Jumps: 22, Score: 20, SurvivalTime: 12, Dodges: 11},
			life: Lifetime{GamesPlayed: 1, TotalJumps: 22},
			expected: []string{"dodger_10", "first_steps", "score_10", "speed_demon",
				"survivor_10"},
		},
		{
			name: "kind dodges and close call",
			run: core.RunReport{Jumps: 3, SurvivalTime: 5, Dodges: 16, CloseCall: true,
				DodgedByKind: map[string]int{"bus": 5, "police": 9, "car": 2}},
			life:     Lifetime{GamesPlayed: 1, TotalJumps: 3},
			expected: []string{"bus_dodger", "close_call", "dodger_10", "first_steps"},
		},
		{
			name:     "lifetime thresholds",
			run:      core.RunReport{Jumps: 4},
			life:     Lifetime{GamesPlayed: 50, TotalJumps: 130},
			expected: []string{"dedicated", "first_steps", "jumper_100", "veteran"},
		},
		{
			name: "long run",
			run:  core.RunReport{Jumps: 80, Score: 55, SurvivalTime: 61, Dodges: 50},
			life: Lifetime{GamesPlayed: 2, TotalJumps: 80},
			expected: []string{"dodger_10", "dodger_25", "dodger_50", "first_steps",
				"score_10", "score_25", "score_50", "survivor_10", "survivor_30", "survivor_60"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.run, tc.life)
			sort.Strings(got)
			if len(got) != len(tc.expected) {
				t.Fatalf("Evaluate = %v, expected %v", got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Fatalf("Evaluate = %v, expected %v", got, tc.expected)
				}
			}
		})
	}
}

func TestLifetimeAdd(t *testing.T) {
	var life Lifetime
	life.Add(core.RunReport{Score: 7, SurvivalTime: 9.5, Dodges: 3, Jumps: 10,
		DodgedByKind: map[string]int{"car": 2, "bus": 1}})
	life.Add(core.RunReport{Score: 4, SurvivalTime: 12, Dodges: 1, Jumps: 5,
		DodgedByKind: map[string]int{"car": 1}})

	if life.GamesPlayed != 2 || life.TotalDeaths != 2 {
		t.Errorf("games = %d deaths = %d, expected 2 and 2", life.GamesPlayed, life.TotalDeaths)
	}
	if life.MaxScore != 7 || life.MaxSurvivalTime != 12 {
		t.Errorf("max score = %d max survival = %f", life.MaxScore, life.MaxSurvivalTime)
	}
	if life.TotalJumps != 15 || life.TotalDodges != 4 {
		t.Errorf("jumps = %d dodges = %d", life.TotalJumps, life.TotalDodges)
	}
	if life.DodgedByKind["car"] != 3 || life.DodgedByKind["bus"] != 1 {
		t.Errorf("dodged by kind = %v", life.DodgedByKind)
	}
}

func TestTrackerUnlocksOnce(t *testing.T) {
	store := newMemStore()
	tr := NewTracker(store)

	fresh, err := tr.Record(core.RunReport{Jumps: 2, Score: 2})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(fresh) != 1 || fresh[0].ID != "first_steps" {
		t.Fatalf("first record unlocked %+v, expected first_steps", fresh)
	}

	fresh, err = tr.Record(core.RunReport{Jumps: 2, Score: 2})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(fresh) != 0 {
		t.Errorf("second record unlocked %+v again", fresh)
	}
	if store.life.GamesPlayed != 2 || store.life.TotalJumps != 4 {
		t.Errorf("lifetime = %+v", store.life)
	}
}

func TestTrackerLifetimeUnlockAcrossRuns(t *testing.T) {
	store := newMemStore()
	tr := NewTracker(store)

	var last []Definition
	for i := 0; i < 10; i++ {
		fresh, err := tr.Record(core.RunReport{Jumps: 10})
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
		last = fresh
	}

	ids := make(map[string]bool)
	for _, d := range last {
		ids[d.ID] = true
	}
	if !ids["veteran"] || !ids["jumper_100"] {
		t.Errorf("tenth run unlocked %v, expected veteran and jumper_100", last)
	}
}

func TestTrackerStatuses(t *testing.T) {
	store := newMemStore()
	tr := NewTracker(store)
	if _, err := tr.Record(core.RunReport{Jumps: 1, CloseCall: true}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	statuses, err := tr.Statuses()
	if err != nil {
		t.Fatalf("Statuses: %v", err)
	}
	if len(statuses) != len(All()) {
		t.Fatalf("statuses = %d entries", len(statuses))
	}
	unlocked := 0
	for _, s := range statuses {
		if s.Unlocked() {
			unlocked++
		}
	}
	if unlocked != 2 {
		t.Errorf("unlocked = %d, expected first_steps and close_call", unlocked)
	}
}

func TestTrackerSaveError(t *testing.T) {
	store := newMemStore()
	store.failSave = true
	_, err := NewTracker(store).Record(core.RunReport{Jumps: 1})
	if err == nil {
		t.Fatal("expected the save error to surface")
	}
	if len(store.unlocked) != 0 {
		t.Error("nothing should unlock when lifetime stats fail to save")
	}
}
