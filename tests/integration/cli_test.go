package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// TestMain builds the pursuit binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "pursuit-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	binPath := filepath.Join(tmpDir, "pursuit")
	SetPursuitBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/pursuit")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{Err: err, Output: string(output)})
		os.Exit(1)
	}

	code := m.Run()

	os.RemoveAll(tmpDir)
	os.Exit(code)
}

func TestInitCreatesStore(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunPursuit("init")
	if result.Stdout == "" {
		t.Error("expected init output message")
	}

	if _, err := os.Stat(env.DataDir); os.IsNotExist(err) {
		t.Error("data directory not created")
	}
	dbFile := filepath.Join(env.DataDir, "pursuit.db")
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		t.Error("pursuit.db not created")
	}
}

func TestGoalLifecycle(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPursuit("init")

	valueOut := env.MustRunPursuit("value", "add", "Health", "--priority", "1", "--json")
	value := ParseJSON[types.Value](t, valueOut.Stdout)
	if value.ID == "" {
		t.Fatal("value ID is empty")
	}

	goalOut := env.MustRunPursuit("goal", "add", "Run a marathon",
		"--importance", "8", "--urgency", "4",
		"--target", "km:distance:42.2",
		"--align", value.ID+":9",
		"--json")
	goal := ParseJSON[types.Goal](t, goalOut.Stdout)
	if goal.Title != "Run a marathon" {
		t.Errorf("goal title = %q", goal.Title)
	}
	if len(goal.MeasureTargets) != 1 || goal.MeasureTargets[0].Unit != "km" {
		t.Errorf("measure targets = %+v", goal.MeasureTargets)
	}
	if len(goal.ValueAlignments) != 1 || goal.ValueAlignments[0].ValueTitle != "Health" {
		t.Errorf("value alignments = %+v", goal.ValueAlignments)
	}

	// Unknown units are added to the catalog by the goal add itself.
	unitsOut := env.MustRunPursuit("unit", "list", "--json")
	units := ParseJSON[[]types.Unit](t, unitsOut.Stdout)
	if len(units) != 1 || units[0].Unit != "km" || units[0].UnitType != "distance" {
		t.Errorf("units = %+v", units)
	}

	showOut := env.MustRunPursuit("goal", "show", goal.ID, "--json")
	shown := ParseJSON[types.Goal](t, showOut.Stdout)
	if shown.ID != goal.ID {
		t.Errorf("shown goal ID = %q, want %q", shown.ID, goal.ID)
	}

	env.MustRunPursuit("goal", "rm", goal.ID)
	gone := env.RunPursuit("goal", "show", goal.ID)
	if gone.ExitCode == 0 {
		t.Error("expected non-zero exit for deleted goal")
	}
}

func TestActionSharesCatalogEntry(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPursuit("init")

	goalOut := env.MustRunPursuit("goal", "add", "Run 500 km this year",
		"--target", "km:distance:500", "--json")
	goal := ParseJSON[types.Goal](t, goalOut.Stdout)

	actionOut := env.MustRunPursuit("action", "log", "Morning run",
		"--measure", "KM:distance:10.5",
		"--for", goal.ID+":10.5",
		"--json")
	action := ParseJSON[types.Action](t, actionOut.Stdout)
	if len(action.Measurements) != 1 || action.Measurements[0].Value != 10.5 {
		t.Errorf("measurements = %+v", action.Measurements)
	}
	if len(action.Contributions) != 1 || action.Contributions[0].GoalID != goal.ID {
		t.Errorf("contributions = %+v", action.Contributions)
	}

	// The case-insensitive "KM" measurement reuses the goal's catalog entry.
	unitsOut := env.MustRunPursuit("unit", "list", "--json")
	units := ParseJSON[[]types.Unit](t, unitsOut.Stdout)
	if len(units) != 1 {
		t.Errorf("expected one catalog entry, got %+v", units)
	}
	if action.Measurements[0].UnitID != goal.MeasureTargets[0].UnitID {
		t.Error("measurement and target should share one catalog entry")
	}

	listOut := env.MustRunPursuit("action", "list", "--goal", goal.ID, "--json")
	actions := ParseJSON[[]types.Action](t, listOut.Stdout)
	if len(actions) != 1 || actions[0].ID != action.ID {
		t.Errorf("actions by goal = %+v", actions)
	}
}

func TestTermWorkflow(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPursuit("init")

	goalOut := env.MustRunPursuit("goal", "add", "Learn Go generics", "--json")
	goal := ParseJSON[types.Goal](t, goalOut.Stdout)

	termOut := env.MustRunPursuit("term", "add",
		"--start", "2026-01-01", "--end", "2026-03-31",
		"--sequence", "1", "--theme", "Deep work", "--json")
	period := ParseJSON[types.Period](t, termOut.Stdout)
	if period.Term == nil {
		t.Fatal("expected a term on the period")
	}
	if period.Term.Status != "planned" {
		t.Errorf("term status = %q, want planned", period.Term.Status)
	}

	// A term shares its period's identifier.
	assignOut := env.MustRunPursuit("term", "assign", period.ID, goal.ID, "--json")
	assigned := ParseJSON[types.Goal](t, assignOut.Stdout)
	if assigned.TermAssignment == nil || assigned.TermAssignment.TermID != period.ID {
		t.Errorf("term assignment = %+v", assigned.TermAssignment)
	}

	closeOut := env.MustRunPursuit("term", "close", period.ID,
		"--status", "completed", "--reflection", "Shipped it.", "--json")
	closed := ParseJSON[types.Period](t, closeOut.Stdout)
	if closed.Term == nil || closed.Term.Status != "completed" {
		t.Errorf("closed term = %+v", closed.Term)
	}
	if closed.Term.Reflection != "Shipped it." {
		t.Errorf("reflection = %q", closed.Term.Reflection)
	}
}

func TestExpectationKinds(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPursuit("init")

	cpOut := env.MustRunPursuit("checkpoint", "add", "Quarterly review",
		"--target-date", "2026-09-30", "--json")
	checkpoint := ParseJSON[types.Checkpoint](t, cpOut.Stdout)
	if checkpoint.TargetDate == nil {
		t.Error("expected a target date")
	}

	cmOut := env.MustRunPursuit("commitment", "add", "Send the report",
		"--deadline", "2026-09-05", "--requested-by", "Dana", "--json")
	commitment := ParseJSON[types.Commitment](t, cmOut.Stdout)
	if commitment.RequestedBy != "Dana" {
		t.Errorf("requested by = %q", commitment.RequestedBy)
	}

	// Kinds stay isolated: a checkpoint ID is not visible as a goal.
	miss := env.RunPursuit("goal", "show", checkpoint.ID)
	if miss.ExitCode == 0 {
		t.Error("checkpoint ID should not resolve as a goal")
	}
}

func TestExportWritesJSONL(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPursuit("init")

	env.MustRunPursuit("value", "add", "Craft", "--json")
	goalOut := env.MustRunPursuit("goal", "add", "Write a novella",
		"--target", "words:count:30000", "--json")
	goal := ParseJSON[types.Goal](t, goalOut.Stdout)
	env.MustRunPursuit("action", "log", "Drafting session", "--for", goal.ID+":1200", "--json")

	exportDir := filepath.Join(env.TempDir, "export")
	exportOut := env.MustRunPursuit("export", "--out", exportDir)

	// The summary lists the families in a fixed order, one line per file.
	wantOrder := []string{
		"goals.jsonl", "actions.jsonl", "values.jsonl", "periods.jsonl",
		"checkpoints.jsonl", "commitments.jsonl", "units.jsonl",
	}
	lines := strings.Split(strings.TrimSpace(exportOut.Stdout), "\n")
	if len(lines) != len(wantOrder) {
		t.Fatalf("export summary = %q", exportOut.Stdout)
	}
	for i, name := range wantOrder {
		if !strings.HasPrefix(lines[i], name+": ") {
			t.Errorf("summary line %d = %q, want %s first", i, lines[i], name)
		}
	}

	goals := ReadJSONLFile[types.Goal](t, filepath.Join(exportDir, "goals.jsonl"))
	if len(goals) != 1 || goals[0].ID != goal.ID {
		t.Errorf("exported goals = %+v", goals)
	}
	actions := ReadJSONLFile[types.Action](t, filepath.Join(exportDir, "actions.jsonl"))
	if len(actions) != 1 {
		t.Errorf("exported actions = %+v", actions)
	}
	values := ReadJSONLFile[types.Value](t, filepath.Join(exportDir, "values.jsonl"))
	if len(values) != 1 || values[0].Title != "Craft" {
		t.Errorf("exported values = %+v", values)
	}

	entries, err := os.ReadDir(exportDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", entry.Name())
		}
	}
}

func TestUserErrorsExitNonZero(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPursuit("init")

	tests := []struct {
		name string
		args []string
	}{
		{"empty goal title", []string{"goal", "add", "   "}},
		{"importance out of range", []string{"goal", "add", "Ok", "--importance", "11"}},
		{"malformed target spec", []string{"goal", "add", "Ok", "--target", "km-distance-5"}},
		{"bad date", []string{"term", "add", "--start", "January 1", "--end", "2026-03-31"}},
		{"unknown goal id", []string{"goal", "show", "not-a-uuid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := env.RunPursuit(tt.args...)
			if result.ExitCode == 0 {
				t.Errorf("pursuit %v should fail", tt.args)
			}
			if result.Stderr == "" {
				t.Errorf("pursuit %v should print an error", tt.args)
			}
		})
	}
}
