package production

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/comalice/fsmx"
)

func testSnapshot() fsmx.Snapshot {
	return fsmx.Snapshot{
		MachineID: "m1",
		State:     "active",
		Context:   map[string]any{"retries": 2},
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

func TestJSONPersisterSaveLoad(t *testing.T) {
	p, err := NewJSONPersister(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := p.Save(ctx, testSnapshot()); err != nil {
		t.Fatal(err)
	}

	loaded, err := p.Load(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.State != "active" {
		t.Errorf("expected state active, got %q", loaded.State)
	}
	if loaded.MachineID != "m1" {
		t.Errorf("expected machine m1, got %q", loaded.MachineID)
	}
}

func TestJSONPersisterMissingMachine(t *testing.T) {
	p, err := NewJSONPersister(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Load(context.Background(), "ghost"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestYAMLPersisterSaveLoad(t *testing.T) {
	p, err := NewYAMLPersister(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := p.Save(ctx, testSnapshot()); err != nil {
		t.Fatal(err)
	}

	loaded, err := p.Load(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.State != "active" {
		t.Errorf("expected state active, got %q", loaded.State)
	}
}

func TestYAMLPersisterRejectsEmptyState(t *testing.T) {
	dir := t.TempDir()
	p, err := NewYAMLPersister(dir)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	snap := testSnapshot()
	snap.State = ""
	if err := p.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}

	if _, err := p.Load(ctx, "m1"); err == nil {
		t.Error("expected validation error for snapshot without state")
	}
}
