package catalog

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

// matchNothing is an ignore matcher that lets every path through.
type matchNothing struct{}

func (matchNothing) MatchesPath(string) bool { return false }

func TestWatcherChangeCallbacks(t *testing.T) {
	root := writeLibrary(t, map[string]string{
		"utility/A.md": "a\n",
	})

	lw, err := NewLibraryWatcher(root, matchNothing{})
	if err != nil {
		t.Fatalf("NewLibraryWatcher failed: %v", err)
	}
	t.Cleanup(func() { lw.Stop() })

	var gotPaths []string
	var structural bool
	lw.OnChange(func(paths []string) { gotPaths = paths })
	lw.OnStructureChange(func() { structural = true })

	// Drive events by hand so the test needs no real fs notifications.
	// An edit fires the change callback only
	lw.handleEvent(fsnotify.Event{Name: filepath.Join(root, "utility", "A.md"), Op: fsnotify.Write})
	lw.processPendingEvents()

	if len(gotPaths) != 1 || gotPaths[0] != "utility/A.md" {
		t.Errorf("Expected change for utility/A.md, got %v", gotPaths)
	}
	if structural {
		t.Error("An edit should not count as a structural change")
	}

	// A removal fires both
	gotPaths = nil
	lw.handleEvent(fsnotify.Event{Name: filepath.Join(root, "utility", "A.md"), Op: fsnotify.Remove})
	lw.processPendingEvents()

	if len(gotPaths) != 1 {
		t.Errorf("Expected change for removed file, got %v", gotPaths)
	}
	if !structural {
		t.Error("A removal should count as a structural change")
	}

	// The pending queue drains once fired
	gotPaths = nil
	structural = false
	lw.processPendingEvents()
	if gotPaths != nil || structural {
		t.Error("Expected no callbacks with an empty queue")
	}
}

func TestWatcherCreateIsStructural(t *testing.T) {
	root := writeLibrary(t, nil)

	lw, err := NewLibraryWatcher(root, matchNothing{})
	if err != nil {
		t.Fatalf("NewLibraryWatcher failed: %v", err)
	}
	t.Cleanup(func() { lw.Stop() })

	var structural bool
	lw.OnStructureChange(func() { structural = true })

	lw.handleEvent(fsnotify.Event{Name: filepath.Join(root, "ideation", "NEW.md"), Op: fsnotify.Create})
	lw.processPendingEvents()

	if !structural {
		t.Error("A created prompt file should count as a structural change")
	}
}

func TestWatcherIgnoredPathsSkipped(t *testing.T) {
	root := writeLibrary(t, map[string]string{
		".promptignore": "WIP_*.md\n",
	})

	walker, err := NewWalker(root)
	if err != nil {
		t.Fatalf("NewWalker failed: %v", err)
	}
	lw, err := NewLibraryWatcher(root, walker.IgnoreMatcher())
	if err != nil {
		t.Fatalf("NewLibraryWatcher failed: %v", err)
	}
	t.Cleanup(func() { lw.Stop() })

	fired := false
	lw.OnChange(func([]string) { fired = true })

	lw.handleEvent(fsnotify.Event{Name: filepath.Join(root, "critical", "WIP_DRAFT.md"), Op: fsnotify.Write})
	lw.processPendingEvents()

	if fired {
		t.Error("Ignored paths should not trigger callbacks")
	}
}
