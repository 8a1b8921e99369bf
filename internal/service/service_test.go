package service_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/dirnotes/internal/notes"
	"github.com/go-ports/dirnotes/internal/service"
)

// newService returns a service rooted in a temp dir whose working directory
// is always wd. Extra settings yaml is written when non-empty.
func newService(c *qt.C, wd, settings string) *service.Service {
	c.TB.Helper()

	dir := c.TB.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if settings != "" {
		c.Assert(os.WriteFile(cfgPath, []byte(settings), 0o600), qt.IsNil)
	}
	svc, err := service.New(service.Options{
		NotesFile:  filepath.Join(dir, "notes.json"),
		ConfigFile: cfgPath,
		Getwd:      func() (string, error) { return wd, nil },
	})
	c.Assert(err, qt.IsNil)
	return svc
}

func TestAdd_PersistsAndReportsKey(t *testing.T) {
	c := qt.New(t)
	svc := newService(c, "/tmp/proj", "")

	res, err := svc.Add(notes.Scope{}, "buy milk")
	c.Assert(err, qt.IsNil)
	c.Assert(res.ID, qt.Equals, 1)
	c.Assert(res.Key, qt.Equals, "/tmp/proj")

	coll := notes.Load(svc.NotesFile)
	c.Assert(coll.List("/tmp/proj"), qt.DeepEquals, []notes.Note{{ID: 1, Text: "buy milk"}})
}

func TestAddRemoveAdd_ThirdNoteGetsID3(t *testing.T) {
	c := qt.New(t)
	svc := newService(c, "/tmp/proj", "")

	for _, text := range []string{"first", "second"} {
		_, err := svc.Add(notes.Scope{}, text)
		c.Assert(err, qt.IsNil)
	}
	_, err := svc.Remove(notes.Scope{}, 1)
	c.Assert(err, qt.IsNil)

	res, err := svc.Add(notes.Scope{}, "third")
	c.Assert(err, qt.IsNil)
	c.Assert(res.ID, qt.Equals, 3)

	listing, err := svc.List(notes.Scope{})
	c.Assert(err, qt.IsNil)
	c.Assert(listing.Global(), qt.IsFalse)
	c.Assert(listing.Notes, qt.DeepEquals, []notes.Note{{ID: 2, Text: "second"}, {ID: 3, Text: "third"}})
}

func TestAdd_ExhaustedCounterDoesNotWrite(t *testing.T) {
	c := qt.New(t)
	svc := newService(c, "/tmp/proj", "")

	doc := `{"notes":{"/tmp/proj":{"count":2147483647,"notes":{"2147483646":"last"}}}}`
	c.Assert(os.WriteFile(svc.NotesFile, []byte(doc), 0o600), qt.IsNil)

	res, err := svc.Add(notes.Scope{}, "more")
	c.Assert(res, qt.IsNil)
	c.Assert(err, qt.ErrorIs, notes.ErrIDsExhausted)
	c.Assert(notes.IsDomain(err), qt.IsTrue)

	after, err := os.ReadFile(svc.NotesFile)
	c.Assert(err, qt.IsNil)
	c.Assert(string(after), qt.Equals, doc)
}

func TestRemove_ReportsKeyFromStore(t *testing.T) {
	c := qt.New(t)
	svc := newService(c, "/tmp/proj/../proj", "")

	res, err := svc.Add(notes.Scope{}, "x")
	c.Assert(err, qt.IsNil)
	c.Assert(res.Key, qt.Equals, "/tmp/proj")

	key, err := svc.Remove(notes.Scope{}, res.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(key, qt.Equals, "/tmp/proj")

	key, err = svc.Remove(notes.Scope{Global: true}, 1)
	c.Assert(err, qt.ErrorIs, notes.ErrContextNotFound)
	c.Assert(key, qt.Equals, notes.GlobalKey)
}

func TestRemove_DomainErrorsDoNotWrite(t *testing.T) {
	c := qt.New(t)
	svc := newService(c, "/tmp/proj", "")

	_, err := svc.Remove(notes.Scope{}, 1)
	c.Assert(err, qt.ErrorIs, notes.ErrContextNotFound)
	_, statErr := os.Stat(svc.NotesFile)
	c.Assert(os.IsNotExist(statErr), qt.IsTrue)

	_, err = svc.Add(notes.Scope{Global: true}, "global todo")
	c.Assert(err, qt.IsNil)
	before, err := os.ReadFile(svc.NotesFile)
	c.Assert(err, qt.IsNil)

	_, err = svc.Remove(notes.Scope{Global: true}, 9)
	c.Assert(notes.KindOf(err), qt.Equals, notes.KindNoteNotFound)
	c.Assert(err, qt.ErrorMatches, "note with id 9 not found")

	after, err := os.ReadFile(svc.NotesFile)
	c.Assert(err, qt.IsNil)
	c.Assert(string(after), qt.Equals, string(before))
}

func TestList_NeverWrites(t *testing.T) {
	c := qt.New(t)
	svc := newService(c, "/tmp/proj", "")

	listing, err := svc.List(notes.Scope{Global: true})
	c.Assert(err, qt.IsNil)
	c.Assert(listing.Global(), qt.IsTrue)
	c.Assert(listing.Notes, qt.HasLen, 0)

	_, statErr := os.Stat(svc.NotesFile)
	c.Assert(os.IsNotExist(statErr), qt.IsTrue)
}

func TestAdd_ReloadsBetweenCalls(t *testing.T) {
	c := qt.New(t)
	svc := newService(c, "/tmp/proj", "")

	_, err := svc.Add(notes.Scope{}, "from service")
	c.Assert(err, qt.IsNil)

	// Another process appends behind the service's back.
	other := notes.Open(svc.NotesFile, notes.WithGetwd(func() (string, error) { return "/tmp/proj", nil }))
	_, _, err = other.Add(notes.Scope{}, "from elsewhere")
	c.Assert(err, qt.IsNil)
	c.Assert(other.Save(), qt.IsNil)

	res, err := svc.Add(notes.Scope{}, "again")
	c.Assert(err, qt.IsNil)
	c.Assert(res.ID, qt.Equals, 3)

	listing, err := svc.List(notes.Scope{})
	c.Assert(err, qt.IsNil)
	c.Assert(listing.Notes, qt.HasLen, 3)
}

func TestAdd_SaveFailureIsNotSuccess(t *testing.T) {
	c := qt.New(t)

	blocker := filepath.Join(t.TempDir(), "blocker")
	c.Assert(os.WriteFile(blocker, nil, 0o600), qt.IsNil)

	svc, err := service.New(service.Options{
		NotesFile:  filepath.Join(blocker, "notes.json"),
		ConfigFile: filepath.Join(t.TempDir(), "config.yaml"),
	})
	c.Assert(err, qt.IsNil)

	res, err := svc.Add(notes.Scope{Global: true}, "lost")
	c.Assert(res, qt.IsNil)
	c.Assert(notes.KindOf(err), qt.Equals, notes.KindPersistence)
}

func TestAdd_RedactionFromSettings(t *testing.T) {
	c := qt.New(t)

	c.Run("disabled by default", func(c *qt.C) {
		svc := newService(c, "/tmp/proj", "")
		_, err := svc.Add(notes.Scope{}, "password=hunter2")
		c.Assert(err, qt.IsNil)
		listing, err := svc.List(notes.Scope{})
		c.Assert(err, qt.IsNil)
		c.Assert(listing.Notes[0].Text, qt.Equals, "password=hunter2")
	})

	c.Run("enabled with ignore file", func(c *qt.C) {
		svc := newService(c, "/tmp/proj", "redact_secrets: true\n")
		ignore := filepath.Join(filepath.Dir(svc.ConfigFile), ".notesignore")
		c.Assert(os.WriteFile(ignore, []byte("room-[0-9]+\n"), 0o600), qt.IsNil)

		// Patterns are read at construction, so build a second service.
		svc, err := service.New(service.Options{
			NotesFile:  svc.NotesFile,
			ConfigFile: svc.ConfigFile,
			Getwd:      func() (string, error) { return "/tmp/proj", nil },
		})
		c.Assert(err, qt.IsNil)

		_, err = svc.Add(notes.Scope{}, "meet in room-12, password=hunter2")
		c.Assert(err, qt.IsNil)
		listing, err := svc.List(notes.Scope{})
		c.Assert(err, qt.IsNil)
		c.Assert(listing.Notes[0].Text, qt.Equals, "meet in [REDACTED], [REDACTED]")
	})
}

func TestNew_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("invalid settings", func(c *qt.C) {
		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		c.Assert(os.WriteFile(cfgPath, []byte("log_level: loud\n"), 0o600), qt.IsNil)

		_, err := service.New(service.Options{
			NotesFile:  filepath.Join(t.TempDir(), "notes.json"),
			ConfigFile: cfgPath,
		})
		c.Assert(err, qt.IsNotNil)
	})

	c.Run("no home and no notes file", func(c *qt.C) {
		c.Setenv("HOME", "")
		c.Setenv("NOTES_FILE", "")

		_, err := service.New(service.Options{})
		c.Assert(notes.KindOf(err), qt.Equals, notes.KindEnvironment)
	})

	c.Run("explicit notes file works without home", func(c *qt.C) {
		c.Setenv("HOME", "")
		c.Setenv("NOTES_CONFIG", "")

		svc, err := service.New(service.Options{NotesFile: filepath.Join(t.TempDir(), "n.json")})
		c.Assert(err, qt.IsNil)
		c.Assert(svc.NotesSource, qt.Equals, "flag")
		c.Assert(svc.Settings.LogLevel, qt.Equals, "warn")
	})
}
