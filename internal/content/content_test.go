package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSiteLoads(t *testing.T) {
	site, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "shifra_db", site.Database)
	assert.NotEmpty(t, site.Projects)
	assert.NotEmpty(t, site.Appearances)
	assert.NotEmpty(t, site.Skills)
	assert.Equal(t, []string{"DevRel", "Data Scientist", "Technical Writer", "Educator"}, site.TypingRoles)

	domains := site.Skills[0]
	assert.Equal(t, "Domains", domains.Title)
	assert.Contains(t, domains.Skills, "Data science")
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("name: x\nbogus: 1\n"))
	require.Error(t, err)
}

func TestValidateCollectsProblems(t *testing.T) {
	site := &Site{
		Appearances: []Engagement{{Link: &Link{URL: "a"}, Links: []Link{{URL: "b"}}}},
	}
	err := site.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "appearances[0]: title is required")
	assert.Contains(t, err.Error(), "link and links are exclusive")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Test
projects:
  - title: One
    description: first
    links: [{type: github, url: "https://github.com/x"}]
`), 0o644))

	site, err := Load(path)
	require.NoError(t, err)
	want := []Project{{
		Title:       "One",
		Description: "first",
		Links:       []Link{{Type: "github", URL: "https://github.com/x"}},
	}}
	if diff := cmp.Diff(want, site.Projects); diff != "" {
		t.Errorf("projects mismatch (-want +got):\n%s", diff)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestBulletsRenderLinksInNewTab(t *testing.T) {
	exp := Experience{Description: "● Manage [Saturdata](https://saturdata.github.io/), the podcast.\n\n● Raw <a href=\"https://x\">anchor</a> kept"}
	bullets, err := exp.Bullets()
	require.NoError(t, err)
	require.Len(t, bullets, 2)
	assert.Equal(t,
		`● Manage <a href="https://saturdata.github.io/" target="_blank" rel="noopener noreferrer">Saturdata</a>, the podcast.`,
		string(bullets[0]))
	assert.Contains(t, string(bullets[1]), `<a href="https://x">anchor</a>`)
}

func TestShortDate(t *testing.T) {
	assert.Equal(t, "Sep 2021", ShortDate("September 2021"))
	assert.Equal(t, "May 2024", ShortDate("May 2024"))
	assert.Equal(t, "Present", ShortDate("Present"))
}

func TestCatalogReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: First\n"), 0o644))

	cat, err := NewCatalog(path, nil)
	require.NoError(t, err)
	var seen []string
	cat.OnReload(func(s *Site) { seen = append(seen, s.Name) })

	require.NoError(t, os.WriteFile(path, []byte("name: [broken\n"), 0o644))
	require.Error(t, cat.Reload())
	assert.Equal(t, "First", cat.Current().Name)

	require.NoError(t, os.WriteFile(path, []byte("name: Second\n"), 0o644))
	require.NoError(t, cat.Reload())
	assert.Equal(t, "Second", cat.Current().Name)
	assert.Equal(t, []string{"Second"}, seen)
}

func TestCatalogWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Before\n"), 0o644))
	cat, err := NewCatalog(path, nil)
	require.NoError(t, err)

	reloaded := make(chan string, 4)
	cat.OnReload(func(s *Site) { reloaded <- s.Name })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cat.Watch(ctx, 20*time.Millisecond) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("name: After\n"), 0o644))

	select {
	case name := <-reloaded:
		assert.Equal(t, "After", name)
	case <-time.After(5 * time.Second):
		t.Fatal("catalog did not reload")
	}
	cancel()
	require.NoError(t, <-done)
}
