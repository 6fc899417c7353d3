package frameworks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziadkadry99/greencode/internal/config"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestDetectDjangoHighConfidence(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "manage.py"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "migrations"), 0755))

	got := Detect(root, []string{"Python"}, []string{"Django", "requests"}, config.DefaultFrameworkRules)

	require.Contains(t, got, "django")
	ev := got["django"]
	assert.Equal(t, ConfidenceHigh, ev.Confidence)
	assert.Equal(t, "Python", ev.Language)
	assert.Equal(t, []string{"dependency: django", "file: manage.py", "dir: migrations"}, ev.Evidence)
}

func TestDetectSingleIndicatorIsMedium(t *testing.T) {
	root := t.TempDir()
	got := Detect(root, []string{"Python"}, []string{"flask==3.0"}, config.DefaultFrameworkRules)

	require.Contains(t, got, "flask")
	assert.Equal(t, ConfidenceMedium, got["flask"].Confidence)
	assert.NotContains(t, got, "django")
}

func TestDetectOnlyTestsPresentLanguages(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "manage.py"))

	got := Detect(root, []string{"Go"}, []string{"django"}, config.DefaultFrameworkRules)
	assert.NotContains(t, got, "django")
}

func TestDetectLanguageFamilies(t *testing.T) {
	root := t.TempDir()
	got := Detect(root, []string{"TypeScript"}, []string{"react", "react-dom"}, config.DefaultFrameworkRules)
	assert.Contains(t, got, "react")
}

func TestDetectNothing(t *testing.T) {
	got := Detect(t.TempDir(), nil, nil, config.DefaultFrameworkRules)
	assert.Empty(t, got)
	assert.Empty(t, Names(got))
}

func TestNamesSorted(t *testing.T) {
	detected := map[string]Evidence{"vue": {}, "express": {}, "react": {}}
	assert.Equal(t, []string{"express", "react", "vue"}, Names(detected))
}

func TestDetectCountsEveryMarker(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "android"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ios"), 0755))

	got := Detect(root, []string{"Dart"}, nil, config.DefaultFrameworkRules)

	require.Contains(t, got, "flutter")
	assert.Equal(t, ConfidenceHigh, got["flutter"].Confidence)
	assert.Equal(t, []string{"dir: android", "dir: ios"}, got["flutter"].Evidence)
}

func TestDetectCountsBothMarkerFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "next.config.js"))
	touch(t, filepath.Join(root, "next.config.mjs"))

	got := Detect(root, []string{"JavaScript"}, nil, config.DefaultFrameworkRules)

	require.Contains(t, got, "nextjs")
	assert.Equal(t, ConfidenceHigh, got["nextjs"].Confidence)
	assert.Len(t, got["nextjs"].Evidence, 2)
}

func TestDetectDependencyCountedOnce(t *testing.T) {
	rules := []config.FrameworkRule{
		{Name: "tensorflow", Language: "Python", Dependencies: []string{"tensorflow", "keras"}},
	}

	one := Detect(t.TempDir(), []string{"Python"}, []string{"tensorflow-keras"}, rules)
	require.Contains(t, one, "tensorflow")
	assert.Equal(t, ConfidenceMedium, one["tensorflow"].Confidence)
	assert.Equal(t, []string{"dependency: tensorflow-keras"}, one["tensorflow"].Evidence)

	two := Detect(t.TempDir(), []string{"Python"}, []string{"tensorflow", "keras"}, rules)
	assert.Equal(t, ConfidenceHigh, two["tensorflow"].Confidence)
}
