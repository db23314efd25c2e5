package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"policyexplorer/internal/country"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type reload struct {
	file *country.File
	err  error
}

func newTestWatcher(t *testing.T, path string, ch chan reload) *Watcher {
	t.Helper()
	w, err := New(path, func(f *country.File, err error) {
		ch <- reload{f, err}
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	return w
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func waitReload(t *testing.T, ch chan reload) reload {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return reload{}
	}
}

func TestReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "country.yaml")
	writeFile(t, path, "name: uk\nparameter_hierarchy: {a: [x]}\n")

	ch := make(chan reload, 4)
	w := newTestWatcher(t, path, ch)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeFile(t, path, "name: uk\nparameter_hierarchy: {a: [x, y]}\n")
	r := waitReload(t, ch)
	require.NoError(t, r.err)
	assert.Equal(t, []string{"x", "y"}, country.NewContext(r.file).Resolve("/policy/a"))
	assert.GreaterOrEqual(t, w.Stats().Reloads, 1)
}

func TestReloadReportsParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "country.yaml")
	writeFile(t, path, "name: uk\nparameter_hierarchy: {a: [x]}\n")

	ch := make(chan reload, 4)
	w := newTestWatcher(t, path, ch)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeFile(t, path, "name: [\n")
	r := waitReload(t, ch)
	assert.Error(t, r.err)
	assert.Nil(t, r.file)
	assert.GreaterOrEqual(t, w.Stats().Failures, 1)
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "country.yaml")
	writeFile(t, path, "name: uk\nparameter_hierarchy: {a: [x]}\n")

	ch := make(chan reload, 4)
	w := newTestWatcher(t, path, ch)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "notes.txt"), "hello")
	select {
	case r := <-ch:
		t.Fatalf("unexpected reload: %+v", r)
	case <-time.After(150 * time.Millisecond):
	}
	assert.Zero(t, w.Stats().Events)
}

func TestDebounceCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "country.yaml")
	writeFile(t, path, "name: uk\nparameter_hierarchy: {a: [x]}\n")

	calls := make(chan string, 16)
	w, err := New(path, func(f *country.File, err error) {}, WithDebounce(200*time.Millisecond),
		WithLoader(func(p string) (*country.File, error) {
			calls <- p
			return country.LoadFile(p)
		}))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for i := 0; i < 5; i++ {
		writeFile(t, path, "name: uk\nparameter_hierarchy: {a: [x]}\n")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	select {
	case <-calls:
		t.Fatal("writes were not coalesced")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "country.yaml")
	w, err := New(path, func(*country.File, error) {})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "c.yaml"), func(*country.File, error) {})
	require.NoError(t, err)
	w.Stop()
}

func TestContextCancelEndsLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "country.yaml")
	w, err := New(path, func(*country.File, error) {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()
}

func TestNewRequiresCallback(t *testing.T) {
	_, err := New("country.yaml", nil)
	assert.Error(t, err)
}
