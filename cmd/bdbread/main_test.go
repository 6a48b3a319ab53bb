package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/bdbread/internal"
	"github.com/tuannm99/bdbread/internal/btree"
	"github.com/tuannm99/bdbread/internal/page"
	"github.com/tuannm99/bdbread/internal/page/pagetest"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Get(t *testing.T) {
	path := pagetest.WriteFile(t, pagetest.ThreeLeaves())

	code, out, _ := runCLI(t, "get", path, "k05")
	require.Equal(t, 0, code)
	assert.Equal(t, "v05\n", out)

	code, out, _ = runCLI(t, "get", path, "-hex", "6b3039")
	require.Equal(t, 0, code)
	assert.Equal(t, "v09\n", out)

	code, _, errOut := runCLI(t, "get", path, "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "key not found")
}

func TestRun_Scan(t *testing.T) {
	path := pagetest.WriteFile(t, pagetest.TwoPairs())

	code, out, _ := runCLI(t, "scan", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "\"aa\" => \"1\"\n\"bb\" => \"2\"\n", out)

	code, out, _ = runCLI(t, "scan", path, "-limit", "1")
	require.Equal(t, 0, code)
	assert.Equal(t, "\"aa\" => \"1\"\n", out)
}

func TestRun_StatPagesPage(t *testing.T) {
	path := pagetest.WriteFile(t, pagetest.ThreeLeaves())

	code, out, _ := runCLI(t, "stat", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "pages:       5")
	assert.Contains(t, out, "leaf:      3")
	assert.Contains(t, out, "root:        1 (height 2)")
	assert.Contains(t, out, "20 KiB")

	code, out, _ = runCLI(t, "pages", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "page 0: metadata")
	assert.Contains(t, out, "page 4: leaf_btree level=1 entries=6 prev=3 next=0")

	code, out, _ = runCLI(t, "page", path, "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "internal_btree")
	assert.Contains(t, out, `key="k04"`)

	code, _, _ = runCLI(t, "page", path, "99")
	assert.Equal(t, 1, code)
}

func TestRun_Check(t *testing.T) {
	image := pagetest.ThreeLeaves()
	path := pagetest.WriteFile(t, image)

	code, out, _ := runCLI(t, "check", path, "-workers", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "ok")

	image[3*page.Size+25] = byte(page.TypeOverflow)
	path = pagetest.WriteFile(t, image)
	code, out, errOut := runCLI(t, "check", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "overflow")
	assert.Contains(t, errOut, "1 bad pages (1 of an unsupported type)")
}

func TestRun_Usage(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage: bdbread")

	path := pagetest.WriteFile(t, pagetest.TwoPairs())
	code, _, errOut = runCLI(t, "frobnicate", path)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown command")

	code, _, errOut = runCLI(t, "stat", filepath.Join(t.TempDir(), "missing.db"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "open:")
}

func TestRun_ConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("reader:\n  unpaired_entries: strict\n"), 0o644))

	image := pagetest.File(
		pagetest.Meta(0, 1),
		pagetest.Leaf(1, 0, 0, "aa", "1", "bb"),
	)
	path := pagetest.WriteFile(t, image)

	code, _, errOut := runCLI(t, "-config", cfgPath, "get", path, "bb")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "leaf key has no value")

	code, _, errOut = runCLI(t, "get", path, "bb")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "key not found")
}

func TestExecLine(t *testing.T) {
	cfg, err := internal.LoadConfig("")
	require.NoError(t, err)
	db, err := btree.FromBytes(pagetest.TwoPairs(), cfg.ReaderOptions(nil))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var out bytes.Buffer
	a := &app{ctx: context.Background(), cfg: cfg, db: db, out: &out}
	h := NewHistory("")

	quit, err := execLine(a, h, "get bb")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Equal(t, "2\n", out.String())

	out.Reset()
	_, err = execLine(a, h, "gethex 6161")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out.String())

	out.Reset()
	_, err = execLine(a, h, "scan 1")
	require.NoError(t, err)
	assert.Equal(t, "\"aa\" => \"1\"\n", out.String())

	_, err = execLine(a, h, "get zz")
	require.ErrorIs(t, err, btree.ErrNotFound)

	_, err = execLine(a, h, "bogus")
	require.Error(t, err)

	quit, err = execLine(a, h, `\q`)
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history")
	h := NewHistory(path)
	require.NoError(t, h.Load(10))

	require.NoError(t, h.Append("get   a\tb"))
	require.NoError(t, h.Append("  "))
	require.NoError(t, h.Append("scan 3"))

	h2 := NewHistory(path)
	require.NoError(t, h2.Load(1))
	assert.Equal(t, []string{"scan 3"}, h2.lines)

	var out bytes.Buffer
	h.Print(&out, 0)
	assert.Equal(t, "    1  get a b\n    2  scan 3\n", out.String())
}
