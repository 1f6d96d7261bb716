package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddKeepsNewestFirstAndCaps(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, ToolWhois)
	require.NoError(t, err)

	for i := 0; i < MaxEntries+3; i++ {
		require.NoError(t, l.Add(fmt.Sprintf("site%d.com", i), nil))
	}

	entries := l.Entries()
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, "site12.com", entries[0].Query)
	assert.Equal(t, "site3.com", entries[MaxEntries-1].Query)
}

func TestPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, ToolIP)
	require.NoError(t, err)
	require.NoError(t, l.Add("8.8.8.8", json.RawMessage(`{"abuseConfidenceScore":0}`)))

	again, err := Open(dir, ToolIP)
	require.NoError(t, err)
	entries := again.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "8.8.8.8", entries[0].Query)
	assert.JSONEq(t, `{"abuseConfidenceScore":0}`, string(entries[0].Result))
}

func TestToolsAreIndependent(t *testing.T) {
	dir := t.TempDir()
	whois, err := Open(dir, ToolWhois)
	require.NoError(t, err)
	require.NoError(t, whois.Add("example.com", nil))

	scan, err := Open(dir, ToolScan)
	require.NoError(t, err)
	assert.Empty(t, scan.Entries())
}

func TestClearRemovesFile(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, ToolScan)
	require.NoError(t, err)
	require.NoError(t, l.Add("acme.io", nil))

	require.NoError(t, l.Clear())
	assert.Empty(t, l.Entries())
	_, err = os.Stat(filepath.Join(dir, "scan.json"))
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	assert.NoError(t, l.Clear())
}

func TestCorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "whois.json"), []byte("{not json"), 0o600))

	l, err := Open(dir, ToolWhois)
	require.NoError(t, err)
	assert.Empty(t, l.Entries())
}

func TestOpenRejectsBadKey(t *testing.T) {
	_, err := Open(t.TempDir(), "../etc")
	assert.Error(t, err)
}
