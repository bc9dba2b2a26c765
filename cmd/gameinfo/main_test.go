// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chrootRISCassembler/GameInfo/internal/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pongUUID   = "8f14e45f-ceea-467f-a0e6-b6e9c1b3b3a7"
	tetrisUUID = "c9f0f895-fb98-4b91-9f5e-8a3c7a3f1b2e"
)

// run executes the CLI and returns stdout, stderr and the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `[{"UUID": "`+pongUUID+`", "exe": "pong.exe"}, "skipped"]`)
	bad := writeFile(t, dir, "bad.json", `[{"UUID": "nope", "gameID": -3}]`)
	missing := filepath.Join(dir, "missing.json")

	out, _, err := run(t, "check", good, bad)
	require.NoError(t, err)
	assert.Contains(t, out, good+": 1 records, 0 diagnostics")
	assert.Contains(t, out, bad+": 1 records, 2 diagnostics")
	assert.Contains(t, out, `  [0] UUID: not a UUID: "nope"`)
	assert.Contains(t, out, "  [0] gameID: must be a positive, unique natural number, got -3")
	assert.Less(t, strings.Index(out, good), strings.Index(out, bad), "results keep argument order")

	_, _, err = run(t, "check", "--strict", good, bad)
	assert.ErrorIs(t, err, errDiagnostics)

	out, _, err = run(t, "check", good, missing)
	require.Error(t, err)
	assert.Contains(t, out, missing+": error:")
	assert.Contains(t, err.Error(), "1 of 2 documents")
}

func TestCheck_RejectsNonPositiveJobs(t *testing.T) {
	good := writeFile(t, t.TempDir(), "good.json", `[]`)
	for _, j := range []string{"0", "-2"} {
		_, _, err := run(t, "check", "--jobs="+j, good)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--jobs must be at least 1")
	}

	out, _, err := run(t, "check", "-j", "1", good)
	require.NoError(t, err)
	assert.Contains(t, out, good+": 0 records, 0 diagnostics")
}

func TestCheck_Signature(t *testing.T) {
	dir := t.TempDir()
	sig := writeFile(t, dir, "signature.json", `{"UUID": "`+pongUUID+`", "exe": ""}`)
	out, _, err := run(t, "check", "--signature", sig)
	require.NoError(t, err)
	assert.Contains(t, out, sig+": 1 records, 1 diagnostics")
	assert.Contains(t, out, "  exe: empty string")

	arr := writeFile(t, dir, "array.json", `[]`)
	_, _, err = run(t, "check", "--signature", arr)
	assert.Error(t, err)
}

func TestAddThenQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.json")

	out, _, err := run(t, "add", path, "--exe", "pong/pong.exe", "--name", "Pong",
		"--image", "pong/a.png", "--image", "pong/b.png", "--game-id", "3")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.Len(t, id, 36)

	out, _, err = run(t, "add", path, "--name", "Second")
	require.NoError(t, err)
	second := strings.TrimSpace(out)

	out, _, err = run(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, ": 2 records, 0 diagnostics")

	out, _, err = run(t, "query", path, "--uuid", id, "--fields", "name,imageList,gameID")
	require.NoError(t, err)
	assert.Equal(t, "{name : Pong, imageList : [pong/a.png, pong/b.png], gameID : 3}\n", out)

	out, _, err = run(t, "query", path, "--uuid", second, "--predicate", `{"name": true}`, "--json")
	require.NoError(t, err)
	assert.Equal(t, `{"UUID":"`+second+`","name":"Second"}`+"\n", out)

	out, _, err = run(t, "query", path, "--uuid", id, "--fields", "lastMod")
	require.NoError(t, err)
	assert.Regexp(t, `^\{lastMod : \d{4}-\d\d-\d\dT\d\d:\d\d:\d\dZ\}\n$`, out)
}

func TestQuery_Errors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "games.json", `[{"UUID": "`+pongUUID+`", "name": "Pong"}]`)

	_, _, err := run(t, "query", path, "--uuid", pongUUID)
	assert.ErrorContains(t, err, "exactly one of --fields or --predicate")

	_, _, err = run(t, "query", path, "--uuid", tetrisUUID, "--fields", "name")
	assert.ErrorContains(t, err, "no record with UUID")

	_, _, err = run(t, "query", path, "--uuid", pongUUID, "--predicate", `{"name": 1}`)
	assert.ErrorContains(t, err, "invalid query")

	_, _, err = run(t, "query", path, "--uuid", "xyz", "--fields", "name")
	assert.ErrorContains(t, err, "--uuid")
}

func TestAdd_RejectsBadFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.json")
	_, _, err := run(t, "add", path, "--game-id", "-1")
	assert.ErrorContains(t, err, "--game-id")

	_, _, err = run(t, "add", path, "--image", "")
	assert.ErrorContains(t, err, "--image")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing written on bad input")
}

func TestFmt(t *testing.T) {
	path := writeFile(t, t.TempDir(), "games.json",
		`[{"name": "Pong", "exe": "pong.exe", "UUID": "`+pongUUID+`", "gameID": 0}, 7]`)

	out, _, err := run(t, "fmt", path)
	require.NoError(t, err)
	assert.Equal(t, path+": 1 records rewritten, 1 diagnostics\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"UUID\": \""+pongUUID+"\",\n    \"exe\": \"pong.exe\",\n    \"name\": \"Pong\"\n  }\n]\n", string(data))
}

func TestSignature(t *testing.T) {
	dir := t.TempDir()
	coll := writeFile(t, dir, "games.json", `[{"UUID": "`+pongUUID+`", "exe": "pong/pong.exe", "desc": "paddles"}]`)
	sig := filepath.Join(dir, "pong", "signature.json")

	out, _, err := run(t, "signature", "write", sig, "--from", coll, "--uuid", pongUUID)
	require.NoError(t, err)
	assert.Equal(t, pongUUID+"\n", out)

	out, _, err = run(t, "signature", "read", sig)
	require.NoError(t, err)
	assert.Equal(t, `{"UUID":"`+pongUUID+`","exe":"pong/pong.exe","desc":"paddles"}`+"\n", out)

	fresh := filepath.Join(dir, "fresh.json")
	out, _, err = run(t, "signature", "write", fresh, "--exe", "bin/game", "--name", "Fresh")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	out, stderr, err := run(t, "signature", "read", fresh)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, out, `"UUID":"`+id+`"`)
	assert.Contains(t, out, `"lastMod":`)

	_, _, err = run(t, "signature", "write", fresh, "--from", coll)
	assert.ErrorContains(t, err, "--from and --uuid")
}

func TestSignatureRead_ReportsDiagnostics(t *testing.T) {
	sig := writeFile(t, t.TempDir(), "signature.json", `{"exe": "x.exe"}`)
	out, stderr, err := run(t, "signature", "read", sig)
	require.NoError(t, err)
	assert.Contains(t, stderr, "UUID: missing required identifier")
	assert.Equal(t, `{"UUID":null,"exe":"x.exe"}`+"\n", out)
}

func TestStoreVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.sqlite")
	s, err := docstore.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.WriteText(context.Background(), "games.json", []byte(`[]`)))
	require.NoError(t, s.Close())

	out, _, err := run(t, "store", "verify", "--path", path, "--mode", "full")
	require.NoError(t, err)
	assert.Equal(t, path+": ok (full, schema v1)\n", out)

	_, _, err = run(t, "store", "verify", "--path", path, "--mode", "deep")
	assert.ErrorContains(t, err, "invalid verify mode")

	_, _, err = run(t, "store", "verify")
	assert.ErrorContains(t, err, "--path is required")
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.sqlite")
	t.Setenv("GAMEINFO_STORE_PATH", path)

	out, _, err := run(t, "--backend", "sqlite", "add", "games.json", "--name", "Stored")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	out, _, err = run(t, "--backend", "sqlite", "query", "games.json", "--uuid", id, "--fields", "name")
	require.NoError(t, err)
	assert.Equal(t, "{name : Stored}\n", out)

	_, _, err = run(t, "--backend", "etcd", "check", "games.json")
	assert.ErrorContains(t, err, "store.backend")
}
