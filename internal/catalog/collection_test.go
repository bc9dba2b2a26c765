// SPDX-License-Identifier: MIT

package catalog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/chrootRISCassembler/GameInfo/internal/docstore"
	"github.com/chrootRISCassembler/GameInfo/internal/game"
	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/chrootRISCassembler/GameInfo/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uuidA = "8f14e45f-ceea-467f-a0e6-b6e9c1b3b3a7"
	uuidB = "c9f0f895-fb98-4b91-9f5e-8a3c7a3f1b2e"
)

func sampleRecords() []*game.Record {
	return []*game.Record{
		game.New().SetExe("pong/pong.exe").SetName("Pong").SetGameID(1).
			SetLastMod(time.Date(2018, 4, 1, 0, 0, 0, 0, time.UTC)),
		game.New().SetExe("tetris/tetris.exe").SetImageList([]game.Path{"t/1.png", "t/2.png"}),
		game.New().SetName("Duplicate").SetDesc("same name twice"),
	}
}

func encodedRecords(t *testing.T, records []*game.Record) []string {
	t.Helper()
	out := make([]string, len(records))
	for i, r := range records {
		data, err := game.EncodeJSON(r)
		require.NoError(t, err)
		out[i] = string(data)
	}
	return out
}

func TestLoad_SkipsNonObjects(t *testing.T) {
	records, diags, err := Load([]byte(`[{"UUID": "` + uuidA + `"}, "garbage"]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, diags)
	assert.Equal(t, uuidA, records[0].UUID().String())
}

func TestLoad_DiagnosticPositions(t *testing.T) {
	doc := `[
		42,
		{"UUID": "` + uuidA + `", "gameID": -3},
		null,
		{"name": "no id", "imageList": ["a.png", 7]}
	]`
	records, diags, err := Load([]byte(doc))
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Len(t, diags, 3)

	assert.Equal(t, 1, diags[0].Position)
	assert.Equal(t, game.FieldGameID, diags[0].Field)
	assert.Equal(t, 3, diags[1].Position)
	assert.Equal(t, game.KindMissing, diags[1].Kind)
	assert.Equal(t, 3, diags[2].Position)
	assert.Equal(t, game.KindBadElement, diags[2].Kind)
	assert.Equal(t, "[3] imageList[1]: expected path string, got number", diags[2].String())
	assert.Equal(t, diags[2].String(), diags[2].Error())

	assert.Equal(t, []game.Path{"a.png"}, records[1].ImageList())
}

func TestLoad_Errors(t *testing.T) {
	for _, doc := range []string{`{}`, `"x"`, `null`, `1`} {
		_, _, err := Load([]byte(doc))
		assert.ErrorIs(t, err, ErrNotArray, doc)
	}
	_, _, err := Load([]byte(`[{`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotArray)

	records, diags, err := Load([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, diags)
}

func TestSave_OrderAndFormat(t *testing.T) {
	records := sampleRecords()
	records = append(records, records[0])

	data, err := Save(records)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("[\n  {\n    \"UUID\": ")), string(data))
	assert.True(t, bytes.HasSuffix(data, []byte("]\n")))

	var generic []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &generic))
	require.Len(t, generic, len(records))

	back, diags, err := Load(data)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, encodedRecords(t, records), encodedRecords(t, back))
}

func TestSave_Empty(t *testing.T) {
	data, err := Save(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	_, err = Save([]*game.Record{nil})
	assert.Error(t, err)
}

func TestCollection_ReadWrite(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	coll := NewCollection(store, "games.json")
	assert.Equal(t, "games.json", coll.Location())

	_, _, err := coll.Read(ctx)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	records := sampleRecords()
	require.NoError(t, coll.Write(ctx, records))

	back, diags, err := coll.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, diags)
	if diff := cmp.Diff(encodedRecords(t, records), encodedRecords(t, back)); diff != "" {
		t.Errorf("collection mismatch (-want +got):\n%s", diff)
	}
}

func TestCollection_ReadNotArray(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	require.NoError(t, store.WriteText(ctx, "games.json", []byte(`{"UUID": "`+uuidA+`"}`)))

	_, _, err := NewCollection(store, "games.json").Read(ctx)
	assert.ErrorIs(t, err, ErrNotArray)
	assert.ErrorContains(t, err, "games.json")
}

func TestCollection_LogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	gilog.Reset(gilog.Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { gilog.Reset(gilog.Config{}) })

	ctx := context.Background()
	store := docstore.NewMemoryStore()
	require.NoError(t, store.WriteText(ctx, "games.json", []byte(`[{"UUID": "`+uuidA+`", "movieList": [1]}]`)))

	_, diags, err := NewCollection(store, "games.json").Read(ctx)
	require.NoError(t, err)
	require.Len(t, diags, 1)

	var warn map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		if entry["level"] == "warn" {
			warn = entry
		}
	}
	require.NotNil(t, warn, buf.String())
	assert.Equal(t, "catalog", warn[gilog.FieldComponent])
	assert.Equal(t, "games.json", warn[gilog.FieldLocation])
	assert.Equal(t, "movieList", warn[gilog.FieldField])
	assert.Equal(t, "bad_element", warn[gilog.FieldKind])
	assert.EqualValues(t, 0, warn[gilog.FieldPosition])
	assert.EqualValues(t, 0, warn[gilog.FieldIndex])
	assert.Equal(t, "expected path string, got number", warn["message"])
}

func TestLoad_Fixture(t *testing.T) {
	records, diags, err := Load(testutil.Fixture(t, "games.json"))
	require.NoError(t, err)
	require.Len(t, records, 3)

	var got []string
	for _, d := range diags {
		got = append(got, d.String())
	}
	assert.Equal(t, []string{
		"[1] imageList[1]: expected path string, got number",
		"[1] gameID: must be a positive, unique natural number, got -2",
		"[3] UUID: missing required identifier",
		"[3] exe: empty string",
	}, got)

	mod, ok := records[1].LastMod()
	require.True(t, ok)
	assert.Equal(t, "2018-04-02T00:00:00Z", game.FormatInstant(mod))
	assert.Equal(t, []game.Path{"games/blocks/a.png"}, records[1].ImageList())

	name, _ := records[2].Name()
	assert.Equal(t, "Unregistered", name)
}
