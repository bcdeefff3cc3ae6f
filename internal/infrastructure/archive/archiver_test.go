package archive

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezerve/internal/core/types"
	"rezerve/internal/domain/reports"
)

func writeArtifact(t *testing.T, dir, name string, artifact Artifact) {
	t.Helper()

	raw, err := json.Marshal(artifact)
	require.NoError(t, err)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), enc.EncodeAll(raw, nil), 0o644))
}

func TestListAndReadArchives(t *testing.T) {
	dir := t.TempDir()
	a, err := New(dir, nil, nil, nil)
	require.NoError(t, err)

	artifact := Artifact{
		BranchName:  "Merkez",
		Year:        2026,
		Month:       7,
		GeneratedAt: time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC),
		Summary: reports.AggregateResult{
			ActiveCount:   12,
			ActiveRevenue: types.MustMoney("14400.00"),
		},
	}
	writeArtifact(t, dir, "Merkez_2026_07.json.zst", artifact)
	writeArtifact(t, dir, "Lara_2026_08.json.zst", Artifact{BranchName: "Lara", Year: 2026, Month: 8})

	// Non-artifact files are skipped, not errors.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	ctx := context.Background()
	infos, err := a.ListArchives(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	// Newest first.
	assert.Equal(t, "Lara", infos[0].BranchName)
	assert.Equal(t, 8, infos[0].Month)
	assert.Equal(t, "Merkez", infos[1].BranchName)
	assert.Equal(t, 2026, infos[1].Year)
	assert.Equal(t, 7, infos[1].Month)

	got, err := a.ReadArchive(ctx, "Merkez_2026_07.json.zst")
	require.NoError(t, err)
	assert.Equal(t, "Merkez", got.BranchName)
	assert.Equal(t, 12, got.Summary.ActiveCount)
	assert.True(t, got.Summary.ActiveRevenue.Equal(types.MustMoney("14400.00")))
}

func TestReadArchiveRejectsTraversal(t *testing.T) {
	a, err := New(t.TempDir(), nil, nil, nil)
	require.NoError(t, err)

	ctx := context.Background()
	for _, name := range []string{"../secret.json.zst", "dir/inner.json.zst", "plain.json"} {
		_, err := a.ReadArchive(ctx, name)
		assert.Error(t, err, "name %q", name)
	}
}

func TestParseArchiveName(t *testing.T) {
	info, err := parseArchiveName("Lara_Sahil_2026_07.json.zst")
	require.NoError(t, err)

	// Underscores in the branch name survive the round trip.
	assert.Equal(t, "Lara_Sahil", info.BranchName)
	assert.Equal(t, 2026, info.Year)
	assert.Equal(t, 7, info.Month)

	_, err = parseArchiveName("garbage.json.zst")
	assert.Error(t, err)
}
