package implementation

import (
	"context"
	"path/filepath"
	"testing"

	"emojiart-be/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteSnapshotRepository(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "emojiart.db"))
	require.NoError(t, err)
	defer db.Close()

	repo, err := NewSqliteSnapshotRepository(db)
	require.NoError(t, err)

	_, found, err := repo.Read(ctx, "PaletteStore:Default")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Write(ctx, "PaletteStore:Default", []byte(`[{"name":"Faces","emojis":"😀","id":1}]`)))
	require.NoError(t, repo.Write(ctx, "PaletteStore:Default", []byte(`[]`)))

	data, found, err := repo.Read(ctx, "PaletteStore:Default")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", string(data))

	// Schema creation is idempotent.
	_, err = NewSqliteSnapshotRepository(db)
	assert.NoError(t, err)
}
