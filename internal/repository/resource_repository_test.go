package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/domain"
)

func TestResourceRepository_FindChildren(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	root := &domain.ResourceItem{Name: "Guides", Type: domain.ResourceFolder, AccessLevel: domain.AccessPublic}
	require.NoError(t, repo.Create(ctx, root))

	child := &domain.ResourceItem{Name: "intro.pdf", Type: domain.ResourceFile, ParentID: &root.ID, AccessLevel: domain.AccessLearner}
	require.NoError(t, repo.Create(ctx, child))

	roots, err := repo.FindChildren(ctx, nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, root.ID, roots[0].ID)

	children, err := repo.FindChildren(ctx, &root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "intro.pdf", children[0].Name)

	count, err := repo.CountChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestResourceRepository_RenameAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	item := &domain.ResourceItem{Name: "old", Type: domain.ResourceFolder, AccessLevel: domain.AccessPublic}
	require.NoError(t, repo.Create(ctx, item))

	require.NoError(t, repo.Rename(ctx, item.ID, "new"))
	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", found.Name)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.FindByID(ctx, item.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = repo.Rename(ctx, uuid.New(), "x")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	err = repo.Delete(ctx, uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
