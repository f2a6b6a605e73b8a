package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_CRUD(t *testing.T) {
	h := newHarness(t)
	svc := NewItemService(h.db, h.rm)
	ctx := context.Background()

	h.expectTx(true)
	item, err := svc.Create(ctx, models.Item{ID: "ignored", Name: "Foo", Price: 10, Tax: ptr(1.5)})
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", item.ID)

	h.expectTx(true)
	updated, err := svc.Update(ctx, item.ID, models.ItemPatch{Price: ptr(12.0)})
	require.NoError(t, err)
	assert.Equal(t, "Foo", updated.Name)
	assert.Equal(t, 12.0, updated.Price)
	assert.Equal(t, 1.5, *updated.Tax)

	list, err := svc.List(ctx, models.ItemFilter{Name: ptr("fo")}, models.Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	h.expectTx(true)
	require.NoError(t, svc.Delete(ctx, item.ID))

	_, err = svc.Get(ctx, item.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Item not found", common.MessageOf(err))
}

func TestItemService_UpdateMissing(t *testing.T) {
	h := newHarness(t)
	svc := NewItemService(h.db, h.rm)
	h.expectTx(false)

	_, err := svc.Update(context.Background(), "nope", models.ItemPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, common.ErrNotFound)
}
