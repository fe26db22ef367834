package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dantetripodi/gestor-perfumes/internal/model"
)

func TestDecodeCollectionMalformedFallsBackToEmpty(t *testing.T) {
	items, ok := decodeCollection[model.Product]("snapshot:products", []byte(`{"not":"a list"`))
	assert.False(t, ok)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDecodeCollectionNullPayload(t *testing.T) {
	items, ok := decodeCollection[model.Sale]("snapshot:sales", []byte(`null`))
	assert.True(t, ok)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDecodeCollectionRoundTrip(t *testing.T) {
	items, ok := decodeCollection[model.Product]("snapshot:products", []byte(`[{"Name":"Sauvage","CurrentStock":10}]`))
	assert.True(t, ok)
	assert.Len(t, items, 1)
	assert.Equal(t, "Sauvage", items[0].Name)
	assert.Equal(t, 10, items[0].CurrentStock)
}

func TestDisabledCacheIsInert(t *testing.T) {
	var c *Cache

	c.Save(context.Background(), nil, nil, nil)

	_, _, _, ok := c.Load(context.Background())
	assert.False(t, ok)

	c = New(nil)
	_, _, _, ok = c.Load(context.Background())
	assert.False(t, ok)
}
