package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

func TestCatalogShape(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 3)

	ids := []string{cats[0].ID, cats[1].ID, cats[2].ID}
	assert.Equal(t, []string{types.CategoryRelationship, types.CategoryConduct, types.CategoryContextual}, ids)

	seen := map[string]bool{}
	for _, c := range cats {
		assert.Len(t, c.Factors, 6, "category %s", c.ID)
		for _, f := range c.Factors {
			assert.False(t, seen[f.ID], "duplicate factor id %s", f.ID)
			seen[f.ID] = true
		}
	}
	assert.Len(t, seen, 18)
}

func TestFind(t *testing.T) {
	f, ok := Find("financial-direct")
	require.True(t, ok)
	assert.Equal(t, "Direct financial interest", f.Name)
	assert.Equal(t, types.CategoryRelationship, f.Category)

	_, ok = Find("no-such-factor")
	assert.False(t, ok)
}

func TestDefinitionsSeedRows(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, 18)
	for _, d := range defs {
		assert.NotEmpty(t, d.FactorID)
		assert.NotEmpty(t, d.Name)
		assert.NotEmpty(t, d.Category)
	}
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "Conduct-Based", CategoryName(types.CategoryConduct))
	assert.Equal(t, "mystery", CategoryName("mystery"))
}
