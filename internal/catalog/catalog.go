// Package catalog holds the built-in taxonomy of prejudice risk factors.
// The catalog is fixed at compile time; the database copy in
// factor_definitions is seeded from it on startup.
package catalog

import (
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

// Category groups factors under a display name.
type Category struct {
	ID      string
	Name    string
	Factors []Factor
}

// Factor is one catalog entry.
type Factor struct {
	ID       string
	Name     string
	Category string
}

var categories = []Category{
	{
		ID:   types.CategoryRelationship,
		Name: "Relationship-Based",
		Factors: []Factor{
			{ID: "financial-direct", Name: "Direct financial interest"},
			{ID: "financial-indirect", Name: "Indirect financial interest"},
			{ID: "relationship-family", Name: "Family relationship"},
			{ID: "relationship-social", Name: "Social/professional relationship"},
			{ID: "political-contributions", Name: "Political contributions"},
			{ID: "ideological-advocacy", Name: "Prior advocacy on disputed issue"},
		},
	},
	{
		ID:   types.CategoryConduct,
		Name: "Conduct-Based",
		Factors: []Factor{
			{ID: "statements-disparaging", Name: "Disparaging remarks"},
			{ID: "statements-prejudgment", Name: "Expressions indicating prejudgment"},
			{ID: "rulings-onesided", Name: "One-sided evidentiary rulings"},
			{ID: "rulings-unequal", Name: "Unequal allocation of time/resources"},
			{ID: "extrajudicial-public", Name: "Public comments on pending case"},
			{ID: "extrajudicial-media", Name: "Media interviews/social media posts"},
		},
	},
	{
		ID:   types.CategoryContextual,
		Name: "Contextual",
		Factors: []Factor{
			{ID: "historical-consistent", Name: "Consistent rulings favoring similar parties"},
			{ID: "historical-prior", Name: "Prior reversal for bias"},
			{ID: "procedural-deviation", Name: "Deviation from standard procedures"},
			{ID: "procedural-reasoning", Name: "Failure to provide reasoning"},
			{ID: "external-public", Name: "High-profile case with public pressure"},
			{ID: "external-political", Name: "Political implications for judge"},
		},
	},
}

var byID = func() map[string]Factor {
	m := make(map[string]Factor)
	for _, c := range categories {
		for _, f := range c.Factors {
			f.Category = c.ID
			m[f.ID] = f
		}
	}
	return m
}()

// Categories returns the full taxonomy in declaration order.
func Categories() []Category {
	return categories
}

// Find looks a factor up by id.
func Find(factorID string) (Factor, bool) {
	f, ok := byID[factorID]
	return f, ok
}

// CategoryName maps a category id to its display name.
func CategoryName(categoryID string) string {
	for _, c := range categories {
		if c.ID == categoryID {
			return c.Name
		}
	}
	return categoryID
}

// Definitions flattens the catalog into database rows for seeding.
func Definitions() []types.FactorDefinition {
	var defs []types.FactorDefinition
	for _, c := range categories {
		for _, f := range c.Factors {
			defs = append(defs, types.FactorDefinition{
				FactorID: f.ID,
				Name:     f.Name,
				Category: c.ID,
			})
		}
	}
	return defs
}
