package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stackz/backend/internal/database/repository"
)

// Categories manages the two-level section/leaf taxonomy.
type Categories struct {
	Categories *repository.CategoryRepo
}

// CategoryNode is a category with its children, for hierarchical display.
type CategoryNode struct {
	repository.Category
	Children []CategoryNode `json:"children"`
}

// Tree returns all categories as sections with nested leaves, ordered by
// sort_order at both levels. An orphaned leaf (parent deleted concurrently)
// surfaces as a root rather than disappearing.
func (s *Categories) Tree(ctx context.Context) ([]CategoryNode, error) {
	flat, err := s.Categories.List(ctx)
	if err != nil {
		return nil, err
	}

	byParent := make(map[string][]CategoryNode)
	known := make(map[string]bool, len(flat))
	for _, c := range flat {
		known[c.ID] = true
	}

	var roots []CategoryNode
	for _, c := range flat {
		node := CategoryNode{Category: c}
		if c.ParentID != nil && known[*c.ParentID] {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], node)
			continue
		}
		roots = append(roots, node)
	}
	for i := range roots {
		roots[i].Children = byParent[roots[i].ID]
	}
	return roots, nil
}

// CreateCategoryInput carries fields for a new category.
type CreateCategoryInput struct {
	Name         string
	ParentID     *string
	CategoryType string
	Icon         *string
	Color        *string
	SortOrder    int
}

// Create validates the section/leaf rules before inserting: a parent must
// exist, must itself be a section, and a leaf's type must agree with its
// section's type. The storage layer does not enforce any of this.
func (s *Categories) Create(ctx context.Context, in CreateCategoryInput) (string, error) {
	if in.Name == "" {
		return "", fmt.Errorf("create category: name is required")
	}
	switch in.CategoryType {
	case "income", "expense", "transfer":
	default:
		return "", fmt.Errorf("create category: unknown type %q", in.CategoryType)
	}

	if in.ParentID != nil {
		parent, err := s.Categories.Get(ctx, *in.ParentID)
		if err != nil {
			return "", err
		}
		if parent == nil {
			return "", fmt.Errorf("create category: parent %s not found", *in.ParentID)
		}
		if parent.ParentID != nil {
			return "", fmt.Errorf("create category: parent %s is not a section", parent.ID)
		}
		if parent.CategoryType != in.CategoryType {
			return "", fmt.Errorf("create category: type %q does not match section type %q",
				in.CategoryType, parent.CategoryType)
		}
	}

	id := "cat-" + uuid.NewString()
	err := s.Categories.Upsert(ctx, repository.Category{
		ID:           id,
		Name:         in.Name,
		ParentID:     in.ParentID,
		CategoryType: in.CategoryType,
		Icon:         in.Icon,
		Color:        in.Color,
		SortOrder:    in.SortOrder,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}
