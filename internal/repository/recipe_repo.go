package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasukras-star/Apotikme-sub004/internal/model"
)

type RecipeRepository interface {
	Create(ctx context.Context, r *model.CompoundingRecipe) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CompoundingRecipe, error)
	List(ctx context.Context) ([]model.CompoundingRecipe, error)
}

type recipeRepo struct{ db *gorm.DB }

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepo{db: db} }

func (r *recipeRepo) Create(ctx context.Context, rec *model.CompoundingRecipe) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recipeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CompoundingRecipe, error) {
	var rec model.CompoundingRecipe
	err := r.db.WithContext(ctx).Where("active = true").First(&rec, id).Error
	return &rec, err
}

func (r *recipeRepo) List(ctx context.Context) ([]model.CompoundingRecipe, error) {
	var recipes []model.CompoundingRecipe
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&recipes).Error
	return recipes, err
}
