package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/retention-api/internal/model"
	apperrors "github.com/jwalitptl/retention-api/pkg/errors"
)

func TestRetentionRuleRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewRetentionRuleRepository(NewBaseRepository(db))
	ctx := context.Background()

	rule := &model.RetentionRule{DataType: model.DataTypeResolvedAlerts, RetentionMonths: 6, IsActive: true}
	id, err := repo.Create(ctx, rule)
	require.NoError(t, err)
	assert.Equal(t, id, rule.RuleID)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.DataTypeResolvedAlerts, got.DataType)
	assert.Equal(t, 6, got.RetentionMonths)
	assert.True(t, got.IsActive)

	got.RetentionMonths = 18
	got.IsActive = false
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 18, updated.RetentionMonths)
	assert.False(t, updated.IsActive)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.Get(ctx, id)
	assert.True(t, apperrors.IsNotFound(err))

	// deleting again is not an error
	assert.NoError(t, repo.Delete(ctx, id))
}

func TestRetentionRuleRepository_CreateRejectsInvalid(t *testing.T) {
	db := newTestDB(t)
	repo := NewRetentionRuleRepository(NewBaseRepository(db))
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.RetentionRule{DataType: "UNKNOWN_TYPE", RetentionMonths: 6, IsActive: true})
	assert.True(t, apperrors.IsValidation(err))

	_, err = repo.Create(ctx, &model.RetentionRule{DataType: model.DataTypeGraduatedStudents, RetentionMonths: 0})
	assert.True(t, apperrors.IsValidation(err))

	rules, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestRetentionRuleRepository_UpdateUnknown(t *testing.T) {
	db := newTestDB(t)
	repo := NewRetentionRuleRepository(NewBaseRepository(db))

	err := repo.Update(context.Background(), &model.RetentionRule{RuleID: 404, RetentionMonths: 3, IsActive: true})
	assert.True(t, apperrors.IsNotFound(err))

	err = repo.Update(context.Background(), &model.RetentionRule{RuleID: 404, RetentionMonths: -1})
	assert.True(t, apperrors.IsValidation(err))
}

func TestRetentionRuleRepository_ListOrdered(t *testing.T) {
	db := newTestDB(t)
	repo := NewRetentionRuleRepository(NewBaseRepository(db))
	ctx := context.Background()

	for _, months := range []int{24, 3, 12} {
		_, err := repo.Create(ctx, &model.RetentionRule{DataType: model.DataTypeResolvedAlerts, RetentionMonths: months})
		require.NoError(t, err)
	}

	rules, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	for i := 1; i < len(rules); i++ {
		assert.Less(t, rules[i-1].RuleID, rules[i].RuleID)
	}
	assert.Equal(t, 24, rules[0].RetentionMonths)
}

func TestRetentionRuleRepository_SeedDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := NewRetentionRuleRepository(NewBaseRepository(db))
	ctx := context.Background()

	require.NoError(t, repo.SeedDefaults(ctx))
	rules, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, model.DataTypeResolvedAlerts, rules[0].DataType)
	assert.Equal(t, 12, rules[0].RetentionMonths)
	assert.Equal(t, model.DataTypeGraduatedStudents, rules[1].DataType)
	assert.Equal(t, 48, rules[1].RetentionMonths)

	// an edited default survives a second seed
	rules[0].RetentionMonths = 6
	require.NoError(t, repo.Update(ctx, rules[0]))
	require.NoError(t, repo.SeedDefaults(ctx))

	rules, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, 6, rules[0].RetentionMonths)
}
