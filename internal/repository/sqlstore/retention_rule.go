package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/retention-api/internal/model"
	"github.com/jwalitptl/retention-api/internal/repository"
	apperrors "github.com/jwalitptl/retention-api/pkg/errors"
)

type retentionRuleRepository struct {
	BaseRepository
}

func NewRetentionRuleRepository(base BaseRepository) repository.RetentionRuleRepository {
	return &retentionRuleRepository{base}
}

func (r *retentionRuleRepository) Create(ctx context.Context, rule *model.RetentionRule) (int64, error) {
	if err := rule.Validate(); err != nil {
		return 0, err
	}

	query := r.db.Rebind(`
		INSERT INTO retention_rule (data_type, retention_months, is_active)
		VALUES (?, ?, ?)
		RETURNING rule_id
	`)

	var id int64
	if err := r.db.GetContext(ctx, &id, query, rule.DataType, rule.RetentionMonths, rule.IsActive); err != nil {
		return 0, apperrors.NewStorage("create retention rule", err)
	}

	rule.RuleID = id
	return id, nil
}

func (r *retentionRuleRepository) Get(ctx context.Context, id int64) (*model.RetentionRule, error) {
	query := r.db.Rebind(`
		SELECT rule_id, data_type, retention_months, is_active
		FROM retention_rule
		WHERE rule_id = ?
	`)

	var rule model.RetentionRule
	if err := r.db.GetContext(ctx, &rule, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("retention rule", nil)
		}
		return nil, apperrors.NewStorage("get retention rule", err)
	}
	return &rule, nil
}

func (r *retentionRuleRepository) List(ctx context.Context) ([]*model.RetentionRule, error) {
	query := `
		SELECT rule_id, data_type, retention_months, is_active
		FROM retention_rule
		ORDER BY rule_id
	`

	rules := []*model.RetentionRule{}
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, apperrors.NewStorage("list retention rules", err)
	}
	return rules, nil
}

func (r *retentionRuleRepository) Update(ctx context.Context, rule *model.RetentionRule) error {
	if err := model.ValidateMonths(rule.RetentionMonths); err != nil {
		return err
	}

	query := r.db.Rebind(`
		UPDATE retention_rule
		SET retention_months = ?, is_active = ?
		WHERE rule_id = ?
	`)

	result, err := r.db.ExecContext(ctx, query, rule.RetentionMonths, rule.IsActive, rule.RuleID)
	if err != nil {
		return apperrors.NewStorage("update retention rule", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStorage("update retention rule", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("retention rule", nil)
	}

	return nil
}

func (r *retentionRuleRepository) Delete(ctx context.Context, id int64) error {
	query := r.db.Rebind(`DELETE FROM retention_rule WHERE rule_id = ?`)

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return apperrors.NewStorage("delete retention rule", err)
	}
	return nil
}

// SeedDefaults inserts each default rule whose data type has no rule yet.
// Existing rules, including edited defaults, are left alone.
func (r *retentionRuleRepository) SeedDefaults(ctx context.Context) error {
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		countQuery := tx.Rebind(`SELECT COUNT(*) FROM retention_rule WHERE data_type = ?`)
		insertQuery := tx.Rebind(`
			INSERT INTO retention_rule (data_type, retention_months, is_active)
			VALUES (?, ?, ?)
		`)

		for _, rule := range model.DefaultRules() {
			var n int
			if err := tx.GetContext(ctx, &n, countQuery, rule.DataType); err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx, insertQuery, rule.DataType, rule.RetentionMonths, rule.IsActive); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.NewStorage("seed default retention rules", err)
	}
	return nil
}
