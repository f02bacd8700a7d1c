package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/anvilmerge/internal/game/enchant"
	"github.com/udisondev/anvilmerge/internal/model"
)

// MergeRepository stores the log of handled anvil merges.
type MergeRepository struct {
	db *pgxpool.Pool
}

// NewMergeRepository creates a new MergeRepository.
func NewMergeRepository(db *pgxpool.Pool) *MergeRepository {
	return &MergeRepository{db: db}
}

// Record inserts a merge record. The host fires prepare events repeatedly
// for an unchanged anvil; a repeat of the same request in the same session
// is ignored.
func (r *MergeRepository) Record(ctx context.Context, rec model.MergeRecord) error {
	merged := rec.Merged.Names()

	_, err := r.db.Exec(ctx, `
		INSERT INTO merge_log
			(id, player, session_id, fingerprint, merged, total_cost, penalty, has_conflicts, allowed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_id, fingerprint) DO NOTHING`,
		rec.ID, rec.Player, rec.Session, rec.Fingerprint, merged,
		rec.TotalCost, rec.Penalty, rec.HasConflicts, rec.Allowed, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting merge record for %q: %w", rec.Player, err)
	}
	return nil
}

// Recent returns up to limit records for player, newest first.
func (r *MergeRepository) Recent(ctx context.Context, player string, limit int) ([]model.MergeRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, player, session_id, fingerprint, merged, total_cost, penalty, has_conflicts, allowed, created_at
		FROM merge_log
		WHERE player = $1
		ORDER BY created_at DESC, id
		LIMIT $2`, player, limit)
	if err != nil {
		return nil, fmt.Errorf("querying merges for %q: %w", player, err)
	}
	defer rows.Close()

	records := make([]model.MergeRecord, 0, limit)
	for rows.Next() {
		var rec model.MergeRecord
		var merged map[string]int

		if err := rows.Scan(
			&rec.ID, &rec.Player, &rec.Session, &rec.Fingerprint, &merged,
			&rec.TotalCost, &rec.Penalty, &rec.HasConflicts, &rec.Allowed, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning merge row: %w", err)
		}

		rec.Merged, err = enchant.ParseProfile(merged)
		if err != nil {
			return nil, fmt.Errorf("decoding merged enchantments of %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating merge rows: %w", err)
	}

	return records, nil
}

// CountByPlayer returns how many merges are logged for player.
func (r *MergeRepository) CountByPlayer(ctx context.Context, player string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM merge_log WHERE player = $1`, player,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting merges for %q: %w", player, err)
	}
	return n, nil
}
