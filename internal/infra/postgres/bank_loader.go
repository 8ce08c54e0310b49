package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"iot-practice-service/internal/domain"
)

// BankLoader loads assignments (questions as JSONB) from Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context, bankID string) ([]domain.Assignment, error) {
	rows, err := l.pool.Query(ctx, `SELECT number, topic, questions FROM assignments WHERE bank_id=$1 ORDER BY number`, bankID)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	defer rows.Close()

	var bank []domain.Assignment
	for rows.Next() {
		var (
			a   domain.Assignment
			raw []byte
		)
		if err := rows.Scan(&a.Number, &a.Topic, &raw); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		if err := json.Unmarshal(raw, &a.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal assignment %d: %w", a.Number, err)
		}
		bank = append(bank, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	if len(bank) == 0 {
		return nil, fmt.Errorf("bank %q: %w", bankID, domain.ErrBankNotFound)
	}
	return bank, nil
}
