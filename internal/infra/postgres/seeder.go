package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"iot-practice-service/internal/domain"
)

type assignmentRow struct {
	bun.BaseModel `bun:"table:assignments"`

	BankID    string            `bun:"bank_id,pk"`
	Number    int               `bun:"number,pk"`
	Topic     string            `bun:"topic,notnull"`
	Questions []domain.Question `bun:"questions,type:jsonb,notnull"`
}

// SeedBank validates bank and upserts one row per assignment.
func SeedBank(ctx context.Context, db *bun.DB, bankID string, bank []domain.Assignment) error {
	if err := domain.ValidateBank(bank); err != nil {
		return err
	}
	if len(bank) == 0 {
		return fmt.Errorf("seed %q: empty bank", bankID)
	}

	rows := make([]assignmentRow, len(bank))
	for i, a := range bank {
		questions := a.Questions
		if questions == nil {
			questions = []domain.Question{}
		}
		rows[i] = assignmentRow{BankID: bankID, Number: a.Number, Topic: a.Topic, Questions: questions}
	}

	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (bank_id, number) DO UPDATE").
		Set("topic = EXCLUDED.topic").
		Set("questions = EXCLUDED.questions").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("seed %q: %w", bankID, err)
	}
	return nil
}
