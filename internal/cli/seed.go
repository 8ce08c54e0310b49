package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"iot-practice-service/internal/app"
	"iot-practice-service/internal/config"
	"iot-practice-service/internal/domain"
	"iot-practice-service/internal/infra/memory"
	pgstore "iot-practice-service/internal/infra/postgres"
)

// NewSeedCmd loads a JSON question bank into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file, bankID string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Validate a JSON question bank and upsert it into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, file, bankID)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON bank to load (defaults to the embedded sample bank)")
	cmd.Flags().StringVar(&bankID, "bank", "", "bank id to store under (defaults to bank.id from config)")
	return cmd
}

func runSeed(ctx context.Context, configPath, file, bankID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	bank, err := loadBank(file)
	if err != nil {
		return err
	}
	if bankID == "" {
		bankID = bankIDFor(cfg)
	}

	db := openBunDB(cfg.Postgres.URL)
	defer db.Close()

	if err := pgstore.SeedBank(ctx, db, bankID, bank); err != nil {
		return err
	}
	log.Printf("seeded bank %q: %d assignments, %d questions", bankID, len(bank), domain.QuestionCount(bank))
	return nil
}

// loadBank reads a bank file, or returns the embedded sample when file is empty.
func loadBank(file string) ([]domain.Assignment, error) {
	if file == "" {
		return memory.DefaultBank(), nil
	}
	bank, err := memory.LoadBankFile(file)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	return bank, nil
}

func bankIDFor(cfg config.Config) string {
	if cfg.Bank.ID != "" {
		return cfg.Bank.ID
	}
	return app.DefaultBankID
}
