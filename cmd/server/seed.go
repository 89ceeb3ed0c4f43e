package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contactform/internal/model"
)

func newSeedCmd() *cobra.Command {
	var sub model.Submission

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert a submission directly into the relational store",
		Long: `Insert a submission straight into the relational store so that its
(email, phone number) pair is accepted by /login and /submit-form.
The CSV and log files are not written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sub.Email == "" {
				return errors.New("--email is required")
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, closeStore, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			sub.Timestamp = time.Now()
			id, err := store.CreateSubmission(cmd.Context(), &sub)
			if err != nil {
				return fmt.Errorf("failed to seed submission: %w", err)
			}
			logger.Info("Seeded submission",
				zap.Int64("submission_id", id),
				zap.String("email", sub.Email),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&sub.Email, "email", "", "email of the identity (required)")
	cmd.Flags().StringVar(&sub.PhoneNumber, "phone", "", "phone number of the identity")
	cmd.Flags().StringVar(&sub.Name, "name", "seed", "name stored with the row")
	cmd.Flags().StringVar(&sub.Message, "message", "seeded", "message stored with the row")
	cmd.Flags().StringVar(&sub.Service, "service", "", "service stored with the row")
	return cmd
}
