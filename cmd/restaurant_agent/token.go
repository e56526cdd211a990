package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jordan/restaurant-collector/internal/config"
	"github.com/jordan/restaurant-collector/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an operator token for the purge endpoint",
	Long: `Generates a signed bearer token using JWT_SECRET. Pass the token in the
Authorization header when calling DELETE /restaurants.`,
	RunE: runToken,
}

var tokenUserID string

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "Operator ID to embed in the token (default: a fresh UUID)")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	operatorID := uuid.New()
	if tokenUserID != "" {
		operatorID, err = uuid.Parse(tokenUserID)
		if err != nil {
			return fmt.Errorf("invalid --user-id: %w", err)
		}
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(operatorID)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Println(token)
	return nil
}
