package cmd

import (
	"fmt"
	"time"

	"github.com/jmehdipour/phone-engine/internal/db"
	"github.com/jmehdipour/phone-engine/internal/logger"
	"github.com/jmehdipour/phone-engine/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo API clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sqlDB, err := db.NewMySQLConnection(cfg.MySQL)
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		n, err := seedClients(sqlDB)
		if err != nil {
			return err
		}
		logger.Named("seed").Info("seed completed", zap.Int("clients", n))
		return nil
	},
}

func demoClients() []model.APIClient {
	return []model.APIClient{
		{Name: "Marketplace Web", APIKey: "11111111111111111111111111111111", Status: "active", RateLimitRPS: intptr(50)},
		{Name: "Marketplace Android", APIKey: "22222222222222222222222222222222", Status: "active", RateLimitRPS: intptr(50)},
		{Name: "Marketplace iOS", APIKey: "33333333333333333333333333333333", Status: "active", RateLimitRPS: intptr(50)},
		{Name: "Showroom CRM", APIKey: "44444444444444444444444444444444", Status: "active", RateLimitRPS: intptr(5)},
		{Name: "Retired Partner", APIKey: "55555555555555555555555555555555", Status: "suspended"},
	}
}

// seedClients upserts the demo clients keyed by api_key.
func seedClients(dbx *sqlx.DB) (int, error) {
	const q = `
INSERT INTO api_clients
    (name, api_key, status, rate_limit_rps, created_at, updated_at)
VALUES
    (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    name           = VALUES(name),
    status         = VALUES(status),
    rate_limit_rps = VALUES(rate_limit_rps),
    updated_at     = VALUES(updated_at)
`
	tx, err := dbx.Beginx()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	clients := demoClients()
	now := time.Now()
	for _, c := range clients {
		if _, err := tx.Exec(q, c.Name, c.APIKey, c.Status, c.RateLimitRPS, now, now); err != nil {
			return 0, fmt.Errorf("insert client %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit clients: %w", err)
	}
	return len(clients), nil
}

func intptr(i int) *int { return &i }
