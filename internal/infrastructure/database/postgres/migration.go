// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	"fmt"

	"github.com/estim-games/estim-api/internal/domain/catalog"
	"github.com/estim-games/estim-api/internal/domain/order"
	"github.com/estim-games/estim-api/internal/domain/user"
	"github.com/estim-games/estim-api/internal/pkg/auth"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration handles schema migrations and development seed data
type Migration struct {
	db        *gorm.DB
	passwords *auth.PasswordManager
	logger    logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, passwords *auth.PasswordManager, logger logrus.FieldLogger) *Migration {
	return &Migration{
		db:        db,
		passwords: passwords,
		logger:    logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("🔄 Running database auto-migrations...")

	models := []interface{}{
		&user.User{},
		&catalog.Game{},
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates the composite indexes used by catalog listings and
// order history.
// Failures are logged and counted, never fatal.
func (m *Migration) CreateIndexes() (created, failed int) {
	m.logger.Info("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_username_active ON users(username, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",

		"CREATE INDEX IF NOT EXISTS idx_games_published_rating ON games(is_published, average_rating DESC, title)",
		"CREATE INDEX IF NOT EXISTS idx_games_published_popularity ON games(is_published, average_rating DESC, download_count DESC)",
		"CREATE INDEX IF NOT EXISTS idx_games_published_release ON games(is_published, release_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_games_published_created ON games(is_published, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_games_price ON games(price)",

		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("⚠️ Failed to create index")
			failed++
			continue
		}
		created++
	}

	m.logger.Infof("✅ Created %d indexes successfully (%d failed)", created, failed)
	return created, failed
}

// SeedInitialData inserts the development accounts and sample catalog
func (m *Migration) SeedInitialData(ctx context.Context) error {
	m.logger.Info("🌱 Seeding initial data...")

	if err := m.seedUser(ctx, "admin", "admin@estim.dev", "Admin12345", true); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := m.seedUser(ctx, "tester", "tester@estim.dev", "Tester12345", false); err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}

	if _, err := m.SeedGames(ctx); err != nil {
		return fmt.Errorf("failed to seed games: %w", err)
	}

	m.logger.Info("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedUser(ctx context.Context, username, email, password string, admin bool) error {
	var count int64
	if err := m.db.WithContext(ctx).Model(&user.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		m.logger.Infof("⏭️ User already exists: %s", username)
		return nil
	}

	hashed, err := m.passwords.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u := user.User{
		Username: username,
		Email:    email,
		Password: hashed,
		IsActive: true,
		IsAdmin:  admin,
	}
	if err := m.db.WithContext(ctx).Create(&u).Error; err != nil {
		return err
	}

	m.logger.Infof("👤 Created user: %s (password: %s)", username, password)
	return nil
}

// SeedGames inserts the sample catalog when the games table is empty and
// returns the number of games inserted.
func (m *Migration) SeedGames(ctx context.Context) (int, error) {
	var existing int64
	if err := m.db.WithContext(ctx).Model(&catalog.Game{}).Count(&existing).Error; err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	if existing > 0 {
		m.logger.Infof("⏭️ %d games already present, skipping seed", existing)
		return 0, nil
	}

	games := sampleGames()
	if err := m.db.WithContext(ctx).Create(&games).Error; err != nil {
		return 0, fmt.Errorf("failed to insert sample games: %w", err)
	}

	for _, g := range games {
		m.logger.WithField("game_id", g.ID.String()).Infof("🎮 %s", g.Title)
	}
	m.logger.Infof("✅ Inserted %d sample games", len(games))

	return len(games), nil
}

// TableInfo is the row count of one table
type TableInfo struct {
	Name    string `json:"name"`
	Records int64  `json:"records"`
}

// GetTableInfo logs and returns the row count of every table
func (m *Migration) GetTableInfo() ([]TableInfo, error) {
	tables, err := m.db.Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	info := make([]TableInfo, 0, len(tables))
	total := int64(0)
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			m.logger.WithError(err).Warnf("⚠️ Could not count %s", table)
			continue
		}
		total += count
		info = append(info, TableInfo{Name: table, Records: count})

		status := "✅"
		if count == 0 {
			status = "📭"
		}
		m.logger.Infof("%s %-25s | %d records", status, table, count)
	}

	m.logger.Infof("📈 Total records across all tables: %d", total)
	return info, nil
}

// DropAllTables drops every application table
func (m *Migration) DropAllTables() error {
	m.logger.Warn("⚠️ WARNING: Dropping all database tables...")

	for _, model := range []interface{}{&order.OrderItem{}, &order.Order{}, &catalog.Game{}, &user.User{}} {
		if err := m.db.Migrator().DropTable(model); err != nil {
			return fmt.Errorf("failed to drop %T: %w", model, err)
		}
	}

	m.logger.Info("🗑️ All tables dropped")
	return nil
}
