package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/photogur/photogur/database/models"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// migrateCmd 数据库迁移命令
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration tools",
	Long:  `Migrate data from one database to another (e.g., SQLite to PostgreSQL).`,
}

// migrateRunCmd 执行迁移命令
var migrateRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run database migration",
	Long: `Run database migration from source to target database.

Examples:
  # Migrate from SQLite to PostgreSQL
  photogur migrate run --from-sqlite ./data/photogur.db --to-postgres "host=localhost user=postgres password=secret dbname=photogur port=5432"

  # Stop on conflict
  photogur migrate run --from-sqlite ./data/photogur.db --to-postgres "..." --on-conflict=error`,
	Run: func(cmd *cobra.Command, args []string) {
		fromType, _ := cmd.Flags().GetString("from-type")
		toType, _ := cmd.Flags().GetString("to-type")
		fromDSN, _ := cmd.Flags().GetString("from-dsn")
		toDSN, _ := cmd.Flags().GetString("to-dsn")
		fromSQLite, _ := cmd.Flags().GetString("from-sqlite")
		toPostgres, _ := cmd.Flags().GetString("to-postgres")
		skipConfirm, _ := cmd.Flags().GetBool("yes")
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		onConflict, _ := cmd.Flags().GetString("on-conflict")

		if err := runMigration(fromType, toType, fromDSN, toDSN, fromSQLite, toPostgres, skipConfirm, batchSize, onConflict); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateRunCmd)

	migrateRunCmd.Flags().String("from-type", "", "Source database type (sqlite, postgres)")
	migrateRunCmd.Flags().String("to-type", "", "Target database type (sqlite, postgres)")
	migrateRunCmd.Flags().String("from-dsn", "", "Source database DSN/connection string")
	migrateRunCmd.Flags().String("to-dsn", "", "Target database DSN/connection string")
	migrateRunCmd.Flags().String("from-sqlite", "", "Source SQLite file path (shortcut)")
	migrateRunCmd.Flags().String("to-postgres", "", "Target PostgreSQL connection string (shortcut)")
	migrateRunCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	migrateRunCmd.Flags().Int("batch-size", 100, "Batch size for data migration")
	migrateRunCmd.Flags().String("on-conflict", "skip", "Conflict resolution strategy: skip (default) or error")
}

// migrateStats 迁移统计
type migrateStats struct {
	users    int
	pictures int
	comments int
	skipped  int
	errors   []string
}

// runMigration 执行数据库迁移
func runMigration(fromType, toType, fromDSN, toDSN, fromSQLite, toPostgres string, skipConfirm bool, batchSize int, onConflict string) error {
	if onConflict != "skip" && onConflict != "error" {
		return fmt.Errorf("invalid on-conflict strategy: %s (must be skip or error)", onConflict)
	}

	// 处理快捷方式参数
	if fromSQLite != "" {
		fromType = "sqlite"
		fromDSN = fromSQLite
	}
	if toPostgres != "" {
		toType = "postgres"
		toDSN = toPostgres
	}

	if fromType == "" || toType == "" {
		return fmt.Errorf("both --from-type and --to-type are required")
	}
	if fromDSN == "" || toDSN == "" {
		return fmt.Errorf("both --from-dsn and --to-dsn (or shortcuts) are required")
	}
	if fromType == toType && fromDSN == toDSN {
		return fmt.Errorf("source and target databases are the same")
	}

	log.Printf("Migrating from %s to %s", fromType, toType)
	log.Printf("Source: %s", maskDSN(fromDSN))
	log.Printf("Target: %s", maskDSN(toDSN))

	sourceDB, err := openDatabase(fromType, fromDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	sqlDB, _ := sourceDB.DB()
	defer sqlDB.Close()

	targetDB, err := openDatabase(toType, toDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to target database: %w", err)
	}
	sqlDB2, _ := targetDB.DB()
	defer sqlDB2.Close()

	if !skipConfirm {
		fmt.Println("\nWarning: This will migrate all data from source to target database.")
		fmt.Print("Do you want to continue? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Migration cancelled.")
			return nil
		}
	}

	stats := &migrateStats{}

	log.Println("Migrating database schema...")
	if err := targetDB.AutoMigrate(&models.User{}, &models.Picture{}, &models.Comment{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	ctx := context.Background()

	// 用户在前，图片和评论通过外键依赖用户
	log.Println("Migrating users...")
	if err := copyTable(ctx, sourceDB, targetDB, &[]models.User{}, batchSize, onConflict, &stats.users, stats); err != nil {
		return err
	}

	log.Println("Migrating pictures...")
	if err := copyTable(ctx, sourceDB, targetDB, &[]models.Picture{}, batchSize, onConflict, &stats.pictures, stats); err != nil {
		return err
	}

	log.Println("Migrating comments...")
	if err := copyTable(ctx, sourceDB, targetDB, &[]models.Comment{}, batchSize, onConflict, &stats.comments, stats); err != nil {
		return err
	}

	printMigrateStats(stats)

	if len(stats.errors) > 0 {
		return fmt.Errorf("migration completed with %d errors", len(stats.errors))
	}

	log.Println("Migration completed successfully!")
	return nil
}

// copyTable 按批次把一张表从源库搬到目标库，按主键跳过已有记录
func copyTable(ctx context.Context, sourceDB, targetDB *gorm.DB, rows interface{}, batchSize int, onConflict string, copied *int, stats *migrateStats) error {
	return sourceDB.WithContext(ctx).FindInBatches(rows, batchSize, func(tx *gorm.DB, batch int) error {
		result := targetDB.WithContext(ctx).Create(rows)
		if result.Error != nil {
			// 退回逐条迁移，定位冲突记录
			return copyRowByRow(ctx, targetDB, rows, onConflict, copied, stats)
		}
		*copied += int(result.RowsAffected)
		return nil
	}).Error
}

func copyRowByRow(ctx context.Context, targetDB *gorm.DB, rows interface{}, onConflict string, copied *int, stats *migrateStats) error {
	db := targetDB.WithContext(ctx)

	switch typed := rows.(type) {
	case *[]models.User:
		for i := range *typed {
			if err := db.Create(&(*typed)[i]).Error; err != nil {
				if onConflict == "error" {
					return fmt.Errorf("user %d: %w", (*typed)[i].ID, err)
				}
				stats.skipped++
				continue
			}
			*copied++
		}
	case *[]models.Picture:
		for i := range *typed {
			if err := db.Create(&(*typed)[i]).Error; err != nil {
				if onConflict == "error" {
					return fmt.Errorf("picture %d: %w", (*typed)[i].ID, err)
				}
				stats.skipped++
				continue
			}
			*copied++
		}
	case *[]models.Comment:
		for i := range *typed {
			if err := db.Create(&(*typed)[i]).Error; err != nil {
				if onConflict == "error" {
					return fmt.Errorf("comment %d: %w", (*typed)[i].ID, err)
				}
				stats.skipped++
				continue
			}
			*copied++
		}
	default:
		return fmt.Errorf("unsupported table type %T", rows)
	}

	return nil
}

// openDatabase 打开数据库连接
func openDatabase(dbType, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch dbType {
	case "sqlite":
		sqliteDSN := dsn
		if sqliteDSN == "" {
			sqliteDSN = "file::memory:?cache=shared"
		}
		dialector = sqlite.Open(sqliteDSN)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// maskDSN 打日志时隐藏连接串中的密码
func maskDSN(dsn string) string {
	masked := dsn
	for _, keyword := range []string{"password=", "Password="} {
		if idx := strings.Index(masked, keyword); idx != -1 {
			end := strings.IndexByte(masked[idx:], ' ')
			if end == -1 {
				masked = masked[:idx] + keyword + "***"
			} else {
				masked = masked[:idx] + keyword + "***" + masked[idx+end:]
			}
		}
	}
	return masked
}

// printMigrateStats 打印迁移统计
func printMigrateStats(stats *migrateStats) {
	fmt.Println("\n=== Migration Statistics ===")
	fmt.Printf("Users:    %d\n", stats.users)
	fmt.Printf("Pictures: %d\n", stats.pictures)
	fmt.Printf("Comments: %d\n", stats.comments)
	fmt.Printf("Skipped:  %d\n", stats.skipped)
	if len(stats.errors) > 0 {
		fmt.Printf("Errors:   %d\n", len(stats.errors))
		for _, e := range stats.errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}
