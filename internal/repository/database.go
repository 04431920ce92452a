package repository

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kama/internal/domain"
)

// Поддерживаемые значения DB_DRIVER
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// OpenDatabase подключается к реляционной БД и выполняет миграции
func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		// time.Time колонки без parseTime приходят строками
		cfg.ParseTime = true
		dialector = gormmysql.Open(cfg.FormatDSN())
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Printf("database ready (driver=%s)", driver)
	return db, nil
}

// Migrate создаёт или обновляет таблицы каталога и заказов
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Category{},
		&domain.Product{},
		&domain.ProductImage{},
		&domain.ProductVariant{},
		&domain.Order{},
		&domain.OrderItem{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Stores набор репозиториев над одним бэкендом
type Stores struct {
	Categories CategoryRepository
	Products   ProductRepository
	Orders     OrderRepository
	Tx         TxManager
}

// NewMemoryStores собирает репозитории поверх одного MemoryStore
func NewMemoryStores() Stores {
	store := NewMemoryStore()
	return Stores{
		Categories: NewMemoryCategories(store),
		Products:   store,
		Orders:     NewMemoryOrders(store),
		Tx:         NewMemoryTx(store),
	}
}

// NewGormStores собирает репозитории поверх подключения GORM
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Categories: NewGormCategories(db),
		Products:   NewGormProducts(db),
		Orders:     NewGormOrders(db),
		Tx:         NewGormTx(db),
	}
}
