// Package adapters はstocksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/usecase"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のSQLSTATEです。
const pgUniqueViolation = "23505"

// StockModel は stocks テーブルの行を表します。
// 数値カラムはすべて NUMERIC(10,2) で、エンリッチメント前は NULL です。
type StockModel struct {
	ID     uint   `gorm:"primaryKey"`
	Symbol string `gorm:"size:20;not null;uniqueIndex"`

	Price         decimal.NullDecimal `gorm:"column:price;type:numeric(10,2)"`
	ForwardPE     decimal.NullDecimal `gorm:"column:forward_pe;type:numeric(10,2)"`
	ForwardEPS    decimal.NullDecimal `gorm:"column:forward_eps;type:numeric(10,2)"`
	DividendYield decimal.NullDecimal `gorm:"column:dividend_yield;type:numeric(10,2)"`
	MA200         decimal.NullDecimal `gorm:"column:ma200;type:numeric(10,2)"`
	MA50          decimal.NullDecimal `gorm:"column:ma50;type:numeric(10,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StockModel) TableName() string {
	return "stocks"
}

func (m StockModel) toEntity() entity.Stock {
	return entity.Stock{
		ID:            m.ID,
		Symbol:        m.Symbol,
		Price:         m.Price,
		ForwardPE:     m.ForwardPE,
		ForwardEPS:    m.ForwardEPS,
		DividendYield: m.DividendYield,
		MA200:         m.MA200,
		MA50:          m.MA50,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// stockPostgres はStockRepositoryインターフェースのGORM実装です。
// 本番ではPostgreSQL、テストではSQLiteで動作します。
type stockPostgres struct {
	db *gorm.DB
}

// stockPostgresがStockRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.StockRepository = (*stockPostgres)(nil)

// NewStockRepository は指定されたDB接続でstockPostgresの新しいインスタンスを生成します。
func NewStockRepository(db *gorm.DB) *stockPostgres {
	return &stockPostgres{db: db}
}

// Create は銘柄のみを持つレコードを作成します。
// 同じ銘柄が既に存在する場合、usecase.ErrSymbolAlreadyExistsを返します。
func (r *stockPostgres) Create(ctx context.Context, symbol string) (uint, error) {
	m := StockModel{Symbol: symbol}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, usecase.ErrSymbolAlreadyExists
		}
		return 0, err
	}
	return m.ID, nil
}

// FindByID はIDで銘柄を取得します。
// 存在しない場合、usecase.ErrStockNotFoundを返します。
func (r *stockPostgres) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var m StockModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrStockNotFound
		}
		return nil, err
	}
	s := m.toEntity()
	return &s, nil
}

// List は銘柄コード順にすべての銘柄を返します。
func (r *stockPostgres) List(ctx context.Context) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).Order("symbol ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Stock, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// ListIDs はID順にすべての銘柄のIDを返します。
func (r *stockPostgres) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateFundamentals は数値カラムを1つのUPDATE文で上書きします。
// 配当利回りが未設定の場合、そのカラムは更新対象に含めません。
func (r *stockPostgres) UpdateFundamentals(ctx context.Context, id uint, f entity.Fundamentals) error {
	cols := map[string]any{
		"price":       f.Price,
		"forward_pe":  f.ForwardPE,
		"forward_eps": f.ForwardEPS,
		"ma200":       f.MA200,
		"ma50":        f.MA50,
	}
	if f.DividendYield.Valid {
		cols["dividend_yield"] = f.DividendYield.Decimal
	}

	res := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrStockNotFound
	}
	return nil
}

// isUniqueViolation はGORMの変換済みエラーまたはpgxのエラーコードで一意制約違反を判定します。
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
