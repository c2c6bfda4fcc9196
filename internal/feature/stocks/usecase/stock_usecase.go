package usecase

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"stock_tracker/internal/feature/stocks/domain/entity"
)

// symbolPattern はティッカーシンボルとして受け付ける文字列です（例: "AAPL", "BRK.B", "7203.T", "^GSPC"）。
var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-^=]{1,20}$`)

// StockRepository は銘柄レコードの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type StockRepository interface {
	// Create は銘柄のみを持つレコードを作成し、採番されたIDを返します。
	Create(ctx context.Context, symbol string) (uint, error)
	// FindByID はIDで銘柄レコードを取得します。
	FindByID(ctx context.Context, id uint) (*entity.Stock, error)
	// List はすべての銘柄レコードを返します。
	List(ctx context.Context) ([]entity.Stock, error)
	// ListIDs はすべての銘柄レコードのIDを返します。
	ListIDs(ctx context.Context) ([]uint, error)
	// UpdateFundamentals は指定IDのレコードの数値フィールドを1回の書き込みで上書きします。
	UpdateFundamentals(ctx context.Context, id uint, f entity.Fundamentals) error
}

// JobScheduler はエンリッチメントジョブを非同期に登録します。
// Schedule はジョブの完了を待たずに戻ります。
type JobScheduler interface {
	Schedule(ctx context.Context, stockID uint) error
}

// StockUsecase は銘柄の登録と参照のユースケースを提供します。
type StockUsecase struct {
	repo      StockRepository
	scheduler JobScheduler
}

// NewStockUsecase は新しい StockUsecase を作成します。
func NewStockUsecase(repo StockRepository, scheduler JobScheduler) *StockUsecase {
	return &StockUsecase{repo: repo, scheduler: scheduler}
}

// NormalizeSymbol は前後の空白を除去して大文字に揃え、形式を検証します。
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(s) {
		return "", ErrInvalidSymbol
	}
	return s, nil
}

// CreateStock は銘柄を登録し、エンリッチメントジョブを登録します。
// ジョブ登録に失敗してもレコードは作成済みのため、ログに残して成功を返します。
func (u *StockUsecase) CreateStock(ctx context.Context, symbol string) (uint, error) {
	s, err := NormalizeSymbol(symbol)
	if err != nil {
		return 0, err
	}

	id, err := u.repo.Create(ctx, s)
	if err != nil {
		return 0, err
	}

	if err := u.scheduler.Schedule(ctx, id); err != nil {
		slog.Warn("failed to schedule enrichment", "stock_id", id, "symbol", s, "error", err)
	}
	return id, nil
}

// GetStock はIDで銘柄を取得します。
func (u *StockUsecase) GetStock(ctx context.Context, id uint) (*entity.Stock, error) {
	return u.repo.FindByID(ctx, id)
}

// ListStocks はダッシュボード表示用にすべての銘柄を返します。
func (u *StockUsecase) ListStocks(ctx context.Context) ([]entity.Stock, error) {
	return u.repo.List(ctx)
}
