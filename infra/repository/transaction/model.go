package transaction

import (
	"time"

	"github.com/amirasaad/findash/infra/repository/user"
	"github.com/shopspring/decimal"
)

// Transaction represents a persisted income, expense or trade row.
// Trade columns are NULL for income and expense.
type Transaction struct {
	ID     uint       `gorm:"primaryKey"`
	UserID uint       `gorm:"not null;index"`
	User   *user.User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Date     time.Time       `gorm:"type:date;not null;index"`
	Type     string          `gorm:"type:varchar(16);not null"`
	Category string          `gorm:"type:varchar(50)"`
	Amount   decimal.Decimal `gorm:"type:numeric(18,4);not null"`

	AssetSymbol  *string             `gorm:"type:varchar(20);index"`
	Shares       decimal.NullDecimal `gorm:"type:numeric(18,6)"`
	PriceAtTrade decimal.NullDecimal `gorm:"type:numeric(18,4)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
