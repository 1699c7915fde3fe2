package db_models

type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "pending"
	PayoutStatusDone    PayoutStatus = "done"
)

// SystemAccount marks payout rows written by the service itself, e.g. a
// subscription renewal debited from the guild's collected balance.
const SystemAccount = "SYSTEM"

// Payout is a withdrawal of collected balance to a bank account.
// NetMNT = GrossMNT - FeeMNT, fixed at creation and never recomputed.
type Payout struct {
	BaseModel
	GuildID       string `gorm:"index;not null"`
	RequesterID   string `gorm:"index"` // admin who asked, DMed when the transfer lands
	GrossMNT      int64
	FeeMNT        int64
	NetMNT        int64
	AccountNumber string
	AccountName   string
	Note          string       `gorm:"type:text"`
	Status        PayoutStatus `gorm:"index;default:'pending'"`
}
