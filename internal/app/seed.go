package app

import (
	"github.com/google/uuid"

	"github.com/sumin-dev/Silver-Bank/internal/domain"
)

// Fixed counterparties for the demonstration ledger every new account starts
// with. These are constants of the system, not configurable.
const (
	bankName   = "실버뱅크"
	bankNumber = "0000-0000-0000"
)

type seedCounterparty struct {
	name   string
	number string
	amount int64
	memo   string
}

// seedDebits simulate prior outgoing activity. Order matters: it is the
// insertion order of the seed batch.
var seedDebits = []seedCounterparty{
	{name: "김은지", number: "1234-5678-9123", amount: 50_000, memo: "생일 축하해!"},
	{name: "박준호", number: "9876-5432-1098", amount: 120_000, memo: "월세"},
	{name: "이수민", number: "4567-8912-3456", amount: 33_000, memo: "저녁값"},
	{name: "김은지", number: "1234-5678-9123", amount: 20_000, memo: "커피"},
}

// seedTransactions builds the fixed seed batch for a freshly provisioned
// account: first the account-opening bonus credit from the bank, amount equal
// to the initial balance, then the fixed-party debits.
func seedTransactions(account *domain.Account) []domain.Transaction {
	seed := make([]domain.Transaction, 0, len(seedDebits)+1)
	seed = append(seed, domain.Transaction{
		ID:             uuid.New(),
		SenderName:     bankName,
		SenderNumber:   bankNumber,
		ReceiverName:   account.Username,
		ReceiverNumber: account.Number,
		Amount:         account.Balance,
		Memo:           "계좌 개설 축하금",
	})
	for _, d := range seedDebits {
		seed = append(seed, domain.Transaction{
			ID:             uuid.New(),
			SenderName:     account.Username,
			SenderNumber:   account.Number,
			ReceiverName:   d.name,
			ReceiverNumber: d.number,
			Amount:         d.amount,
			Memo:           d.memo,
		})
	}
	return seed
}
