package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sumin-dev/Silver-Bank/internal/domain"
	"github.com/sumin-dev/Silver-Bank/internal/store"
)

const ledgerTestNumber = "1111-2222-3333"

func ledgerRepo(sent, received []domain.Transaction) *stubRepo {
	return &stubRepo{
		findAccountByUserID: func(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
			return &domain.Account{ID: uuid.New(), Number: ledgerTestNumber, Username: "김은지", UserID: userID}, nil
		},
		findSent: func(ctx context.Context, senderNumber string) ([]domain.Transaction, error) {
			return sent, nil
		},
		findReceived: func(ctx context.Context, receiverNumber string) ([]domain.Transaction, error) {
			return received, nil
		},
	}
}

// sentAt builds an outgoing transaction n minutes in the past, so larger n
// means older. The store returns sent rows newest-first; tests must keep that
// ordering.
func sentAt(receiverName, receiverNumber string, amount int64, minutesAgo int) domain.Transaction {
	return domain.Transaction{
		ID:             uuid.New(),
		SenderName:     "김은지",
		SenderNumber:   ledgerTestNumber,
		ReceiverName:   receiverName,
		ReceiverNumber: receiverNumber,
		Amount:         amount,
		CreatedAt:      time.Now().Add(-time.Duration(minutesAgo) * time.Minute),
	}
}

func receivedAt(senderName, senderNumber string, amount int64, minutesAgo int) domain.Transaction {
	return domain.Transaction{
		ID:             uuid.New(),
		SenderName:     senderName,
		SenderNumber:   senderNumber,
		ReceiverName:   "김은지",
		ReceiverNumber: ledgerTestNumber,
		Amount:         amount,
		CreatedAt:      time.Now().Add(-time.Duration(minutesAgo) * time.Minute),
	}
}

func TestSentAccountsAggregation(t *testing.T) {
	sent := []domain.Transaction{
		sentAt("박준호", "4444-5555-6666", 10_000, 1),
		sentAt("이수민", "7777-8888-9999", 20_000, 2),
		sentAt("박준호", "4444-5555-6666", 30_000, 3),
		sentAt("박준호", "4444-5555-6666", 40_000, 4),
	}
	svc := NewService(ledgerRepo(sent, nil), nil)

	page, err := svc.SentAccounts(context.Background(), testSession(), SortByDate, 1)
	if err != nil {
		t.Fatal(err)
	}

	if page.TotalRows != 2 {
		t.Fatalf("expected 2 distinct receivers, got %d", page.TotalRows)
	}
	counts := 0
	for _, row := range page.Rows {
		counts += row.SendCount
	}
	if counts != len(sent) {
		t.Fatalf("send counts sum to %d, want %d", counts, len(sent))
	}

	first := page.Rows[0]
	if first.Number != "4444-5555-6666" || first.SendCount != 3 {
		t.Fatalf("unexpected first row %+v", first)
	}
	if !first.MostRecentAt.Equal(sent[0].CreatedAt) {
		t.Fatalf("most recent date not taken from the newest transaction: %v", first.MostRecentAt)
	}
}

func TestSentAccountsSortModes(t *testing.T) {
	sent := []domain.Transaction{
		sentAt("이수민", "7777-8888-9999", 10_000, 1),
		sentAt("박준호", "4444-5555-6666", 20_000, 2),
		sentAt("박준호", "4444-5555-6666", 30_000, 3),
		sentAt("김하늘", "1212-3434-5656", 40_000, 4),
	}

	tests := []struct {
		name        string
		mode        SentSort
		wantNumbers []string
	}{
		{
			name:        "date keeps most recent first",
			mode:        SortByDate,
			wantNumbers: []string{"7777-8888-9999", "4444-5555-6666", "1212-3434-5656"},
		},
		{
			name:        "name sorts ascending",
			mode:        SortByName,
			wantNumbers: []string{"1212-3434-5656", "4444-5555-6666", "7777-8888-9999"},
		},
		{
			name:        "count sorts descending",
			mode:        SortByCount,
			wantNumbers: []string{"4444-5555-6666", "7777-8888-9999", "1212-3434-5656"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(ledgerRepo(sent, nil), nil)
			page, err := svc.SentAccounts(context.Background(), testSession(), tt.mode, 1)
			if err != nil {
				t.Fatal(err)
			}
			if len(page.Rows) != len(tt.wantNumbers) {
				t.Fatalf("expected %d rows, got %d", len(tt.wantNumbers), len(page.Rows))
			}
			for i, want := range tt.wantNumbers {
				if page.Rows[i].Number != want {
					t.Fatalf("row %d: expected %s, got %s", i, want, page.Rows[i].Number)
				}
			}
		})
	}
}

func TestSentAccountsPagination(t *testing.T) {
	// 7 distinct receivers with a 5-row page size: two pages, 5 + 2 rows.
	var sent []domain.Transaction
	for i := 0; i < 7; i++ {
		number := fmt.Sprintf("%04d-0000-0000", i)
		sent = append(sent, sentAt("수신자", number, 10_000, i+1))
	}

	tests := []struct {
		name     string
		page     int
		wantPage int
		wantRows int
	}{
		{name: "first page full", page: 1, wantPage: 1, wantRows: 5},
		{name: "second page remainder", page: 2, wantPage: 2, wantRows: 2},
		{name: "zero clamps to first", page: 0, wantPage: 1, wantRows: 5},
		{name: "past end clamps to last", page: 99, wantPage: 2, wantRows: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(ledgerRepo(sent, nil), nil)
			page, err := svc.SentAccounts(context.Background(), testSession(), SortByDate, tt.page)
			if err != nil {
				t.Fatal(err)
			}
			if page.Page != tt.wantPage || len(page.Rows) != tt.wantRows {
				t.Fatalf("expected page %d with %d rows, got page %d with %d rows",
					tt.wantPage, tt.wantRows, page.Page, len(page.Rows))
			}
			if page.TotalPages != 2 || page.TotalRows != 7 {
				t.Fatalf("expected 2 pages / 7 rows, got %d / %d", page.TotalPages, page.TotalRows)
			}
		})
	}
}

func TestSentAccountsWithoutAccountIsEmpty(t *testing.T) {
	repo := &stubRepo{
		findAccountByUserID: func(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
			return nil, store.ErrAccountNotFound
		},
	}
	svc := NewService(repo, nil)

	page, err := svc.SentAccounts(context.Background(), testSession(), SortByDate, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Rows) != 0 || page.Page != 1 || page.TotalPages != 1 {
		t.Fatalf("expected empty first page, got %+v", page)
	}
}

func TestHistoryMergesAndClassifies(t *testing.T) {
	sent := []domain.Transaction{
		sentAt("박준호", "4444-5555-6666", 50_000, 10),
	}
	received := []domain.Transaction{
		receivedAt("이수민", "7777-8888-9999", 80_000, 5),
	}
	svc := NewService(ledgerRepo(sent, received), nil)

	page, err := svc.History(context.Background(), testSession(), FilterAll, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(page.Entries))
	}

	// Newest first: the received transaction is more recent.
	got := page.Entries[0]
	if got.Type != domain.HistoryReceive || got.Amount != 80_000 {
		t.Fatalf("expected positive receive first, got %+v", got)
	}
	if got.CounterpartyName != "이수민" || got.CounterpartyNumber != "7777-8888-9999" {
		t.Fatalf("receive entry not projected onto the sender: %+v", got)
	}

	got = page.Entries[1]
	if got.Type != domain.HistorySend || got.Amount != -50_000 {
		t.Fatalf("expected negative send second, got %+v", got)
	}
	if got.CounterpartyName != "박준호" || got.CounterpartyNumber != "4444-5555-6666" {
		t.Fatalf("send entry not projected onto the receiver: %+v", got)
	}
}

func TestHistoryFilter(t *testing.T) {
	sent := []domain.Transaction{
		sentAt("박준호", "4444-5555-6666", 50_000, 1),
		sentAt("이수민", "7777-8888-9999", 20_000, 3),
	}
	received := []domain.Transaction{
		receivedAt("이수민", "7777-8888-9999", 80_000, 2),
	}

	tests := []struct {
		name    string
		filter  HistoryFilter
		want    int
		allType domain.HistoryEntryType
	}{
		{name: "all", filter: FilterAll, want: 3},
		{name: "send only", filter: FilterSend, want: 2, allType: domain.HistorySend},
		{name: "receive only", filter: FilterReceive, want: 1, allType: domain.HistoryReceive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(ledgerRepo(sent, received), nil)
			page, err := svc.History(context.Background(), testSession(), tt.filter, 1)
			if err != nil {
				t.Fatal(err)
			}
			if len(page.Entries) != tt.want {
				t.Fatalf("expected %d entries, got %d", tt.want, len(page.Entries))
			}
			if tt.allType != "" {
				for _, e := range page.Entries {
					if e.Type != tt.allType {
						t.Fatalf("expected only %s entries, got %+v", tt.allType, e)
					}
				}
			}
		})
	}
}

func TestHistoryPagination(t *testing.T) {
	var sent []domain.Transaction
	for i := 0; i < 23; i++ {
		sent = append(sent, sentAt("수신자", "4444-5555-6666", 10_000, i+1))
	}
	svc := NewService(ledgerRepo(sent, nil), nil)

	page, err := svc.History(context.Background(), testSession(), FilterAll, 3)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalPages != 3 || page.TotalRows != 23 {
		t.Fatalf("expected 3 pages / 23 rows, got %d / %d", page.TotalPages, page.TotalRows)
	}
	if len(page.Entries) != 3 {
		t.Fatalf("expected 3 entries on the last page, got %d", len(page.Entries))
	}
}

func TestHistoryWithoutAccountIsEmpty(t *testing.T) {
	repo := &stubRepo{
		findAccountByUserID: func(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
			return nil, store.ErrAccountNotFound
		},
	}
	svc := NewService(repo, nil)

	page, err := svc.History(context.Background(), testSession(), FilterAll, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Entries) != 0 || page.Page != 1 || page.TotalPages != 1 {
		t.Fatalf("expected empty first page, got %+v", page)
	}
}
