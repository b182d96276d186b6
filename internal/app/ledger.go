/**
 * @description
 * The two derived ledger views.
 *
 * Sent-to: all transactions the account sent, grouped by receiver number into
 * one summary row per distinct receiver (name, number, most recent date, send
 * count), with three sort modes and 5-row pages.
 *
 * History: the union of sent and received transactions, merged and sorted
 * newest-first, each row classified send/receive and re-projected onto the
 * counterparty with a signed amount, with a 3-way filter and 10-row pages.
 *
 * Both views treat "no account yet" as an empty view, not an error.
 */

package app

import (
	"context"
	"errors"
	"sort"

	"github.com/sumin-dev/Silver-Bank/internal/auth"
	"github.com/sumin-dev/Silver-Bank/internal/domain"
	"github.com/sumin-dev/Silver-Bank/internal/store"
)

const (
	sentPageSize    = 5
	historyPageSize = 10
)

// SentSort selects the ordering of the sent-to aggregation.
type SentSort string

const (
	SortByDate  SentSort = "date" // fetch order: most recent first
	SortByName  SentSort = "name"
	SortByCount SentSort = "count"
)

// HistoryFilter selects which directions the history view includes.
type HistoryFilter string

const (
	FilterAll     HistoryFilter = "all"
	FilterSend    HistoryFilter = "send"
	FilterReceive HistoryFilter = "receive"
)

// SentAccounts builds one page of the "accounts I've sent to" view.
func (s *Service) SentAccounts(ctx context.Context, session auth.Session, sortMode SentSort, page int) (*domain.SentAccountsPage, error) {
	account, err := s.repo.FindAccountByUserID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return &domain.SentAccountsPage{Rows: []domain.SentAccountRow{}, Page: 1, TotalPages: 1}, nil
		}
		return nil, err
	}

	sent, err := s.repo.FindSentTransactions(ctx, account.Number)
	if err != nil {
		return nil, err
	}

	rows := aggregateSentAccounts(sent)
	sortSentAccounts(rows, sortMode)

	page, totalPages := clampPage(page, len(rows), sentPageSize)
	return &domain.SentAccountsPage{
		Rows:       pageSlice(rows, page, sentPageSize),
		Page:       page,
		TotalPages: totalPages,
		TotalRows:  len(rows),
	}, nil
}

// aggregateSentAccounts groups sent transactions by receiver number. The
// input arrives newest-first from the store, so the first occurrence of a
// receiver carries its most recent date.
func aggregateSentAccounts(sent []domain.Transaction) []domain.SentAccountRow {
	index := make(map[string]int, len(sent))
	rows := make([]domain.SentAccountRow, 0, len(sent))
	for _, t := range sent {
		if i, ok := index[t.ReceiverNumber]; ok {
			rows[i].SendCount++
			continue
		}
		index[t.ReceiverNumber] = len(rows)
		rows = append(rows, domain.SentAccountRow{
			Name:         t.ReceiverName,
			Number:       t.ReceiverNumber,
			MostRecentAt: t.CreatedAt,
			SendCount:    1,
		})
	}
	return rows
}

func sortSentAccounts(rows []domain.SentAccountRow, mode SentSort) {
	switch mode {
	case SortByName:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	case SortByCount:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].SendCount > rows[j].SendCount })
	default:
		// SortByDate is the fetch order; nothing to do.
	}
}

// History builds one page of the merged transaction history.
func (s *Service) History(ctx context.Context, session auth.Session, filter HistoryFilter, page int) (*domain.HistoryPage, error) {
	account, err := s.repo.FindAccountByUserID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return &domain.HistoryPage{Entries: []domain.HistoryEntry{}, Page: 1, TotalPages: 1}, nil
		}
		return nil, err
	}

	sent, err := s.repo.FindSentTransactions(ctx, account.Number)
	if err != nil {
		return nil, err
	}
	received, err := s.repo.FindReceivedTransactions(ctx, account.Number)
	if err != nil {
		return nil, err
	}

	entries := mergeHistory(sent, received)
	if filter == FilterSend || filter == FilterReceive {
		filtered := entries[:0]
		for _, e := range entries {
			if string(e.Type) == string(filter) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	page, totalPages := clampPage(page, len(entries), historyPageSize)
	return &domain.HistoryPage{
		Entries:    pageSlice(entries, page, historyPageSize),
		Page:       page,
		TotalPages: totalPages,
		TotalRows:  len(entries),
	}, nil
}

// mergeHistory combines both directions, classifies each record from the
// account's point of view, and sorts the union newest-first.
func mergeHistory(sent, received []domain.Transaction) []domain.HistoryEntry {
	entries := make([]domain.HistoryEntry, 0, len(sent)+len(received))
	for _, t := range sent {
		entries = append(entries, domain.HistoryEntry{
			ID:                 t.ID.String(),
			Type:               domain.HistorySend,
			CounterpartyName:   t.ReceiverName,
			CounterpartyNumber: t.ReceiverNumber,
			Amount:             -t.Amount,
			Memo:               t.Memo,
			CreatedAt:          t.CreatedAt,
		})
	}
	for _, t := range received {
		entries = append(entries, domain.HistoryEntry{
			ID:                 t.ID.String(),
			Type:               domain.HistoryReceive,
			CounterpartyName:   t.SenderName,
			CounterpartyNumber: t.SenderNumber,
			Amount:             t.Amount,
			Memo:               t.Memo,
			CreatedAt:          t.CreatedAt,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries
}

// clampPage clamps a 1-based page index to [1, ceil(total/size)].
func clampPage(page, total, size int) (int, int) {
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}

func pageSlice[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
