package analytics

import (
	"fmt"
	"sort"
	"time"

	"expensetracker/internal/expense"
)

// The rollup math lives in pure functions of (rows, now) so it can be
// verified without a storage engine underneath.

// Summarize reduces the scoped rows to sum, count and average. An empty
// scope yields an all-zero summary.
func Summarize(rows []*expense.Expense) Summary {
	var s Summary
	for _, e := range rows {
		s.TotalExpenses += e.Amount
		s.TotalCount++
	}
	if s.TotalCount > 0 {
		s.AverageExpense = s.TotalExpenses / float64(s.TotalCount)
	}
	return s
}

// GroupByCategory partitions rows by category and reduces each partition,
// ordered by descending total amount.
func GroupByCategory(rows []*expense.Expense) []CategoryStat {
	byCategory := make(map[string]*CategoryStat)
	for _, e := range rows {
		stat, ok := byCategory[e.Category]
		if !ok {
			stat = &CategoryStat{Category: e.Category}
			byCategory[e.Category] = stat
		}
		stat.TotalAmount += e.Amount
		stat.Count++
	}

	stats := make([]CategoryStat, 0, len(byCategory))
	for _, stat := range byCategory {
		stat.AverageAmount = stat.TotalAmount / float64(stat.Count)
		stats = append(stats, *stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalAmount != stats[j].TotalAmount {
			return stats[i].TotalAmount > stats[j].TotalAmount
		}
		return stats[i].Category < stats[j].Category
	})

	return stats
}

// GroupByMonth buckets rows by calendar month of the spend date within the
// trailing twelve months from now, most recent month first. Months without
// expenses are omitted, there is no zero filling.
func GroupByMonth(rows []*expense.Expense, now time.Time) []MonthlyStat {
	cutoff := now.AddDate(0, -12, 0)

	byMonth := make(map[string]*MonthlyStat)
	for _, e := range rows {
		if e.Date.Before(cutoff) || e.Date.After(now) {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", e.Date.Year(), int(e.Date.Month()))
		stat, ok := byMonth[key]
		if !ok {
			stat = &MonthlyStat{Month: key}
			byMonth[key] = stat
		}
		stat.TotalAmount += e.Amount
		stat.Count++
	}

	stats := make([]MonthlyStat, 0, len(byMonth))
	for _, stat := range byMonth {
		stats = append(stats, *stat)
	}

	// "YYYY-MM" sorts correctly as a string.
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Month > stats[j].Month
	})

	return stats
}

// GroupByStatus partitions rows by lifecycle status.
func GroupByStatus(rows []*expense.Expense) []StatusStat {
	byStatus := make(map[string]*StatusStat)
	for _, e := range rows {
		stat, ok := byStatus[e.Status]
		if !ok {
			stat = &StatusStat{Status: e.Status}
			byStatus[e.Status] = stat
		}
		stat.Count++
		stat.TotalAmount += e.Amount
	}

	order := []string{expense.StatusPending, expense.StatusApproved, expense.StatusRejected}
	stats := make([]StatusStat, 0, len(byStatus))
	for _, status := range order {
		if stat, ok := byStatus[status]; ok {
			stats = append(stats, *stat)
		}
	}

	return stats
}
