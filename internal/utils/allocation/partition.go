// Package allocation folds ledger entries into one display row per allocation group.
package allocation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
)

// GroupingStrategy decides which partition an entry belongs to.
// ok is false when the strategy does not apply to the entry.
type GroupingStrategy interface {
	PartitionKey(e domain.LedgerEntry) (key string, ok bool)
}

// TokenStrategy partitions entries by their allocation group token.
type TokenStrategy struct{}

func (TokenStrategy) PartitionKey(e domain.LedgerEntry) (string, bool) {
	if !e.InGroup() {
		return "", false
	}
	return "token:" + *e.AllocationGroupID, true
}

// CompositeKeyStrategy partitions multi-allocation entries written without a
// token (legacy schema) by entry date, requester and payee.
type CompositeKeyStrategy struct{}

func (CompositeKeyStrategy) PartitionKey(e domain.LedgerEntry) (string, bool) {
	if e.InGroup() || !e.IsMultiAllocation {
		return "", false
	}
	return strings.Join([]string{"composite", e.EntryDate.String(), e.Requester, e.Payee}, "\x1f"), true
}

// DefaultStrategies is the lookup chain used by the listing: token first, then
// the composite fallback. Entries matched by neither stand alone.
var DefaultStrategies = []GroupingStrategy{TokenStrategy{}, CompositeKeyStrategy{}}

// PartitionKey resolves the partition of e through strategies, falling back to
// a singleton key on the entry id.
func PartitionKey(e domain.LedgerEntry, strategies []GroupingStrategy) string {
	for _, s := range strategies {
		if key, ok := s.PartitionKey(e); ok {
			return key
		}
	}
	return fmt.Sprintf("id:%d", e.ID)
}

// Collapse partitions entries and returns one representative per partition,
// carrying the other members and the partition total. The result is ordered
// by representative id in the requested direction.
func Collapse(entries []domain.LedgerEntry, strategies []GroupingStrategy, order domain.SortOrder) []domain.CollapsedEntry {
	partitions := make(map[string][]domain.LedgerEntry)
	for _, e := range entries {
		key := PartitionKey(e, strategies)
		partitions[key] = append(partitions[key], e)
	}

	out := make([]domain.CollapsedEntry, 0, len(partitions))
	for _, members := range partitions {
		sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
		out = append(out, collapsePartition(members))
	}

	sort.Slice(out, func(i, j int) bool {
		if order == domain.SortAsc {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func collapsePartition(members []domain.LedgerEntry) domain.CollapsedEntry {
	rep := members[0]
	related := make([]domain.RelatedAllocation, 0, len(members)-1)
	total := rep.Amount
	for _, m := range members[1:] {
		related = append(related, domain.RelatedAllocation{
			ID:            m.ID,
			CostCenterID:  m.CostCenterID,
			Amount:        m.Amount,
			Reference:     m.Reference,
			PaymentDate:   m.PaymentDate,
			PaymentMethod: m.PaymentMethod,
		})
		total += m.Amount
	}
	return domain.CollapsedEntry{
		LedgerEntry:        rep,
		RelatedAllocations: related,
		TotalAmount:        total,
	}
}
