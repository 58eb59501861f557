package enrichment

import (
	"sort"

	"github.com/shopspring/decimal"

	"posconsole/internal/domain"
)

// Summarize agrega as visões por tipo de transação, na ordem de domain.TransactionTypes.
// Tipos sem nenhuma transação não aparecem. Só vendas agrupadas contribuem com valor.
func Summarize(views []domain.EnrichedTransaction) []domain.TypeSummary {
	byType := make(map[domain.TransactionType]*domain.TypeSummary, len(domain.TransactionTypes))

	for _, v := range views {
		s, ok := byType[v.TransactionType]
		if !ok {
			s = &domain.TypeSummary{TransactionType: v.TransactionType, TotalValue: decimal.Zero}
			byType[v.TransactionType] = s
		}
		s.Count++

		switch {
		case v.TotalQuantity != nil:
			s.TotalQuantity += *v.TotalQuantity
		case v.Quantity != nil:
			s.TotalQuantity += *v.Quantity
		}
		if v.TotalValue != nil {
			s.TotalValue = s.TotalValue.Add(*v.TotalValue)
		}
	}

	out := make([]domain.TypeSummary, 0, len(byType))
	for _, t := range domain.TransactionTypes {
		if s, ok := byType[t]; ok {
			out = append(out, *s)
			delete(byType, t)
		}
	}
	// Tipos desconhecidos vindos do backend vão ao final, em ordem alfabética.
	rest := make([]domain.TypeSummary, 0, len(byType))
	for _, s := range byType {
		rest = append(rest, *s)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].TransactionType < rest[j].TransactionType })
	return append(out, rest...)
}
