// Package enrichment transforma registros normalizados de transação em visões
// prontas para exibição, cruzando-os com as coleções de referência.
package enrichment

import (
	"posconsole/internal/domain"
)

// Snapshot é a foto somente leitura das quatro coleções de referência usada num join.
// Uma coleção ausente (falha de busca) é simplesmente vazia: as referências dela
// caem nos rótulos de fallback.
type Snapshot struct {
	products     map[int64]domain.Product
	pointsOfSale map[int64]domain.PointOfSale
	users        map[int64]domain.User
	inventories  map[int64]domain.Inventory
}

// NewSnapshot indexa as coleções por ID. Qualquer argumento pode ser nil.
func NewSnapshot(products []domain.Product, pointsOfSale []domain.PointOfSale, users []domain.User, inventories []domain.Inventory) Snapshot {
	s := Snapshot{
		products:     make(map[int64]domain.Product, len(products)),
		pointsOfSale: make(map[int64]domain.PointOfSale, len(pointsOfSale)),
		users:        make(map[int64]domain.User, len(users)),
		inventories:  make(map[int64]domain.Inventory, len(inventories)),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	for _, pos := range pointsOfSale {
		s.pointsOfSale[pos.ID] = pos
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	for _, inv := range inventories {
		s.inventories[inv.ID] = inv
	}
	return s
}

func (s Snapshot) product(id int64) (domain.Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

func (s Snapshot) inventory(id int64) (domain.Inventory, bool) {
	inv, ok := s.inventories[id]
	return inv, ok
}

func (s Snapshot) pointOfSaleName(id int64) string {
	if pos, ok := s.pointsOfSale[id]; ok && pos.Name != "" {
		return pos.Name
	}
	return PointOfSaleLabel(id)
}

func (s Snapshot) userName(id int64) string {
	if u, ok := s.users[id]; ok && u.Name != "" {
		return u.Name
	}
	return UserLabel(id)
}
