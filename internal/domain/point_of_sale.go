package domain

// PointOfSale representa um ponto de venda (loja física ou depósito) no backend.
type PointOfSale struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	IsActive bool   `json:"isActive"`
}
