package models

// Platform - платформа, с которой пришла покупка.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

// DiamondProduct - товар каталога: пакет алмазов.
type DiamondProduct struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Amount int    `json:"amount"`
}

var diamondProducts = []DiamondProduct{
	{ID: "diamonds_100", Name: "100 Diamonds", Price: "$0.99", Amount: 100},
	{ID: "diamonds_500", Name: "500 Diamonds", Price: "$4.99", Amount: 500},
	{ID: "diamonds_1000", Name: "1000 Diamonds", Price: "$9.99", Amount: 1000},
	{ID: "diamonds_2500", Name: "2500 Diamonds", Price: "$19.99", Amount: 2500},
	{ID: "diamonds_5000", Name: "5000 Diamonds", Price: "$39.99", Amount: 5000},
}

// DiamondProducts возвращает копию фиксированного каталога.
func DiamondProducts() []DiamondProduct {
	products := make([]DiamondProduct, len(diamondProducts))
	copy(products, diamondProducts)
	return products
}

// FindDiamondProduct ищет товар по id.
func FindDiamondProduct(productID string) (DiamondProduct, bool) {
	for _, p := range diamondProducts {
		if p.ID == productID {
			return p, true
		}
	}
	return DiamondProduct{}, false
}

// PurchaseResult - ответ на покупку.
type PurchaseResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	DiamondsBalance int    `json:"diamondsBalance"`
}
