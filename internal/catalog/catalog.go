// Package catalog lists the built-in assets offered for quick selection.
package catalog

import "strings"

// Asset is a selectable instrument.
type Asset struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// Category groups assets for display.
type Category struct {
	Name   string  `json:"name"`
	Assets []Asset `json:"assets"`
}

var categories = [...]Category{
	{Name: "Crypto", Assets: []Asset{
		{Name: "Bitcoin (BTC)", Ticker: "BTC-USD"},
		{Name: "Ethereum (ETH)", Ticker: "ETH-USD"},
		{Name: "Solana (SOL)", Ticker: "SOL-USD"},
	}},
	{Name: "US Stocks", Assets: []Asset{
		{Name: "Apple (AAPL)", Ticker: "AAPL"},
		{Name: "Nvidia (NVDA)", Ticker: "NVDA"},
		{Name: "Microsoft (MSFT)", Ticker: "MSFT"},
	}},
	{Name: "Brazil Stocks", Assets: []Asset{
		{Name: "Petrobras (PETR4)", Ticker: "PETR4.SA"},
		{Name: "Vale (VALE3)", Ticker: "VALE3.SA"},
		{Name: "Itaú (ITUB4)", Ticker: "ITUB4.SA"},
	}},
}

// Categories returns a copy of the catalog in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Assets: append([]Asset(nil), c.Assets...)}
	}
	return out
}

// Lookup finds an asset by ticker or display name, case-insensitively.
func Lookup(key string) (Asset, bool) {
	key = strings.TrimSpace(key)
	for _, c := range categories {
		for _, a := range c.Assets {
			if strings.EqualFold(a.Ticker, key) || strings.EqualFold(a.Name, key) {
				return a, true
			}
		}
	}
	return Asset{}, false
}

// Resolve turns user input into a ticker and a display name. Catalog
// entries resolve to their ticker; anything else is upper-cased and used
// as both.
func Resolve(input string) (ticker, name string) {
	if a, ok := Lookup(input); ok {
		return a.Ticker, a.Name
	}
	t := strings.ToUpper(strings.TrimSpace(input))
	return t, t
}
