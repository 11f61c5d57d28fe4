package quoteapi

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/credix-checkout/internal/checkout"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed string

// Product is a sellable catalog entry.
type Product struct {
	SKU   string          `yaml:"sku"`
	Name  string          `yaml:"name"`
	Price decimal.Decimal `yaml:"price"`
}

// SellerConfig is the credit arrangement between a buyer and one seller.
type SellerConfig struct {
	TaxID              string `yaml:"tax_id"`
	MaxPaymentTermDays int    `yaml:"max_payment_term_days"`
}

// Buyer is a directory entry keyed by CNPJ digits.
type Buyer struct {
	TaxID                string         `yaml:"tax_id"`
	Approved             bool           `yaml:"approved"`
	AvailableCreditCents int64          `yaml:"available_credit_cents"`
	SellerConfigs        []SellerConfig `yaml:"seller_configs"`
}

// Seed is the catalog and buyer directory a Service starts with.
type Seed struct {
	SellerTaxID string    `yaml:"seller_tax_id"`
	Products    []Product `yaml:"products"`
	Buyers      []Buyer   `yaml:"buyers"`
}

// DefaultSeed returns the embedded development data.
func DefaultSeed() Seed {
	seed, err := LoadSeed(strings.NewReader(defaultSeed))
	if err != nil {
		panic(fmt.Sprintf("embedded quoteapi seed: %v", err))
	}
	return seed
}

// LoadSeed decodes a YAML seed and normalizes tax ids to digits.
func LoadSeed(r io.Reader) (Seed, error) {
	var seed Seed
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	seed.SellerTaxID = checkout.DigitsOnly(seed.SellerTaxID)
	seen := make(map[string]bool, len(seed.Products))
	for _, p := range seed.Products {
		if strings.TrimSpace(p.SKU) == "" {
			return Seed{}, fmt.Errorf("seed product %q has no sku", p.Name)
		}
		if seen[p.SKU] {
			return Seed{}, fmt.Errorf("seed product sku %q repeats", p.SKU)
		}
		if p.Price.IsNegative() {
			return Seed{}, fmt.Errorf("seed product %q has a negative price", p.SKU)
		}
		seen[p.SKU] = true
	}
	for i := range seed.Buyers {
		seed.Buyers[i].TaxID = checkout.DigitsOnly(seed.Buyers[i].TaxID)
		for j := range seed.Buyers[i].SellerConfigs {
			seed.Buyers[i].SellerConfigs[j].TaxID = checkout.DigitsOnly(seed.Buyers[i].SellerConfigs[j].TaxID)
		}
	}
	return seed, nil
}
