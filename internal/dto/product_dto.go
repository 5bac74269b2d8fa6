package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductUnitResponse struct {
	Name             string          `json:"name"`
	SellPrice        decimal.Decimal `json:"sell_price"`
	BuyPrice         decimal.Decimal `json:"buy_price"`
	ConversionFactor int             `json:"conversion_factor"`
	IsBase           bool            `json:"is_base"`
}

type ProductResponse struct {
	ID       string                `json:"id"`
	Code     string                `json:"code"`
	Name     string                `json:"name"`
	Category string                `json:"category"`
	MinStock int                   `json:"min_stock"`
	Units    []ProductUnitResponse `json:"units"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ResolvedUnitResponse is the contract of GET /v1/products/:id/units/:unit.
type ResolvedUnitResponse struct {
	ProductID        string          `json:"product_id"`
	UnitName         string          `json:"unit_name"`
	SellPrice        decimal.Decimal `json:"sell_price"`
	ConversionFactor int             `json:"conversion_factor"`
}

type RecipeFeeResponse struct {
	RecipeID  string          `json:"recipe_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	TotalFee  decimal.Decimal `json:"total_fee"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type RecipeResponse struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Grinding FeeScheduleResponse `json:"grinding"`
	Wrapping FeeScheduleResponse `json:"wrapping"`
}

type FeeScheduleResponse struct {
	BaseFee             decimal.Decimal `json:"base_fee"`
	TierSize            int             `json:"tier_size"`
	AboveTierMultiplier decimal.Decimal `json:"above_tier_multiplier"`
}

// PriceLookupResponse is the public, cached price check payload.
type PriceLookupResponse struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}
