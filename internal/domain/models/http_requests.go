package models

// Requests for HTTP endpoints. Defined in domain for consistency and reuse.

type PortfolioQuery struct {
	UserID string `query:"user_id" json:"user_id" validate:"required"`
}

type MarketQuery struct {
	Sector string `query:"sector" json:"sector" default:"Any" validate:"oneof=Banking Technology Energy Healthcare 'Consumer Goods' 'Real Estate' Manufacturing Telecommunications Transportation Utilities Any"`
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=500"`
}

type RecordsQuery struct {
	Symbol  string `query:"symbol" json:"symbol" validate:"required,ticker"`
	Horizon string `query:"horizon" json:"horizon" default:"medium" validate:"oneof=short medium long"`
	Limit   int    `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=10000"`
}

type HistoryQuery struct {
	UserID string `query:"user_id" json:"user_id" validate:"required"`
	Limit  int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=100"`
}
