// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package postgres

import (
	"github.com/jackc/pgx/v5"

	"github.com/poseiden/backoffice/internal/entity"
	"github.com/poseiden/backoffice/internal/store"
)

// BidMapping maps entity.Bid to bid_list.
func BidMapping() Mapping[entity.Bid] {
	return Mapping[entity.Bid]{
		Table:    "bid_list",
		IDColumn: "bid_list_id",
		Columns: []string{
			"account", "type", "bid_quantity", "ask_quantity", "bid", "ask", "benchmark",
			"bid_list_date", "commentary", "security", "status", "trader", "book",
			"creation_name", "creation_date", "revision_name", "revision_date",
			"deal_name", "deal_type", "source_list_id", "side",
		},
		Values: func(b entity.Bid) []any {
			return []any{
				b.Account, b.Type, b.BidQuantity, b.AskQuantity, b.BidAmount, b.AskAmount, b.Benchmark,
				b.BidListDate, b.Commentary, b.Security, b.Status, b.Trader, b.Book,
				b.CreationName, b.CreationDate, b.RevisionName, b.RevisionDate,
				b.DealName, b.DealType, b.SourceListID, b.Side,
			}
		},
		Scan: func(row pgx.Row) (entity.Bid, error) {
			var b entity.Bid
			err := row.Scan(&b.ID,
				&b.Account, &b.Type, &b.BidQuantity, &b.AskQuantity, &b.BidAmount, &b.AskAmount, &b.Benchmark,
				&b.BidListDate, &b.Commentary, &b.Security, &b.Status, &b.Trader, &b.Book,
				&b.CreationName, &b.CreationDate, &b.RevisionName, &b.RevisionDate,
				&b.DealName, &b.DealType, &b.SourceListID, &b.Side,
			)
			return b, err
		},
	}
}

// CurvePointMapping maps entity.CurvePoint to curve_point.
func CurvePointMapping() Mapping[entity.CurvePoint] {
	return Mapping[entity.CurvePoint]{
		Table:    "curve_point",
		IDColumn: "id",
		Columns:  []string{"curve_id", "as_of_date", "term", "value", "creation_date"},
		Values: func(c entity.CurvePoint) []any {
			return []any{c.CurveID, c.AsOfDate, c.Term, c.Value, c.CreationDate}
		},
		Scan: func(row pgx.Row) (entity.CurvePoint, error) {
			var c entity.CurvePoint
			err := row.Scan(&c.ID, &c.CurveID, &c.AsOfDate, &c.Term, &c.Value, &c.CreationDate)
			return c, err
		},
	}
}

// RatingMapping maps entity.Rating to rating.
func RatingMapping() Mapping[entity.Rating] {
	return Mapping[entity.Rating]{
		Table:    "rating",
		IDColumn: "id",
		Columns:  []string{"moodys_rating", "sand_p_rating", "fitch_rating", "order_number"},
		Values: func(r entity.Rating) []any {
			return []any{r.MoodysRating, r.SandPRating, r.FitchRating, r.OrderNumber}
		},
		Scan: func(row pgx.Row) (entity.Rating, error) {
			var r entity.Rating
			err := row.Scan(&r.ID, &r.MoodysRating, &r.SandPRating, &r.FitchRating, &r.OrderNumber)
			return r, err
		},
	}
}

// RuleMapping maps entity.Rule to rule_name.
func RuleMapping() Mapping[entity.Rule] {
	return Mapping[entity.Rule]{
		Table:    "rule_name",
		IDColumn: "id",
		Columns:  []string{"name", "description", "json", "template", "sql_str", "sql_part"},
		Values: func(r entity.Rule) []any {
			return []any{r.Name, r.Description, r.JSON, r.Template, r.SQLStr, r.SQLPart}
		},
		Scan: func(row pgx.Row) (entity.Rule, error) {
			var r entity.Rule
			err := row.Scan(&r.ID, &r.Name, &r.Description, &r.JSON, &r.Template, &r.SQLStr, &r.SQLPart)
			return r, err
		},
	}
}

// TradeMapping maps entity.Trade to trade.
func TradeMapping() Mapping[entity.Trade] {
	return Mapping[entity.Trade]{
		Table:    "trade",
		IDColumn: "trade_id",
		Columns: []string{
			"account", "type", "buy_quantity", "sell_quantity", "buy_price", "sell_price", "benchmark",
			"trade_date", "security", "status", "trader", "book",
			"creation_name", "creation_date", "revision_name", "revision_date",
			"deal_name", "deal_type", "source_list_id", "side",
		},
		Values: func(t entity.Trade) []any {
			return []any{
				t.Account, t.Type, t.BuyQuantity, t.SellQuantity, t.BuyPrice, t.SellPrice, t.Benchmark,
				t.TradeDate, t.Security, t.Status, t.Trader, t.Book,
				t.CreationName, t.CreationDate, t.RevisionName, t.RevisionDate,
				t.DealName, t.DealType, t.SourceListID, t.Side,
			}
		},
		Scan: func(row pgx.Row) (entity.Trade, error) {
			var t entity.Trade
			err := row.Scan(&t.ID,
				&t.Account, &t.Type, &t.BuyQuantity, &t.SellQuantity, &t.BuyPrice, &t.SellPrice, &t.Benchmark,
				&t.TradeDate, &t.Security, &t.Status, &t.Trader, &t.Book,
				&t.CreationName, &t.CreationDate, &t.RevisionName, &t.RevisionDate,
				&t.DealName, &t.DealType, &t.SourceListID, &t.Side,
			)
			return t, err
		},
	}
}

// NewBidRepository returns the bid_list repository.
func NewBidRepository(pool store.Pool) *Repository[entity.Bid] {
	return NewRepository(pool, BidMapping())
}

// NewCurvePointRepository returns the curve_point repository.
func NewCurvePointRepository(pool store.Pool) *Repository[entity.CurvePoint] {
	return NewRepository(pool, CurvePointMapping())
}

// NewRatingRepository returns the rating repository.
func NewRatingRepository(pool store.Pool) *Repository[entity.Rating] {
	return NewRepository(pool, RatingMapping())
}

// NewRuleRepository returns the rule_name repository.
func NewRuleRepository(pool store.Pool) *Repository[entity.Rule] {
	return NewRepository(pool, RuleMapping())
}

// NewTradeRepository returns the trade repository.
func NewTradeRepository(pool store.Pool) *Repository[entity.Trade] {
	return NewRepository(pool, TradeMapping())
}

var (
	_ entity.Repository[entity.Bid]        = (*Repository[entity.Bid])(nil)
	_ entity.Repository[entity.CurvePoint] = (*Repository[entity.CurvePoint])(nil)
	_ entity.Repository[entity.Rating]     = (*Repository[entity.Rating])(nil)
	_ entity.Repository[entity.Rule]       = (*Repository[entity.Rule])(nil)
	_ entity.Repository[entity.Trade]      = (*Repository[entity.Trade])(nil)
)
