// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package entity

import "time"

// Trade is an executed or pending trade.
type Trade struct {
	ID           int64      `json:"id"`
	Account      string     `json:"account"`
	Type         string     `json:"type"`
	BuyQuantity  *float64   `json:"buyQuantity,omitempty"`
	SellQuantity *float64   `json:"sellQuantity,omitempty"`
	BuyPrice     *float64   `json:"buyPrice,omitempty"`
	SellPrice    *float64   `json:"sellPrice,omitempty"`
	Benchmark    string     `json:"benchmark"`
	TradeDate    *time.Time `json:"tradeDate,omitempty"`
	Security     string     `json:"security"`
	Status       string     `json:"status"`
	Trader       string     `json:"trader"`
	Book         string     `json:"book"`
	DealName     string     `json:"dealName"`
	DealType     string     `json:"dealType"`
	SourceListID string     `json:"sourceListId"`
	Side         string     `json:"side"`
	Provenance
}

// KindTrade names Trade records.
const KindTrade = "trade"

func (Trade) Kind() string { return KindTrade }

func (t Trade) EntityID() int64 { return t.ID }

func (t Trade) WithID(id int64) Trade {
	t.ID = id
	return t
}

func (t Trade) Replace(stored Trade) Trade {
	t.ID = stored.ID
	t.Provenance = t.Provenance.keepCreation(stored.Provenance)
	return t
}

func (t Trade) Validate() error {
	var buy *ValidationError
	if t.BuyQuantity != nil {
		buy = positive("buyQuantity", *t.BuyQuantity)
	}
	return firstInvalid(
		required("account", t.Account),
		required("type", t.Type),
		buy,
	)
}
