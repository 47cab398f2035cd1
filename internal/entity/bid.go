// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package entity

import "time"

// Provenance records who created and last revised a record.
type Provenance struct {
	CreationName string     `json:"creationName"`
	CreationDate *time.Time `json:"creationDate,omitempty"`
	RevisionName string     `json:"revisionName"`
	RevisionDate *time.Time `json:"revisionDate,omitempty"`
}

// Stamp records actor as the reviser at t, and also as the creator when
// creating is set.
func (p Provenance) Stamp(actor string, t time.Time, creating bool) Provenance {
	at := t
	if creating {
		p.CreationName = actor
		p.CreationDate = &at
	}
	p.RevisionName = actor
	p.RevisionDate = &at
	return p
}

// keepCreation returns p with the creation fields of stored.
func (p Provenance) keepCreation(stored Provenance) Provenance {
	p.CreationName = stored.CreationName
	p.CreationDate = stored.CreationDate
	return p
}

// Bid is a bid list entry.
type Bid struct {
	ID           int64      `json:"id"`
	Account      string     `json:"account"`
	Type         string     `json:"type"`
	BidQuantity  float64    `json:"bidQuantity"`
	AskQuantity  *float64   `json:"askQuantity,omitempty"`
	BidAmount    *float64   `json:"bid,omitempty"`
	AskAmount    *float64   `json:"ask,omitempty"`
	Benchmark    string     `json:"benchmark"`
	BidListDate  *time.Time `json:"bidListDate,omitempty"`
	Commentary   string     `json:"commentary"`
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

// KindBid names Bid records.
const KindBid = "bid"

func (Bid) Kind() string { return KindBid }

func (b Bid) EntityID() int64 { return b.ID }

func (b Bid) WithID(id int64) Bid {
	b.ID = id
	return b
}

func (b Bid) Replace(stored Bid) Bid {
	b.ID = stored.ID
	b.Provenance = b.Provenance.keepCreation(stored.Provenance)
	return b
}

func (b Bid) Validate() error {
	return firstInvalid(
		required("account", b.Account),
		required("type", b.Type),
		positive("bidQuantity", b.BidQuantity),
	)
}
