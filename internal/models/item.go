package models

import "time"

// Item represents a priced, stat-bearing catalog entry.
type Item struct {
	Name        string       `json:"name" validate:"required,max=30"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price       float64      `json:"price" validate:"gte=0"`
	SellPrice   float64      `json:"sell_price" validate:"ltfield=Price"`
	Stats       map[Stat]int `json:"stats" validate:"dive,keys,stat,endkeys"`
}

// Clone returns a deep copy so stored items are never aliased by callers.
func (i Item) Clone() Item {
	out := i
	if i.Description != nil {
		d := *i.Description
		out.Description = &d
	}
	out.Stats = make(map[Stat]int, len(i.Stats))
	for k, v := range i.Stats {
		out.Stats[k] = v
	}
	return out
}

// PriceFilter selects items by price. GreaterOrEqual true keeps
// price >= Threshold, false keeps price < Threshold.
type PriceFilter struct {
	Threshold      float64
	GreaterOrEqual bool
}

// Matches reports whether price passes the filter.
func (f PriceFilter) Matches(price float64) bool {
	if f.GreaterOrEqual {
		return price >= f.Threshold
	}
	return price < f.Threshold
}

// ItemFilter narrows an item listing. An item must carry every stat in
// Stats to qualify. A nil Price disables price filtering.
type ItemFilter struct {
	Stats []Stat
	Price *PriceFilter
}

// ItemEventType names what happened to an item.
type ItemEventType string

const (
	ItemCreated ItemEventType = "item.created"
	ItemUpdated ItemEventType = "item.updated"
	ItemDeleted ItemEventType = "item.deleted"
)

// ItemEvent is published after a successful item mutation.
type ItemEvent struct {
	ID         string        `json:"id"`
	Type       ItemEventType `json:"type"`
	ItemName   string        `json:"item_name"`
	OccurredAt time.Time     `json:"occurred_at"`
}
