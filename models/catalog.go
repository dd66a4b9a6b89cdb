package models

// Catalog rows are immutable reference data owned by the catalog registry.
// Players and jobs reference them by name/id, never own them.

// Place is a named cell on the map. ProducedItem is what delivery jobs pick
// up here; AcceptedItem is what the place takes for a minijob payout (gas
// stations accept "gas" and double as refuel points).
type Place struct {
	Name         string   `json:"name"`
	Position     Position `json:"position"`
	ProducedItem string   `json:"produced_item,omitempty"`
	AcceptedItem string   `json:"accepted_item,omitempty"`
	Emoji        string   `json:"emoji"`
}

type Item struct {
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

type Truck struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	GasConsumption  int64  `json:"gas_consumption"` // gas burned per mile
	GasCapacity     int64  `json:"gas_capacity"`
	LoadingCapacity int    `json:"loading_capacity"` // max loaded items
	Emoji           string `json:"emoji"`
	Description     string `json:"description"`
}
