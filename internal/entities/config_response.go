package entities

type ConfigResponse struct {
	OpeningHours string `json:"orariApertura"`
	SlotDuration int    `json:"durataSlot"`
	MaxPlayers   int    `json:"maxGiocatori"`
	PriceUnder18 int    `json:"prezzoUnder18"`
	PriceOver18  int    `json:"prezzoOver18"`
	Address      string `json:"indirizzo"`
	ContactMarco string `json:"contattoMarco"`
	ContactLuigi string `json:"contattoLuigi"`
	Instagram    string `json:"instagram"`
}

type StatsResponse struct {
	Total        int `json:"totali"`
	Today        int `json:"oggi"`
	ThisWeek     int `json:"questaSettimana"`
	BlockedSlots int `json:"slotBloccati"`
}
