package entities

type ReservationRequest struct {
	Name    string `json:"nome"`
	Phone   string `json:"telefono"`
	Date    string `json:"data"`
	Time    string `json:"orario"`
	Players int    `json:"numero_giocatori"`
	Note    string `json:"note"`
}

type SlotStatusRequest struct {
	Date   string `json:"data"`
	Time   string `json:"orario"`
	Kind   string `json:"tipo"`
	Reason string `json:"motivo"`
}
