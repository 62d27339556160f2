package entities

type ReservationNoticeData struct {
	Name          string
	Phone         string
	DateFormatted string
	Time          string
	Players       int
	Note          string
	ReservationID string
}
