package service

import (
	"beachvolley/internal/db"
	"beachvolley/internal/entities"
	"beachvolley/internal/utils"
	"bytes"
	"fmt"
	"html/template"
	"sync"
	"time"

	"go.uber.org/zap"
)

var noticeTemplate = template.Must(template.New("notice").Parse(`<h2>{{.Title}}</h2>
<ul>
  <li><b>Nome:</b> {{.Data.Name}}</li>
  <li><b>Telefono:</b> {{.Data.Phone}}</li>
  <li><b>Data:</b> {{.Data.DateFormatted}}</li>
  <li><b>Orario:</b> {{.Data.Time}}</li>
  <li><b>Giocatori:</b> {{.Data.Players}}</li>
  {{if .Data.Note}}<li><b>Note:</b> {{.Data.Note}}</li>{{end}}
</ul>
<p>Codice prenotazione: {{.Data.ReservationID}}</p>`))

// SenderService sends booking notices in the background: an SMS to the
// customer and an email to the facility. Either channel may be nil.
type SenderService struct {
	sms         SMSSender
	email       EmailSender
	notifyEmail string
	loc         *time.Location
	logger      *zap.Logger
	wg          sync.WaitGroup
}

func NewSenderService(sms SMSSender, email EmailSender, notifyEmail string, loc *time.Location, logger *zap.Logger) *SenderService {
	return &SenderService{sms: sms, email: email, notifyEmail: notifyEmail, loc: loc, logger: logger}
}

func (s *SenderService) noticeData(res db.Reservation) entities.ReservationNoticeData {
	formatted := res.Date
	if day, err := time.ParseInLocation(utils.DateLayout, res.Date, s.loc); err == nil {
		formatted = day.Format("02/01/2006")
	}
	return entities.ReservationNoticeData{
		Name:          res.Name,
		Phone:         res.Phone,
		DateFormatted: formatted,
		Time:          res.Time,
		Players:       res.Players,
		Note:          res.Note,
		ReservationID: res.ID,
	}
}

func (s *SenderService) NotifyBooking(res db.Reservation) {
	data := s.noticeData(res)
	s.sendSMS(data, fmt.Sprintf("Beach Volley Preturo: prenotazione confermata per il %s alle %s (%d giocatori). Codice: %s",
		data.DateFormatted, data.Time, data.Players, data.ReservationID))
	s.sendEmail(data, fmt.Sprintf("Nuova prenotazione %s %s - %s", data.DateFormatted, data.Time, data.Name), "Nuova prenotazione")
}

func (s *SenderService) NotifyCancellation(res db.Reservation) {
	data := s.noticeData(res)
	s.sendSMS(data, fmt.Sprintf("Beach Volley Preturo: la prenotazione del %s alle %s è stata cancellata.",
		data.DateFormatted, data.Time))
	s.sendEmail(data, fmt.Sprintf("Prenotazione cancellata %s %s - %s", data.DateFormatted, data.Time, data.Name), "Prenotazione cancellata")
}

func (s *SenderService) sendSMS(data entities.ReservationNoticeData, body string) {
	if s.sms == nil || data.Phone == "" {
		return
	}
	to := NormalizePhone(data.Phone)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.sms.SendSMS(to, body); err != nil {
			s.logger.Warn("Failed to send SMS", zap.String("reservation", data.ReservationID), zap.String("to", to), zap.Error(err))
		}
	}()
}

func (s *SenderService) sendEmail(data entities.ReservationNoticeData, subject, title string) {
	if s.email == nil || s.notifyEmail == "" {
		return
	}
	var html bytes.Buffer
	if err := noticeTemplate.Execute(&html, struct {
		Title string
		Data  entities.ReservationNoticeData
	}{title, data}); err != nil {
		s.logger.Error("Failed to render notice email", zap.String("reservation", data.ReservationID), zap.Error(err))
		return
	}
	plain := fmt.Sprintf("%s\n\nNome: %s\nTelefono: %s\nData: %s\nOrario: %s\nGiocatori: %d\nNote: %s\nCodice: %s\n",
		title, data.Name, data.Phone, data.DateFormatted, data.Time, data.Players, data.Note, data.ReservationID)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.email.SendEmail(s.notifyEmail, "Beach Volley Preturo", subject, plain, html.String()); err != nil {
			s.logger.Warn("Failed to send notice email", zap.String("reservation", data.ReservationID), zap.Error(err))
		}
	}()
}

// Wait blocks until every pending notice has been handed off.
func (s *SenderService) Wait() {
	s.wg.Wait()
}
