package app

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/jam3ahq/jam3a/internal/domain"
	"github.com/jam3ahq/jam3a/pkg/common"
	"github.com/jam3ahq/jam3a/pkg/metrics"
)

// Event bus topics.
const (
	EventDealCompleted = "deal.completed"
)

func (a *Application) initEvents() {
	if err := a.bus.Subscribe(EventDealCompleted, a.onDealCompleted); err != nil {
		zap.L().Error("failed to subscribe deal.completed", zap.Error(err))
	}
}

func (a *Application) onDealCompleted(deal domain.Deal) {
	zap.L().Info("deal completed",
		zap.Int64("deal_id", deal.ID),
		zap.String("code", deal.Code),
		zap.Int("participants", deal.CurrentParticipants),
	)
	metrics.IncrCounter("deal_completed_events", 1)

	notify := a.GetSettingsStringValue("deals", "NotifyEmail")
	if common.IsEmptyOrNA(notify) {
		notify = a.appConfig.Smtp.AdminTo
	}
	if !a.appConfig.Smtp.Enabled || common.IsEmptyOrNA(notify) {
		return
	}
	go a.sendDealCompletedMail(notify, deal)
}

// sendDealCompletedMail sends a plain-text notification; storefront email
// templates live outside this service.
func (a *Application) sendDealCompletedMail(to string, deal domain.Deal) {
	smtp := a.appConfig.Smtp
	m := gomail.NewMessage()
	m.SetHeader("From", smtp.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Jam3a %s completed", deal.Code))
	m.SetBody("text/plain", fmt.Sprintf(
		"Deal %q (%s) reached %d/%d participants and is now completed.",
		deal.Title, deal.Code, deal.CurrentParticipants, deal.MaxParticipants))

	d := gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	if err := d.DialAndSend(m); err != nil {
		zap.L().Error("failed to send deal completion mail", zap.Error(err))
	}
}
