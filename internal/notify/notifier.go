// Package notify delivers booking confirmations, cancellations and
// reminders over email and SMS. The engine never calls it; services pass in
// appointment field values after their computations complete.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/timefly/timefly/internal/model"
)

// Notifier fans one appointment event out to email and SMS. Either channel
// may be absent; a delivery failure on one channel never blocks the other.
type Notifier struct {
	email  EmailSender
	sms    SMSSender
	logger *zap.Logger
}

func NewNotifier(email EmailSender, sms SMSSender, logger *zap.Logger) *Notifier {
	return &Notifier{
		email:  email,
		sms:    sms,
		logger: logger,
	}
}

// BookingConfirmed notifies the patient that the appointment is booked.
func (n *Notifier) BookingConfirmed(ctx context.Context, a *model.Appointment) {
	subject := "Your TimeFly appointment is booked"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment with %s is booked for %s at %s.\nYour queue number is %d.\n\nSee you at the clinic!",
		a.PatientName, a.DoctorName, a.Date, a.Time, a.QueueNumber,
	)
	sms := fmt.Sprintf("TimeFly: appointment with %s on %s at %s. Queue #%d.",
		a.DoctorName, a.Date, a.Time, a.QueueNumber)

	n.deliver(ctx, a, subject, body, sms)
}

// BookingCancelled notifies the patient that the appointment was cancelled.
func (n *Notifier) BookingCancelled(ctx context.Context, a *model.Appointment) {
	subject := "Your TimeFly appointment was cancelled"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment with %s on %s at %s has been cancelled.\nYou can book a new slot any time.",
		a.PatientName, a.DoctorName, a.Date, a.Time,
	)
	sms := fmt.Sprintf("TimeFly: your appointment with %s on %s at %s was cancelled.",
		a.DoctorName, a.Date, a.Time)

	n.deliver(ctx, a, subject, body, sms)
}

// Reminder nudges the patient about an upcoming appointment.
func (n *Notifier) Reminder(ctx context.Context, a *model.Appointment) {
	subject := "Reminder: your TimeFly appointment tomorrow"
	body := fmt.Sprintf(
		"Hi %s,\n\nThis is a reminder of your appointment with %s on %s at %s.",
		a.PatientName, a.DoctorName, a.Date, a.Time,
	)
	sms := fmt.Sprintf("TimeFly reminder: %s on %s at %s.", a.DoctorName, a.Date, a.Time)

	n.deliver(ctx, a, subject, body, sms)
}

func (n *Notifier) deliver(ctx context.Context, a *model.Appointment, subject, body, sms string) {
	if n.email != nil && a.Email != "" {
		err := n.email.SendEmail(ctx, EmailMessage{
			To:      a.Email,
			ToName:  a.PatientName,
			Subject: subject,
			Body:    body,
		})
		if err != nil {
			n.logger.Warn("email delivery failed",
				zap.String("appointment_id", a.ID),
				zap.Error(err))
		}
	}

	if n.sms != nil && a.Phone != "" {
		if err := n.sms.SendSMS(ctx, a.Phone, sms); err != nil {
			n.logger.Warn("sms delivery failed",
				zap.String("appointment_id", a.ID),
				zap.Error(err))
		}
	}
}
