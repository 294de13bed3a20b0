package jobs

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/MesaLista/mesabot-backend/internal/services"
	"github.com/MesaLista/mesabot-backend/internal/storage"
)

// ReminderJob sends day-before reminders for confirmed reservations
type ReminderJob struct {
	store        storage.Store
	sender       services.MessageSender
	restaurantID string
	isRunning    atomic.Bool // Stop races the scheduler goroutine
}

// NewReminderJob creates a new reminder job scheduler
func NewReminderJob(store storage.Store, sender services.MessageSender, restaurantID string) *ReminderJob {
	return &ReminderJob{
		store:        store,
		sender:       sender,
		restaurantID: restaurantID,
	}
}

// Start begins the scheduled reminder job
func (j *ReminderJob) Start() {
	if j.sender == nil {
		log.Println("Reminder job disabled, no message sender configured")
		return
	}
	if !j.isRunning.CompareAndSwap(false, true) {
		log.Println("Reminder job already running")
		return
	}

	log.Println("Starting reservation reminder job...")

	go j.scheduleDailyReminders()
}

// Stop halts the scheduled job
func (j *ReminderJob) Stop() {
	j.isRunning.Store(false)
	log.Println("Stopping reservation reminder job...")
}

// scheduleDailyReminders runs every day at 11 AM
func (j *ReminderJob) scheduleDailyReminders() {
	for j.isRunning.Load() {
		now := time.Now()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), 11, 0, 0, 0, now.Location())
		if now.After(nextRun) {
			nextRun = nextRun.Add(24 * time.Hour)
		}

		duration := nextRun.Sub(now)
		log.Printf("Next reservation reminder run scheduled in %v", duration)
		time.Sleep(duration)

		if !j.isRunning.Load() {
			break
		}

		j.sendTomorrowReminders()
	}
}

// sendTomorrowReminders messages every customer with a confirmed
// reservation for tomorrow.
func (j *ReminderJob) sendTomorrowReminders() {
	tomorrow := services.FormatDate(time.Now().AddDate(0, 0, 1))
	log.Printf("Sending reminders for reservations on %s...", tomorrow)

	reservations, err := j.store.GetReservationsByDate(j.restaurantID, tomorrow)
	if err != nil {
		log.Printf("Error getting reservations for %s: %v", tomorrow, err)
		return
	}

	sentCount := 0
	for _, res := range reservations {
		message := fmt.Sprintf(
			"¡Hola %s! Te recordamos tu reserva de mañana %s a las %s para %d personas.",
			res.Name, res.Date, res.Time, res.PartySize)
		if res.RiceType != "" {
			message += fmt.Sprintf(" Tenemos apuntado: %s (%d raciones).", res.RiceType, res.RiceServings)
		}
		message += " Si no puedes venir, avísanos por aquí. ¡Hasta mañana!"

		if err := j.sender.SendWhatsAppMessage(res.Phone, message); err != nil {
			log.Printf("Failed to send reminder to %s: %v", res.Phone, err)
			continue
		}
		sentCount++
	}

	log.Printf("Reservation reminders sent: %d", sentCount)
}
