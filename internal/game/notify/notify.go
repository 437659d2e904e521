// Package notify composes and dispatches turn reminders. Delivery is
// behind the Dispatcher interface; the worker drains the reminder
// outbox written by the service on each accepted move.
package notify

import (
	"context"
	"fmt"
	"log"
)

// Reminder carries enough to tell a player it is their turn.
type Reminder struct {
	MatchID      string
	PlayerName   string
	PlayerEmail  string
	OpponentName string
}

// Message is a rendered reminder ready for delivery.
type Message struct {
	Subject string
	Body    string
}

// ComposeReminder renders the turn-reminder message for a player.
func ComposeReminder(r Reminder) Message {
	return Message{
		Subject: fmt.Sprintf("Your turn to play, %s!", r.PlayerName),
		Body: fmt.Sprintf("Hello %s, it's your turn to play in your game against %s!",
			r.PlayerName, r.OpponentName),
	}
}

// Dispatcher delivers a reminder message to a player.
type Dispatcher interface {
	Dispatch(ctx context.Context, r Reminder, msg Message) error
}

// LogDispatcher writes reminders to the process log. It stands in for
// a real mail sender in development and tests.
type LogDispatcher struct{}

// Dispatch logs the reminder.
func (LogDispatcher) Dispatch(_ context.Context, r Reminder, msg Message) error {
	log.Printf("reminder match_id=%s player=%s subject=%q", r.MatchID, r.PlayerName, msg.Subject)
	return nil
}
