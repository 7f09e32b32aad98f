package notify

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// DiscordSink posts events to a site channel so the crew sees task and
// attendance activity as it happens.
type DiscordSink struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordSink(token, channelID string) (*DiscordSink, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	return &DiscordSink{
		session:   session,
		channelID: channelID,
	}, nil
}

func (s *DiscordSink) Send(event Event) error {
	_, err := s.session.ChannelMessageSend(s.channelID, formatEvent(event))
	if err != nil {
		return fmt.Errorf("error sending to Discord: %w", err)
	}
	return nil
}

func formatEvent(event Event) string {
	var b strings.Builder
	b.WriteString("**")
	b.WriteString(headline(event.Type))
	b.WriteString("**")
	for _, key := range []string{"employee_id", "project_id", "date", "task_ids", "status", "work_area", "floor", "zone"} {
		if v, ok := event.Payload[key]; ok {
			fmt.Fprintf(&b, " | %s: %v", key, v)
		}
	}
	return b.String()
}

func headline(eventType string) string {
	switch eventType {
	case "task.assigned":
		return "Tasks assigned"
	case "task.location_changed":
		return "Task location changed"
	case "attendance.checked_in":
		return "Worker checked in"
	case "attendance.checked_out":
		return "Worker checked out"
	case "leave.decided":
		return "Leave request decided"
	default:
		return eventType
	}
}
