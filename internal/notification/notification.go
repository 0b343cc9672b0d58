// Package notification delivers maintenance events to Slack, email and
// generic webhooks, and records them as in-app notifications.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/smtp"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

// Channel represents a notification delivery channel.
type Channel string

const (
	ChannelSlack   Channel = "slack"
	ChannelEmail   Channel = "email"
	ChannelWebhook Channel = "webhook"
)

// EventType is the outbound name of a notification type.
type EventType string

const (
	EventMaintenanceUpcoming EventType = "maintenance.upcoming"
	EventMaintenanceOverdue  EventType = "maintenance.overdue"
	EventLowStock            EventType = "inventory.low_stock"
	EventWorkOrderAssigned   EventType = "work_order.assigned"
	EventWorkOrderCompleted  EventType = "work_order.completed"
)

var eventTypes = map[model.NotificationType]EventType{
	model.NotificationUpcomingMaintenance: EventMaintenanceUpcoming,
	model.NotificationOverdueMaintenance:  EventMaintenanceOverdue,
	model.NotificationLowStock:            EventLowStock,
	model.NotificationWorkOrderAssigned:   EventWorkOrderAssigned,
	model.NotificationWorkOrderCompleted:  EventWorkOrderCompleted,
}

var titles = map[model.NotificationType]string{
	model.NotificationUpcomingMaintenance: "Upcoming Maintenance",
	model.NotificationOverdueMaintenance:  "Overdue Maintenance",
	model.NotificationLowStock:            "Low Stock",
	model.NotificationWorkOrderAssigned:   "Work Order Assigned",
	model.NotificationWorkOrderCompleted:  "Work Order Completed",
}

// Message represents a notification message.
type Message struct {
	EventType EventType      `json:"event_type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Severity  model.Severity `json:"severity,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// MessageFor converts an in-app notification into an outbound message.
func MessageFor(n *model.Notification) Message {
	event, ok := eventTypes[n.Type]
	if !ok {
		event = EventType(strings.ToLower(string(n.Type)))
	}
	title, ok := titles[n.Type]
	if !ok {
		title = string(n.Type)
	}
	data := map[string]any{"Notification": n.ID}
	if n.RelatedEntityID != "" {
		data["Entity"] = n.RelatedEntityType + " " + n.RelatedEntityID
	}
	return Message{
		EventType: event,
		Title:     title,
		Body:      n.Message,
		Severity:  n.Severity,
		Data:      data,
	}
}

// Config lists the outbound channels. A channel is active when its
// destination is set.
type Config struct {
	SlackWebhookURL string
	EmailSMTPHost   string
	EmailSMTPPort   int
	EmailFrom       string
	EmailPassword   string
	EmailRecipients []string
	WebhookURLs     []string
	// MaxAttempts bounds delivery attempts per channel; values below 1 mean one.
	MaxAttempts int
	RetryDelay  time.Duration
}

type deliverFunc func(ctx context.Context, msg Message) error

// Service fans a message out to every active channel.
type Service struct {
	cfg      Config
	client   *http.Client
	logger   *slog.Logger
	order    []Channel
	deliver  map[Channel]deliverFunc
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewService(cfg Config, logger *slog.Logger) *Service {
	s := &Service{
		cfg:      cfg,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger.With("component", "notification"),
		deliver:  make(map[Channel]deliverFunc),
		sendMail: smtp.SendMail,
	}

	s.enable(ChannelSlack, cfg.SlackWebhookURL != "", s.postSlack)
	s.enable(ChannelEmail, cfg.EmailSMTPHost != "", s.mail)
	s.enable(ChannelWebhook, len(cfg.WebhookURLs) > 0, s.postWebhooks)
	return s
}

func (s *Service) enable(ch Channel, on bool, fn deliverFunc) {
	if !on {
		return
	}
	s.order = append(s.order, ch)
	s.deliver[ch] = fn
}

func (s *Service) Enabled() bool { return len(s.order) > 0 }

func (s *Service) HasChannel(ch Channel) bool { return slices.Contains(s.order, ch) }

// Send delivers msg on each active channel, retrying per channel. The
// returned error joins every channel that still failed.
func (s *Service) Send(ctx context.Context, msg Message) error {
	msg.Timestamp = time.Now().UTC()

	var errs []error
	for _, ch := range s.order {
		fn := s.deliver[ch]
		if err := s.withRetry(ctx, func() error { return fn(ctx, msg) }); err != nil {
			s.logger.Error("delivery failed", "channel", ch, "event", msg.EventType, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", ch, err))
		}
	}
	return errors.Join(errs...)
}

// SendToChannel delivers once on ch, whether or not it is active.
func (s *Service) SendToChannel(ctx context.Context, ch Channel, msg Message) error {
	msg.Timestamp = time.Now().UTC()
	switch ch {
	case ChannelSlack:
		return s.postSlack(ctx, msg)
	case ChannelEmail:
		return s.mail(ctx, msg)
	case ChannelWebhook:
		return s.postWebhooks(ctx, msg)
	}
	return fmt.Errorf("unsupported channel: %s", ch)
}

// withRetry doubles the delay after each failed attempt.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	attempts := max(s.cfg.MaxAttempts, 1)
	delay := s.cfg.RetryDelay

	err := fn()
	for i := 1; i < attempts && err != nil; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		err = fn()
	}
	return err
}

// postJSON sends payload and treats any status outside 2xx as a failure.
func (s *Service) postJSON(ctx context.Context, url string, payload any, header http.Header) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

var slackColors = map[model.Severity]string{
	model.SeverityError:   "#FF0000",
	model.SeverityWarning: "#FF9800",
	model.SeveritySuccess: "#4CAF50",
}

func (s *Service) postSlack(ctx context.Context, msg Message) error {
	color, ok := slackColors[msg.Severity]
	if !ok {
		color = "#2196F3"
	}

	keys := lo.Keys(msg.Data)
	slices.Sort(keys)
	fields := lo.Map(keys, func(k string, _ int) map[string]any {
		return map[string]any{"title": k, "value": fmt.Sprint(msg.Data[k]), "short": true}
	})

	attachment := map[string]any{
		"color":  color,
		"title":  msg.Title,
		"text":   msg.Body,
		"footer": "CMMSMind",
		"ts":     msg.Timestamp.Unix(),
		"fields": fields,
	}
	if err := s.postJSON(ctx, s.cfg.SlackWebhookURL, map[string]any{"attachments": []any{attachment}}, nil); err != nil {
		return fmt.Errorf("slack: %w", err)
	}
	s.logger.Debug("slack message sent", "event", msg.EventType)
	return nil
}

func (s *Service) postWebhooks(ctx context.Context, msg Message) error {
	header := http.Header{"X-Cmmsmind-Event": []string{string(msg.EventType)}}

	var errs []error
	for _, url := range s.cfg.WebhookURLs {
		if err := s.postJSON(ctx, url, msg, header); err != nil {
			errs = append(errs, fmt.Errorf("webhook %s: %w", url, err))
		}
	}
	if len(errs) == 0 {
		s.logger.Debug("webhooks sent", "event", msg.EventType, "count", len(s.cfg.WebhookURLs))
	}
	return errors.Join(errs...)
}

// mail sends a plain-text message; without recipients it goes to the sender
// address. net/smtp has no context support, so ctx is unused.
func (s *Service) mail(_ context.Context, msg Message) error {
	if s.cfg.EmailSMTPHost == "" {
		return errors.New("email SMTP not configured")
	}

	to := s.cfg.EmailRecipients
	if len(to) == 0 {
		to = []string{s.cfg.EmailFrom}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.EmailFrom)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: [CMMSMind] %s\r\n", msg.Title)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&b, "%s\r\n\r\nEvent: %s\r\nSeverity: %s\r\nTime: %s",
		msg.Body, msg.EventType, msg.Severity, msg.Timestamp.Format(time.RFC3339))

	var auth smtp.Auth
	if s.cfg.EmailPassword != "" {
		auth = smtp.PlainAuth("", s.cfg.EmailFrom, s.cfg.EmailPassword, s.cfg.EmailSMTPHost)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.EmailSMTPHost, s.cfg.EmailSMTPPort)
	if err := s.sendMail(addr, auth, s.cfg.EmailFrom, to, []byte(b.String())); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	s.logger.Debug("email sent", "event", msg.EventType, "recipients", len(to))
	return nil
}
