package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/metrics"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	maxTries       = 3
	maxErrorDelay  = 30 * time.Second
)

// Notifier is what the lifecycle managers depend on. Send only enqueues.
type Notifier interface {
	Send(ctx context.Context, toActorID string, kind Kind, vars Vars) error
}

type RecipientLookup interface {
	EmailOf(ctx context.Context, id string) (string, error)
}

type Job struct {
	To      string    `json:"to"`
	Kind    Kind      `json:"kind"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type SMTPConfig struct {
	From     string
	FromName string
	Host     string
	Port     string
	User     string
	Pass     string
}

type Service struct {
	redis      *redis.Client
	recipients RecipientLookup
	smtp       SMTPConfig
	retryDelay time.Duration
	errorDelay time.Duration
	deliver    func(Job) error
}

func New(rdb *redis.Client, recipients RecipientLookup, cfg SMTPConfig) *Service {
	s := &Service{
		redis:      rdb,
		recipients: recipients,
		smtp:       cfg,
		retryDelay: 5 * time.Second,
		errorDelay: time.Second,
	}
	s.deliver = s.sendSMTP
	return s
}

func (s *Service) Send(ctx context.Context, toActorID string, kind Kind, vars Vars) error {
	subject, body, err := Render(kind, vars)
	if err != nil {
		return err
	}

	to, err := s.recipients.EmailOf(ctx, toActorID)
	if err != nil {
		metrics.RecordNotification(string(kind), "unresolved")
		return fmt.Errorf("resolve recipient %s: %w", toActorID, err)
	}

	job := Job{
		To:      to,
		Kind:    kind,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		metrics.RecordNotification(string(kind), "failed")
		return fmt.Errorf("queue notification %s: %w", kind, err)
	}

	metrics.RecordNotification(string(kind), "queued")
	logger.Debugf("Notification queued: %s to %s", kind, toActorID)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	var backoff time.Duration
	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
		}

		if err := s.processNext(ctx); err != nil {
			backoff = nextBackoff(backoff, s.errorDelay, maxErrorDelay)
			logger.WithError(err).Warn("notification queue unavailable", "retry_in", backoff.String())
			select {
			case <-ctx.Done():
				logger.Info("Notification worker stopped")
				return
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0
	}
}

// nextBackoff doubles from base up to limit.
func nextBackoff(prev, base, limit time.Duration) time.Duration {
	if prev <= 0 {
		return base
	}
	if next := prev * 2; next < limit {
		return next
	}
	return limit
}

// processNext handles one job. It returns an error only when the queue itself
// could not be read; an empty poll is not an error.
func (s *Service) processNext(ctx context.Context) error {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return nil
		}
		return err
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return nil
	}

	job.Tries++
	if deliverErr := s.deliver(job); deliverErr != nil {
		logger.Errorf("Failed to deliver %s to %s (attempt %d): %v", job.Kind, job.To, job.Tries, deliverErr)

		if job.Tries < maxTries {
			time.Sleep(s.retryDelay)
			s.requeue(job)
		} else {
			s.saveFailed(job, deliverErr)
		}
		return nil
	}

	metrics.RecordNotification(string(job.Kind), "sent")
	return nil
}

func (s *Service) requeue(job Job) {
	data, err := json.Marshal(job)
	if err != nil {
		logger.WithError(err).Error("notification not requeued", "kind", string(job.Kind), "to", job.To)
		return
	}
	if err := s.redis.LPush(context.Background(), queueKey, data).Err(); err != nil {
		metrics.RecordNotification(string(job.Kind), "dropped")
		logger.WithError(err).Error("notification not requeued", "kind", string(job.Kind), "to", job.To, "tries", job.Tries)
	}
}

func (s *Service) sendSMTP(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.smtp.FromName, s.smtp.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtp.User != "" && s.smtp.Pass != "" {
		auth = smtp.PlainAuth("", s.smtp.User, s.smtp.Pass, s.smtp.Host)
	}

	addr := s.smtp.Host + ":" + s.smtp.Port
	return smtp.SendMail(addr, auth, s.smtp.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	metrics.RecordNotification(string(job.Kind), "failed")

	data, err := json.Marshal(failed)
	if err == nil {
		err = s.redis.LPush(context.Background(), failedQueueKey, data).Err()
	}
	if err != nil {
		logger.WithError(err).Error("failed notification not parked", "kind", string(job.Kind), "to", job.To)
		return
	}
	logger.Errorf("Notification moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.NotificationQueueLength.Set(float64(length))
	return length
}

// Nop drops every notification. Used when redis is not configured.
type Nop struct{}

func (Nop) Send(context.Context, string, Kind, Vars) error { return nil }
