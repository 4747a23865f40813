package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"storagemarket/web/internal/config"
	"storagemarket/web/internal/email"
	"storagemarket/web/internal/logging"
	"storagemarket/web/internal/models"
	"storagemarket/web/internal/services"
)

// TaskType defines the type of a background task.
const (
	TypeListingConfirmation = "listing:confirm"
)

// Queue names.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// --- Task Client (Enqueuing tasks) ---

// RedisClientOpt returns the asynq connection options for the configured Redis.
func RedisClientOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

func NewClient(cfg *config.Config) *asynq.Client {
	return asynq.NewClient(RedisClientOpt(cfg))
}

// ListingConfirmationPayload is the payload of a TypeListingConfirmation task.
type ListingConfirmationPayload struct {
	ListingID    string `json:"listing_id"`
	Title        string `json:"title"`
	City         string `json:"city"`
	ContactEmail string `json:"contact_email"`
}

// NewListingConfirmationTask builds the confirmation task for a newly created listing.
func NewListingConfirmationTask(listing models.Listing) (*asynq.Task, error) {
	payload, err := json.Marshal(ListingConfirmationPayload{
		ListingID:    listing.ID,
		Title:        listing.Title,
		City:         listing.LocationCity,
		ContactEmail: listing.ContactEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal listing confirmation payload: %w", err)
	}
	return asynq.NewTask(TypeListingConfirmation, payload), nil
}

// Enqueuer is the part of *asynq.Client used by TaskNotifier.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskNotifier enqueues a confirmation email for every new listing.
type TaskNotifier struct {
	client Enqueuer
}

// NewTaskNotifier creates a notifier enqueuing through client.
func NewTaskNotifier(client Enqueuer) *TaskNotifier {
	return &TaskNotifier{client: client}
}

// ListingCreated implements services.IListingNotifier.
func (n *TaskNotifier) ListingCreated(ctx context.Context, listing models.Listing) error {
	task, err := NewListingConfirmationTask(listing)
	if err != nil {
		return err
	}
	info, err := n.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(5), asynq.Timeout(time.Minute))
	if err != nil {
		return fmt.Errorf("failed to enqueue %s for listing %s: %w", TypeListingConfirmation, listing.ID, err)
	}
	logging.Logger.WithFields(logrus.Fields{
		"listing_id": listing.ID,
		"task_id":    info.ID,
	}).Debug("Enqueued listing confirmation")
	return nil
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg                  *config.Config
	emailSender          email.Sender
	emailTemplateService services.IEmailTemplateService
	now                  func() time.Time
}

func NewTaskProcessor(cfg *config.Config, emailSender email.Sender, emailTemplateService services.IEmailTemplateService) *TaskProcessor {
	return &TaskProcessor{
		cfg:                  cfg,
		emailSender:          emailSender,
		emailTemplateService: emailTemplateService,
		now:                  time.Now,
	}
}

// SetupServer configures the Asynq server and registers the task handlers.
// The caller starts it with Start(mux) and stops it with Shutdown.
func SetupServer(redisOpt asynq.RedisClientOpt, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
			Logger: logging.Logger,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logging.Logger.WithFields(logrus.Fields{
					"task_type": task.Type(),
					"payload":   string(task.Payload()),
					"error":     err,
				}).Error("Task failed")
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeListingConfirmation, processor.HandleListingConfirmationTask)
	logging.Logger.Info("Registered background task handlers")

	return srv, mux
}

// --- Task Handlers ---

// HandleListingConfirmationTask emails the listing owner that the listing is live.
func (p *TaskProcessor) HandleListingConfirmationTask(ctx context.Context, t *asynq.Task) error {
	var payload ListingConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal listing confirmation payload: %v: %w", err, asynq.SkipRetry)
	}
	if strings.TrimSpace(payload.ContactEmail) == "" {
		return fmt.Errorf("listing %s has no contact email: %w", payload.ListingID, asynq.SkipRetry)
	}

	subject, body, err := p.emailTemplateService.Render(services.ListingConfirmationTemplate, map[string]string{
		"app_name":   p.cfg.AppName,
		"title":      payload.Title,
		"city":       payload.City,
		"listing_id": payload.ListingID,
	})
	if err != nil {
		// Non-retryable if template is broken
		return fmt.Errorf("failed to render listing confirmation: %v: %w", err, asynq.SkipRetry)
	}

	fromAddress := p.cfg.SmtpFromAddress
	if fromAddress == "" {
		fromAddress = "noreply@example.com"
	}
	rawMessage := email.BuildMessage(fromAddress, payload.ContactEmail, subject, body, p.now())

	if err := p.emailSender.Send(ctx, []string{payload.ContactEmail}, subject, rawMessage); err != nil {
		return fmt.Errorf("failed to send listing confirmation for %s: %w", payload.ListingID, err)
	}

	logging.Logger.WithField("listing_id", payload.ListingID).Info("Listing confirmation sent")
	return nil
}
