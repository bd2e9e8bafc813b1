package services

import (
	"context"
	"fmt"
	"strings"

	"headstone-api/internal/mailer"
	"headstone-api/internal/metrics"
	"headstone-api/internal/models"
	"headstone-api/internal/storage"
	"headstone-api/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	SkipReasonMissingEmail = "missing_email"
	fallbackCustomerName   = "Client"
)

type notificationService struct {
	store    storage.Store
	sender   mailer.Sender
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(store storage.Store, sender mailer.Sender, validate *validator.Validate, m *metrics.Metrics, logger *zap.Logger) NotificationService {
	return &notificationService{store: store, sender: sender, validate: validate, metrics: m, logger: logger.Named("notifications")}
}

// RenderTemplate substitutes the customer tokens in text.
func RenderTemplate(text string, c *models.Customer) string {
	name := strings.TrimSpace(c.FullName)
	if name == "" {
		name = fallbackCustomerName
	}
	first := fallbackCustomerName
	if fields := strings.Fields(c.FullName); len(fields) > 0 {
		first = fields[0]
	}
	return strings.NewReplacer(
		"{{client_name}}", name,
		"{{customer_name}}", name,
		"{{first_name}}", first,
		"{{email}}", c.Email,
	).Replace(text)
}

// SendCustomerEmails delivers one message per requested customer, in
// request order. Unknown ids reject the whole batch before anything is sent;
// delivery errors are recorded per recipient.
func (s *notificationService) SendCustomerEmails(ctx context.Context, req *dto.SendEmailsRequest) (*dto.SendEmailsResponse, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	customers, err := s.store.Customers().GetByIDs(ctx, req.CustomerIDs)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "loading customers")
	}
	byID := make(map[int64]*models.Customer, len(customers))
	for i := range customers {
		byID[customers[i].ID] = &customers[i]
	}
	var missing []string
	seen := map[int64]bool{}
	for _, id := range req.CustomerIDs {
		if _, ok := byID[id]; !ok && !seen[id] {
			seen[id] = true
			missing = append(missing, fmt.Sprint(id))
		}
	}
	if len(missing) > 0 {
		return nil, fieldError("customer_ids", "Unknown customer ids: "+strings.Join(missing, ", "))
	}

	resp := &dto.SendEmailsResponse{
		FromEmail: s.sender.From(),
		Sent:      []dto.EmailRecipient{},
		Skipped:   []dto.EmailSkip{},
		Failed:    []dto.EmailFailure{},
	}
	for _, id := range req.CustomerIDs {
		c := byID[id]
		email := strings.TrimSpace(c.Email)
		if email == "" {
			resp.Skipped = append(resp.Skipped, dto.EmailSkip{CustomerID: id, Reason: SkipReasonMissingEmail})
			s.metrics.EmailOutcome("skipped")
			continue
		}
		msg := mailer.Message{
			To:      email,
			Subject: RenderTemplate(req.Subject, c),
			Body:    RenderTemplate(req.Body, c),
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			resp.Failed = append(resp.Failed, dto.EmailFailure{CustomerID: id, Email: email, Error: err.Error()})
			s.metrics.EmailOutcome("failed")
			s.logger.Warn("Customer email failed", zap.Int64("customer_id", id), zap.Error(err))
			continue
		}
		resp.Sent = append(resp.Sent, dto.EmailRecipient{CustomerID: id, Email: email})
		s.metrics.EmailOutcome("sent")
	}

	resp.SentCount = len(resp.Sent)
	resp.SkippedCount = len(resp.Skipped)
	resp.FailedCount = len(resp.Failed)
	resp.OK = resp.FailedCount == 0
	s.logger.Info("Customer emails processed",
		zap.Int("sent", resp.SentCount),
		zap.Int("skipped", resp.SkippedCount),
		zap.Int("failed", resp.FailedCount),
	)
	return resp, nil
}
