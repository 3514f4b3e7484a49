package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frescomar/allocation-api/internal/dto"
	"github.com/frescomar/allocation-api/internal/models"
	"github.com/frescomar/allocation-api/internal/store"
	appErrors "github.com/frescomar/allocation-api/pkg/errors"
	"github.com/frescomar/allocation-api/pkg/mailer"
)

// recipientShape is the minimal local@domain.tld check the tracker has
// always applied; stricter validation would reject addresses operators
// rely on.
var recipientShape = regexp.MustCompile(`.+@.+\..+`)

// RecipientResolver supplies a notification address for a customer when
// the allocation's rule has none. The shipped implementation is the
// deterministic directory lookup; interactive implementations are a
// collaborator concern.
type RecipientResolver interface {
	Resolve(ctx context.Context, customer string) (string, error)
}

type clientDirectory interface {
	FindEmailByName(ctx context.Context, name string) (string, error)
}

// DirectoryResolver resolves recipients from the client directory and
// returns an empty address when the customer is unknown.
type DirectoryResolver struct {
	clients clientDirectory
}

// NewDirectoryResolver builds the directory-backed resolver.
func NewDirectoryResolver(clients clientDirectory) *DirectoryResolver {
	return &DirectoryResolver{clients: clients}
}

// Resolve looks the customer up in the directory.
func (r *DirectoryResolver) Resolve(ctx context.Context, customer string) (string, error) {
	if r.clients == nil {
		return "", nil
	}
	return r.clients.FindEmailByName(ctx, customer)
}

type notificationMetrics interface {
	IncNotification(success bool)
}

// NotificationService decides when a milestone triggers a customer
// notice, composes the message, invokes the delivery capability and
// records one immutable log entry per attempt.
type NotificationService struct {
	state        *store.State
	snapshots    allocationSnapshots
	resolver     RecipientResolver
	mailer       mailer.Mailer
	metrics      notificationMetrics
	logger       *zap.Logger
	publicOrigin string
	subjectPfx   string
	now          func() time.Time
}

// NewNotificationService wires the dispatcher.
func NewNotificationService(
	state *store.State,
	snapshots allocationSnapshots,
	resolver RecipientResolver,
	m mailer.Mailer,
	metrics notificationMetrics,
	logger *zap.Logger,
	publicOrigin string,
	subjectPrefix string,
) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		state:        state,
		snapshots:    snapshots,
		resolver:     resolver,
		mailer:       m,
		metrics:      metrics,
		logger:       logger,
		publicOrigin: strings.TrimRight(publicOrigin, "/"),
		subjectPfx:   subjectPrefix,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ShouldNotify applies the allocation's rule to a milestone.
func (s *NotificationService) ShouldNotify(alloc models.Allocation, milestone models.Milestone) bool {
	return alloc.NotifyRule.Enabled && alloc.NotifyRule.Includes(milestone)
}

// ResolveRecipient returns the address to notify, or an empty string
// when every source fails. Precedence: rule override, then the
// resolver. A freshly resolved address is persisted into the rule so
// later milestones reuse it.
func (s *NotificationService) ResolveRecipient(ctx context.Context, alloc models.Allocation) string {
	if alloc.NotifyRule.RecipientEmail != "" {
		return alloc.NotifyRule.RecipientEmail
	}
	if s.resolver == nil {
		return ""
	}

	address, err := s.resolver.Resolve(ctx, alloc.Customer)
	if err != nil {
		s.logger.Warn("recipient resolution failed",
			zap.String("allocation_id", alloc.ID),
			zap.String("customer", alloc.Customer),
			zap.Error(err),
		)
		return ""
	}
	if address == "" || !recipientShape.MatchString(address) {
		return ""
	}

	if _, err := s.state.UpdateAllocation(alloc.ID, func(a *models.Allocation) error {
		a.NotifyRule.RecipientEmail = address
		return nil
	}); err == nil {
		s.saveSnapshot(ctx)
	}
	return address
}

// ComposePayload renders the notification body: customer, allocation id
// and status header, one line per order line (size and ETA fall back to
// "?" and AWB to "-" when the lot cannot supply them), plus a tracking
// link when the allocation carries a token.
func (s *NotificationService) ComposePayload(alloc models.Allocation) string {
	lines := []string{
		fmt.Sprintf("Customer: %s", alloc.Customer),
		fmt.Sprintf("Allocation: %s", alloc.ID),
		fmt.Sprintf("Status: %s", alloc.Status),
		"Detail:",
	}
	for _, item := range alloc.Items {
		size, eta, awb := "?", "?", "-"
		if lot, ok := s.state.Lot(item.LotID); ok {
			if lot.Size != "" {
				size = lot.Size
			}
			if lot.ETA != "" {
				eta = lot.ETA
			}
			if lot.AWB != nil && *lot.AWB != "" {
				awb = *lot.AWB
			}
		}
		lines = append(lines, fmt.Sprintf("PO %s | Material %s | Boxes %d | Size %s | ETA %s | AWB %s",
			item.PO, item.Material, item.Boxes, size, eta, awb))
	}
	if alloc.TrackingToken != "" {
		lines = append(lines, fmt.Sprintf("Tracking: %s/track/%s", s.publicOrigin, alloc.TrackingToken))
	}
	return strings.Join(lines, "\n")
}

// Notify runs the full pipeline for one allocation and milestone: rule
// check, recipient resolution, payload, dispatch, log append. It
// returns the log entry and whether a dispatch was attempted. Delivery
// failure is recorded, never raised.
func (s *NotificationService) Notify(ctx context.Context, allocationID string, milestone models.Milestone) (models.NotificationLogEntry, bool) {
	alloc, ok := s.state.Allocation(allocationID)
	if !ok {
		return models.NotificationLogEntry{}, false
	}
	if !s.ShouldNotify(alloc, milestone) {
		return models.NotificationLogEntry{}, false
	}

	recipient := s.ResolveRecipient(ctx, alloc)
	if recipient == "" {
		s.logger.Info("milestone notice skipped, no recipient",
			zap.String("allocation_id", alloc.ID),
			zap.String("milestone", string(milestone)),
		)
		return models.NotificationLogEntry{}, false
	}

	preview := alloc
	preview.Status = milestone
	payload := s.ComposePayload(preview)
	subject := fmt.Sprintf("%s[%s] %s", s.subjectPfx, alloc.ID, milestone)

	result := s.mailer.Deliver(recipient, subject, payload)
	entry := models.NotificationLogEntry{
		ID:        uuid.NewString(),
		At:        s.now(),
		Milestone: milestone,
		Channel:   models.ChannelEmail,
		Success:   result.OK,
		Detail:    result.Detail,
		Payload:   payload,
	}

	if _, err := s.state.UpdateAllocation(allocationID, func(a *models.Allocation) error {
		a.NotificationsLog = append(a.NotificationsLog, entry)
		return nil
	}); err != nil {
		s.logger.Warn("notification log append failed", zap.String("allocation_id", allocationID), zap.Error(err))
	}
	s.saveSnapshot(ctx)

	if s.metrics != nil {
		s.metrics.IncNotification(result.OK)
	}
	if !result.OK {
		s.logger.Warn("milestone notice delivery failed",
			zap.String("allocation_id", alloc.ID),
			zap.String("milestone", string(milestone)),
			zap.String("detail", result.Detail),
		)
	}
	return entry, true
}

// SendNow re-sends the current status on demand. Disabled rules and
// unresolved recipients make it a quiet no-op, mirroring the manual
// send button it backs.
func (s *NotificationService) SendNow(ctx context.Context, allocationID string) (models.NotificationLogEntry, bool, error) {
	alloc, ok := s.state.Allocation(allocationID)
	if !ok {
		return models.NotificationLogEntry{}, false, appErrors.ErrNotFound
	}
	if !alloc.NotifyRule.Enabled {
		return models.NotificationLogEntry{}, false, nil
	}

	recipient := s.ResolveRecipient(ctx, alloc)
	if recipient == "" {
		return models.NotificationLogEntry{}, false, nil
	}

	payload := s.ComposePayload(alloc)
	subject := fmt.Sprintf("%s[%s] %s", s.subjectPfx, alloc.ID, alloc.Status)
	result := s.mailer.Deliver(recipient, subject, payload)
	entry := models.NotificationLogEntry{
		ID:        uuid.NewString(),
		At:        s.now(),
		Milestone: alloc.Status,
		Channel:   models.ChannelEmail,
		Success:   result.OK,
		Detail:    result.Detail,
		Payload:   payload,
	}

	if _, err := s.state.UpdateAllocation(allocationID, func(a *models.Allocation) error {
		a.NotificationsLog = append(a.NotificationsLog, entry)
		return nil
	}); err != nil {
		return models.NotificationLogEntry{}, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record notification")
	}
	s.saveSnapshot(ctx)

	if s.metrics != nil {
		s.metrics.IncNotification(result.OK)
	}
	return entry, true, nil
}

// UpdateRule patches the allocation's notification policy. Toggling the
// rule never touches past log entries and never re-triggers past
// milestones.
func (s *NotificationService) UpdateRule(ctx context.Context, allocationID string, req dto.NotifyRuleRequest) (models.Allocation, error) {
	if _, ok := s.state.Allocation(allocationID); !ok {
		return models.Allocation{}, appErrors.ErrNotFound
	}

	if req.RecipientEmail != nil && *req.RecipientEmail != "" && !recipientShape.MatchString(*req.RecipientEmail) {
		return models.Allocation{}, appErrors.ErrInvalidRecipientEmail
	}
	for _, milestone := range req.Milestones {
		if !models.ValidMilestone(milestone) {
			return models.Allocation{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown milestone %q", milestone))
		}
	}

	updated, err := s.state.UpdateAllocation(allocationID, func(a *models.Allocation) error {
		if req.Enabled != nil {
			a.NotifyRule.Enabled = *req.Enabled
		}
		if req.Milestones != nil {
			a.NotifyRule.Milestones = append([]models.Milestone(nil), req.Milestones...)
		}
		if req.RecipientEmail != nil {
			a.NotifyRule.RecipientEmail = *req.RecipientEmail
		}
		return nil
	})
	if err != nil {
		return models.Allocation{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notify rule")
	}

	s.saveSnapshot(ctx)
	return updated, nil
}

func (s *NotificationService) saveSnapshot(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, s.state.Allocations()); err != nil {
		s.logger.Warn("allocation snapshot save failed", zap.Error(err))
	}
}
