package requests

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/catalog"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/notifications"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/voucher"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/apperrors"

	"go.uber.org/zap"
)

// CatalogResolver resolves a category+description pair to catalog metadata.
type CatalogResolver interface {
	Lookup(ctx context.Context, category, description string) (*catalog.Item, error)
}

// VoucherWriter writes the exit voucher for an attended group.
type VoucherWriter interface {
	Write(ctx context.Context, v voucher.Voucher) error
}

// AuditRecorder documents submit/attend/cancel actions. Best-effort.
type AuditRecorder interface {
	Log(actor, action, resourceID string, data interface{})
}

type Service struct {
	repo       RequestRepository
	catalog    CatalogResolver
	voucher    VoucherWriter
	notifier   notifications.Notifier
	recipients []string
	audit      AuditRecorder
	ids        *IDGenerator
	log        *zap.Logger
}

func NewService(
	repo RequestRepository,
	catalogSvc CatalogResolver,
	voucherWriter VoucherWriter,
	notifier notifications.Notifier,
	recipients []string,
	audit AuditRecorder,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:       repo,
		catalog:    catalogSvc,
		voucher:    voucherWriter,
		notifier:   notifier,
		recipients: recipients,
		audit:      audit,
		ids:        NewIDGenerator(),
		log:        log,
	}
}

// Submit validates and persists one request group. The whole batch is
// checked before any row is written; a bad quantity anywhere rejects
// everything. Catalog resolution misses leave the resolved fields blank.
func (s *Service) Submit(ctx context.Context, requester string, batch []SubmitItem) (*Group, error) {
	if requester == "" {
		return nil, apperrors.Validation("requester name is required")
	}
	if len(batch) == 0 {
		return nil, apperrors.Validation("request batch is empty")
	}

	quantities := make([]int, len(batch))
	for i, item := range batch {
		if strings.TrimSpace(item.Category) == "" || strings.TrimSpace(item.Description) == "" {
			return nil, apperrors.Validation(fmt.Sprintf("item %d: category and description are required", i+1))
		}
		qty, err := strconv.Atoi(strings.TrimSpace(item.Quantity))
		if err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("item %d: quantity %q is not a number", i+1, item.Quantity))
		}
		if qty <= 0 {
			return nil, apperrors.Validation(fmt.Sprintf("item %d: quantity must be greater than zero", i+1))
		}
		quantities[i] = qty
	}

	requestID := s.ids.Next()
	submittedAt := time.Now()

	items := make([]LineItem, 0, len(batch))
	for i, item := range batch {
		lineItem := LineItem{
			RequestID:   requestID,
			Seq:         i + 1,
			SubmittedAt: submittedAt,
			Requester:   requester,
			Category:    strings.TrimSpace(item.Category),
			Description: strings.TrimSpace(item.Description),
			Quantity:    quantities[i],
			Status:      StatusPending,
		}

		// A catalog read failure degrades to an unresolved item, same as
		// a miss; only persistence failures abort a submission.
		if match, err := s.catalog.Lookup(ctx, lineItem.Category, lineItem.Description); err != nil {
			s.log.Warn("catalog lookup failed, leaving item unresolved",
				zap.String("category", lineItem.Category),
				zap.String("description", lineItem.Description),
				zap.Error(err))
		} else if match != nil {
			lineItem.CatalogCode = match.Code
			lineItem.Unit = match.Unit
		}

		items = append(items, lineItem)
	}

	if err := s.repo.AppendLineItems(ctx, items); err != nil {
		return nil, err
	}

	group := buildGroup(requestID, items)

	s.audit.Log(requester, "request.submit", requestID, map[string]interface{}{
		"items":          len(items),
		"total_quantity": group.TotalQuantity,
	})

	s.notifySubmission(group)

	return &group, nil
}

// notifySubmission announces the batch in the background. Delivery failures
// are logged by the notifier and never reach the submitter.
func (s *Service) notifySubmission(group Group) {
	if len(s.recipients) == 0 {
		return
	}

	text := fmt.Sprintf("Nueva solicitud %s de %s: %d item(s), cantidad total %d",
		group.RequestID, group.Requester, len(group.Items), group.TotalQuantity)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.notifier.Send(ctx, s.recipients, text); err != nil {
			s.log.Warn("submission notification failed",
				zap.String("request_id", group.RequestID),
				zap.Error(err))
		}
	}()
}

// Inbox lists request groups, most recent first. statusFilter narrows by
// aggregate status when non-empty.
func (s *Service) Inbox(ctx context.Context, statusFilter string) ([]Group, error) {
	items, err := s.repo.ListLineItems(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string][]LineItem)
	for _, item := range items {
		byID[item.RequestID] = append(byID[item.RequestID], item)
	}

	groups := make([]Group, 0, len(byID))
	for requestID, groupItems := range byID {
		sort.Slice(groupItems, func(i, j int) bool {
			return groupItems[i].Seq < groupItems[j].Seq
		})
		groups = append(groups, buildGroup(requestID, groupItems))
	}

	if statusFilter != "" {
		wanted := Status(strings.ToUpper(statusFilter))
		if !wanted.IsValid() {
			return nil, apperrors.Validation(fmt.Sprintf("unknown status %q", statusFilter))
		}
		filtered := groups[:0]
		for _, g := range groups {
			if g.Status == wanted {
				filtered = append(filtered, g)
			}
		}
		groups = filtered
	}

	// Request IDs are timestamp-derived, so lexicographic descent is
	// chronological descent.
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].RequestID > groups[j].RequestID
	})

	return groups, nil
}

// Attend marks every line item of the group attended and writes the exit
// voucher. The voucher is written first; statuses flip only after it
// succeeds, so a voucher failure leaves the group PENDING. A crash between
// the two writes can still leave a written voucher for a PENDING group;
// re-attending then rewrites the voucher and completes the flip.
func (s *Service) Attend(ctx context.Context, requestID, handledBy string) error {
	items, err := s.repo.FindByRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return apperrors.NotFound("request group not found")
	}

	for _, item := range items {
		if item.Status != StatusPending {
			return apperrors.Conflict("request group has already been handled")
		}
	}

	if err := s.voucher.Write(ctx, buildVoucher(requestID, items, handledBy)); err != nil {
		return err
	}

	if err := s.repo.UpdateStatuses(ctx, requestID, StatusPending, StatusAttended, handledBy); err != nil {
		return err
	}

	s.audit.Log(handledBy, "request.attend", requestID, map[string]interface{}{
		"items": len(items),
	})

	return nil
}

// Cancel marks a pending group cancelled. Terminal, no voucher.
func (s *Service) Cancel(ctx context.Context, requestID, handledBy string) error {
	items, err := s.repo.FindByRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return apperrors.NotFound("request group not found")
	}

	for _, item := range items {
		if item.Status != StatusPending {
			return apperrors.Conflict("request group has already been handled")
		}
	}

	if err := s.repo.UpdateStatuses(ctx, requestID, StatusPending, StatusCancelled, handledBy); err != nil {
		return err
	}

	s.audit.Log(handledBy, "request.cancel", requestID, map[string]interface{}{
		"items": len(items),
	})

	return nil
}

// Voucher returns the printable voucher of an attended group.
func (s *Service) Voucher(ctx context.Context, requestID string) (*voucher.Voucher, error) {
	items, err := s.repo.FindByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.NotFound("request group not found")
	}
	if AggregateStatus(items) != StatusAttended {
		return nil, apperrors.Conflict("voucher is only available for attended requests")
	}

	v := buildVoucher(requestID, items, items[0].HandledBy)
	return &v, nil
}

func buildGroup(requestID string, items []LineItem) Group {
	group := Group{
		RequestID: requestID,
		Status:    AggregateStatus(items),
		Items:     items,
	}
	if len(items) > 0 {
		group.Requester = items[0].Requester
		group.SubmittedAt = items[0].SubmittedAt
	}
	for _, item := range items {
		group.TotalQuantity += item.Quantity
	}
	return group
}

func buildVoucher(requestID string, items []LineItem, handledBy string) voucher.Voucher {
	v := voucher.Voucher{
		RequestID: requestID,
		Date:      time.Now(),
		Handler:   handledBy,
		Items:     make([]voucher.Item, 0, len(items)),
	}
	if len(items) > 0 {
		v.Requester = items[0].Requester
	}
	for _, item := range items {
		v.Items = append(v.Items, voucher.Item{
			Code:        item.CatalogCode,
			Description: item.Description,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
		})
	}
	return v
}
