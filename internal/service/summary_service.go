package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/fleet-collections/internal/model"
)

type SummaryPDFGenerator interface {
	Generate(summary model.CollectionsSummary, clientName string) ([]byte, error)
}

// SummaryService assembles the per-client collections overview: the four
// status groups with resolved fees, contract terms, status totals, and the
// enriched collection history.
type SummaryService struct {
	vehicles    VehicleStore
	collections CollectionStore
	addresses   AddressStore
	clients     ClientStore
	pdf         SummaryPDFGenerator
	log         zerolog.Logger
}

func NewSummaryService(
	vehicles VehicleStore,
	collections CollectionStore,
	addresses AddressStore,
	clients ClientStore,
	pdf SummaryPDFGenerator,
	log zerolog.Logger,
) *SummaryService {
	return &SummaryService{
		vehicles:    vehicles,
		collections: collections,
		addresses:   addresses,
		clients:     clients,
		pdf:         pdf,
		log:         log,
	}
}

// resolveLabels maps address ids to display labels. Every input id gets an
// entry; ids without a row resolve to "" so downstream consumers can render
// them as unresolved. A store failure propagates.
func (s *SummaryService) resolveLabels(ctx context.Context, clientID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	labels := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		labels[id] = ""
	}
	if len(ids) == 0 {
		return labels, nil
	}

	rows, err := s.addresses.ListByIDs(ctx, clientID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve address labels: %w", err)
	}
	for _, address := range rows {
		labels[address.ID] = address.Label()
	}
	return labels, nil
}

// ClientCollectionsSummary runs the aggregation pipeline for one client.
// Group builders and the address resolver propagate their failures; the fee
// rows, contract lookup, status totals, and history degrade to defaults and
// are logged.
func (s *SummaryService) ClientCollectionsSummary(
	ctx context.Context,
	principal model.Principal,
	clientID uuid.UUID,
) (*model.CollectionsSummary, error) {
	if !principal.CanReadClient(clientID) {
		return nil, ErrPermissionDenied
	}
	if clientID == uuid.Nil {
		return nil, fmt.Errorf("%w: client_id is required", ErrInvalidInput)
	}

	summary := &model.CollectionsSummary{ClientID: clientID}

	feeRows, err := s.collections.ListFeeRows(ctx, clientID)
	if err != nil {
		// Fee history is an auxiliary lookup: groups render with no fee.
		s.log.Warn().Err(err).Str("client_id", clientID.String()).Msg("fee lookup failed, degrading to empty fees")
		feeRows = nil
	}
	fees := buildFeeLookup(feeRows)

	builders := []struct {
		statuses []model.VehicleStatus
		opts     groupOptions
		assign   func([]model.CollectionGroup, float64)
	}{
		{pricingStatuses, groupOptions{flattenAddressDates: true}, func(g []model.CollectionGroup, _ float64) {
			summary.PricingGroups = g
		}},
		{pendingStatuses, groupOptions{withBreakdown: true}, func(g []model.CollectionGroup, t float64) {
			summary.PendingGroups = g
			summary.PendingTotal = t
		}},
		{approvedStatuses, groupOptions{}, func(g []model.CollectionGroup, t float64) {
			summary.ApprovedGroups = g
			summary.ApprovedTotal = t
		}},
		{rescheduleStatuses, groupOptions{}, func(g []model.CollectionGroup, _ float64) {
			summary.RescheduleGroups = g
		}},
	}

	for _, builder := range builders {
		vehicles, err := s.vehicles.ListWithPickupByStatus(ctx, clientID, builder.statuses)
		if err != nil {
			return nil, fmt.Errorf("list vehicles %v: %w", builder.statuses, err)
		}
		labels, err := s.resolveLabels(ctx, clientID, pickupAddressIDs(vehicles))
		if err != nil {
			return nil, err
		}
		groups, total := buildGroups(vehicles, labels, fees, builder.opts)
		builder.assign(groups, total)
	}

	summary.Contract = s.loadContract(ctx, clientID)

	totals, err := s.statusTotals(ctx, clientID)
	if err != nil {
		s.log.Warn().Err(err).Str("client_id", clientID.String()).Msg("status totals failed, degrading to empty totals")
		totals = map[string]int64{}
	}
	summary.StatusTotals = totals

	summary.History = s.loadHistory(ctx, clientID)

	return summary, nil
}

// loadContract degrades to nil on failure; the overview renders "-".
func (s *SummaryService) loadContract(ctx context.Context, clientID uuid.UUID) *model.ClientContract {
	client, err := s.clients.GetByProfileID(ctx, clientID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.log.Warn().Err(err).Str("client_id", clientID.String()).Msg("contract lookup failed")
		}
		return nil
	}
	return &model.ClientContract{
		CompanyName:  client.CompanyName,
		OperationFee: client.OperationFee,
		FipePercent:  client.FipePercent,
		ParkingDaily: client.ParkingDaily,
		MileageRate:  client.MileageRate,
	}
}

func (s *SummaryService) statusTotals(ctx context.Context, clientID uuid.UUID) (map[string]int64, error) {
	counts, err := s.vehicles.CountByStatus(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("count vehicles by status: %w", err)
	}
	totals := make(map[string]int64, len(counts))
	for _, row := range counts {
		totals[strings.ToUpper(row.Status)] += row.Count
	}
	return totals, nil
}

// loadHistory prefers the immutable history store; only when it holds no
// record for the client does the live approved-collections fallback run.
// Enrichment failures degrade to the unenriched rows.
func (s *SummaryService) loadHistory(ctx context.Context, clientID uuid.UUID) []model.HistoryEntry {
	var entries []model.HistoryEntry

	records, err := s.collections.ListHistory(ctx, clientID)
	if err != nil {
		s.log.Warn().Err(err).Str("client_id", clientID.String()).Msg("history load failed")
		return []model.HistoryEntry{}
	}

	if len(records) > 0 {
		labels, err := s.resolveLabels(ctx, clientID, historyAddressIDs(records))
		if err != nil {
			s.log.Warn().Err(err).Msg("history label resolution failed")
			labels = map[uuid.UUID]string{}
		}
		entries = historyFromRecords(records, labels)
	} else {
		rows, err := s.collections.ListApproved(ctx, clientID)
		if err != nil {
			s.log.Warn().Err(err).Str("client_id", clientID.String()).Msg("history fallback load failed")
			return []model.HistoryEntry{}
		}
		ids := make([]uuid.UUID, 0, len(rows))
		seen := make(map[uuid.UUID]struct{})
		for _, row := range rows {
			if _, ok := seen[row.PickupAddressID]; ok {
				continue
			}
			seen[row.PickupAddressID] = struct{}{}
			ids = append(ids, row.PickupAddressID)
		}
		labels, err := s.resolveLabels(ctx, clientID, ids)
		if err != nil {
			s.log.Warn().Err(err).Msg("history label resolution failed")
			labels = map[uuid.UUID]string{}
		}
		entries = historyFromCollections(rows, labels)
	}

	vehicles, err := s.vehicles.ListByClient(ctx, clientID)
	if err != nil {
		s.log.Warn().Err(err).Str("client_id", clientID.String()).Msg("history enrichment failed")
		return entries
	}
	return enrichHistory(entries, vehicles)
}

func historyAddressIDs(records []model.CollectionHistoryRecord) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		if record.PickupAddressID == nil {
			continue
		}
		if _, ok := seen[*record.PickupAddressID]; ok {
			continue
		}
		seen[*record.PickupAddressID] = struct{}{}
		ids = append(ids, *record.PickupAddressID)
	}
	return ids
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ExportPDF renders the summary through the PDF generator.
func (s *SummaryService) ExportPDF(
	ctx context.Context,
	principal model.Principal,
	clientID uuid.UUID,
) (*ExportResult, error) {
	summary, err := s.ClientCollectionsSummary(ctx, principal, clientID)
	if err != nil {
		return nil, err
	}

	clientName := clientID.String()
	if summary.Contract != nil && summary.Contract.CompanyName != "" {
		clientName = summary.Contract.CompanyName
	}

	content, err := s.pdf.Generate(*summary, clientName)
	if err != nil {
		return nil, err
	}

	name := sanitizeFileName(clientName)
	if name == "" {
		name = clientID.String()
	}
	fileName := fmt.Sprintf("coletas-%s-%s.pdf", name, time.Now().Format("20060102"))
	return &ExportResult{FileName: fileName, Content: content}, nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
