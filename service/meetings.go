package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/mscofield999-cyber/meetingminutes/model"
	"github.com/mscofield999-cyber/meetingminutes/pkg/logger"
)

// createRetries bounds the retry loop for id collisions coming from
// another writer on the same store.
const createRetries = 5

// MeetingService maps the camelCase wire payload onto the persisted
// document shape and applies the approval workflow on updates.
type MeetingService struct {
	store   MeetingStore
	archive *ArchiveService

	mu     sync.Mutex
	lastID int64
}

func NewMeetingService(store MeetingStore, archive *ArchiveService) *MeetingService {
	return &MeetingService{store: store, archive: archive}
}

// nextID returns the current millisecond timestamp, bumped past the
// last issued id so same-millisecond creates stay unique.
func (s *MeetingService) nextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= s.lastID {
		now = s.lastID + 1
	}
	s.lastID = now
	return now
}

// Create persists a new meeting with every optional field defaulted,
// status pending, and a millisecond-timestamp id.
func (s *MeetingService) Create(ctx context.Context, p *model.MeetingPayload, createdBy string) (string, error) {
	for attempt := 0; attempt < createRetries; attempt++ {
		now := s.nextID()
		id := strconv.FormatInt(now, 10)

		doc := payloadFields(p, true)
		doc["id"] = id
		doc["status"] = model.StatusPending
		doc["created_by"] = createdBy
		doc["created_at"] = now
		doc["updated_at"] = now

		err := s.store.Create(ctx, id, doc)
		if err == nil {
			return id, nil
		}
		if err != ErrDuplicateID {
			return "", fmt.Errorf("failed to create meeting: %w", err)
		}
	}
	return "", fmt.Errorf("failed to create meeting: %w", ErrDuplicateID)
}

// Get returns the persisted document.
func (s *MeetingService) Get(ctx context.Context, id string) (model.Document, error) {
	return s.store.Get(ctx, id)
}

// Update merges only the fields present in the payload; created_at,
// created_by and id are never touched. A non-empty chairman signature
// moves the document to approved.
func (s *MeetingService) Update(ctx context.Context, id string, p *model.MeetingPayload) error {
	fields := payloadFields(p, false)
	approved := false
	if status, ok := statusForUpdate(p); ok {
		fields["status"] = status
		approved = status == model.StatusApproved
	}
	fields["updated_at"] = time.Now().UnixMilli()

	if err := s.store.Merge(ctx, id, fields); err != nil {
		return err
	}

	if approved {
		s.archiveSnapshot(ctx, id)
	}
	return nil
}

// List returns newest-first summaries of every meeting.
func (s *MeetingService) List(ctx context.Context) ([]model.MeetingSummary, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.MeetingSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, summarize(doc))
	}
	return summaries, nil
}

// archiveSnapshot is best effort: an object-storage failure must not
// fail the update that approved the minutes.
func (s *MeetingService) archiveSnapshot(ctx context.Context, id string) {
	if s.archive == nil {
		return
	}
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		logger.Warn(ctx, "skipping snapshot of approved meeting", "meeting_id", id, "error", err)
		return
	}
	if err := s.archive.Snapshot(ctx, id, doc); err != nil {
		logger.Warn(ctx, "failed to archive approved meeting", "meeting_id", id, "error", err)
		return
	}
	logger.Info(ctx, "archived approved meeting", "meeting_id", id)
}

func summarize(doc model.Document) model.MeetingSummary {
	summary := model.MeetingSummary{
		ID:              docString(doc, "id"),
		MeetingTitle:    docString(doc, "meeting_title"),
		MeetingDate:     docString(doc, "meeting_date"),
		Department:      docString(doc, "department"),
		Chairman:        docString(doc, "chairman"),
		ReferenceNumber: docString(doc, "reference_number"),
		Status:          docString(doc, "status"),
	}
	if summary.ReferenceNumber == "" {
		summary.ReferenceNumber = "-"
	}
	if summary.Status == "" {
		summary.Status = model.StatusPending
	}
	return summary
}

// payloadFields converts the wire payload to persisted snake_case fields.
// With withDefaults set (create), every field is emitted, defaulting to
// empty; otherwise (update) only the fields the payload supplied appear,
// so the store merge leaves everything else alone.
func payloadFields(p *model.MeetingPayload, withDefaults bool) model.Document {
	fields := model.Document{}

	scalar := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		} else if withDefaults {
			fields[key] = ""
		}
	}
	scalar("org_name", p.OrgName)
	scalar("executive_summary", p.ExecutiveSummary)
	scalar("reference_number", p.ReferenceNumber)
	scalar("department", p.Department)
	scalar("meeting_title", p.MeetingTitle)
	scalar("meeting_date", p.MeetingDate)
	scalar("meeting_time", p.MeetingTime)
	scalar("duration", p.Duration)
	scalar("meeting_location", p.MeetingLocation)
	scalar("meeting_type", p.MeetingType)
	scalar("chairman", p.Chairman)
	scalar("secretary", p.Secretary)
	scalar("next_meeting_date", p.NextMeetingDate)
	scalar("secretary_signature", p.SecretarySignature)
	scalar("chairman_signature", p.ChairmanSignature)
	// logoData kept camelCase: it is the persisted key existing documents use
	scalar("logoData", p.LogoData)
	scalar("watermark_image", p.WatermarkImage)

	if p.Attendees != nil {
		fields["attendees"] = marshalList(p.Attendees)
	} else if withDefaults {
		fields["attendees"] = "[]"
	}
	if p.AgendaItems != nil {
		fields["agenda_items"] = marshalList(p.AgendaItems)
	} else if withDefaults {
		fields["agenda_items"] = "[]"
	}
	if p.Decisions != nil {
		fields["decisions"] = marshalList(p.Decisions)
	} else if withDefaults {
		fields["decisions"] = "[]"
	}

	return fields
}

// marshalList serializes a list-valued field to its stored text form.
func marshalList(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func docString(doc model.Document, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}
