// Package inspection assembles a typed Inspection from a submitted form.
package inspection

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/begehung/internal/interfaces"
	"github.com/ternarybob/begehung/internal/models"
	"github.com/ternarybob/begehung/internal/services/form"
	"github.com/ternarybob/begehung/internal/services/severity"
)

// DefaultMaxSlots is the number of deficiency slots scanned when none is configured.
const DefaultMaxSlots = 10

// Service extracts and classifies every field of an inspection form.
type Service struct {
	maxSlots int
	logger   arbor.ILogger
}

// Compile-time assertion
var _ interfaces.InspectionParser = (*Service)(nil)

// NewService creates an inspection service scanning maxSlots deficiency slots
func NewService(maxSlots int, logger arbor.ILogger) *Service {
	if maxSlots <= 0 {
		maxSlots = DefaultMaxSlots
	}
	return &Service{
		maxSlots: maxSlots,
		logger:   logger,
	}
}

// Parse builds the Inspection for doc. runDate (YYYY-MM-DD) is used when the
// form carries no date. Missing sections are empty fields, never errors.
func (s *Service) Parse(doc models.FormDocument, runDate string) *models.Inspection {
	insp := &models.Inspection{
		Source:       doc.Source,
		RunDate:      runDate,
		Metadata:     parseMetadata(doc),
		Checklist:    parseChecklist(doc),
		Deficiencies: s.parseDeficiencies(doc),
		Closing: models.Closing{
			Assessment: form.Field(doc, HeadingAssessment),
			Signer:     form.Field(doc, HeadingSigner),
		},
	}
	if insp.Metadata.Date == "" {
		insp.Metadata.Date = runDate
	}

	statuses := make([]models.Severity, 0, len(insp.Checklist))
	unknown := 0
	for _, entry := range insp.Checklist {
		statuses = append(statuses, entry.Severity)
		if entry.RawStatus != "" && !severity.IsKnown(entry.RawStatus) {
			unknown++
			s.logger.Warn().
				Str("category", entry.Category.Label).
				Str("status", entry.RawStatus).
				Msg("Unrecognised status, classified as n. a.")
		}
	}
	tokens := make([]string, 0, len(insp.Deficiencies))
	for _, d := range insp.Deficiencies {
		tokens = append(tokens, d.Severity)
	}
	insp.Overall = severity.Aggregate(statuses, tokens)

	s.logger.Debug().
		Str("source", doc.Source).
		Int("deficiencies", len(insp.Deficiencies)).
		Int("images", insp.ImageCount()).
		Int("unknown_statuses", unknown).
		Str("overall", string(insp.Overall)).
		Msg("Inspection parsed")

	return insp
}

func parseMetadata(doc models.FormDocument) models.ReportMetadata {
	return models.ReportMetadata{
		Site:         form.Field(doc, HeadingSite),
		Project:      form.Field(doc, HeadingProject),
		SubArea:      form.Field(doc, HeadingSubArea),
		Coordinates:  form.Field(doc, HeadingCoordinates),
		Kind:         form.Field(doc, HeadingKind),
		Date:         form.Field(doc, HeadingDate),
		Time:         form.Field(doc, HeadingTime),
		Participants: form.Field(doc, HeadingParticipants),
		Weather:      form.Field(doc, HeadingWeather),
		Author:       form.Field(doc, HeadingAuthor),
	}
}

// parseChecklist returns one entry per fixed category, in catalogue order.
func parseChecklist(doc models.FormDocument) []models.ChecklistEntry {
	entries := make([]models.ChecklistEntry, 0, len(models.Categories))
	for _, c := range models.Categories {
		status := form.Field(doc, c.Label)
		entries = append(entries, models.ChecklistEntry{
			Category:  c,
			RawStatus: status,
			Severity:  severity.Classify(status),
			Notes:     form.Field(doc, c.NotesHeading()),
			Images:    form.ImageRefs(form.Section(doc, c.PhotosHeading())),
		})
	}
	return entries
}

// parseDeficiencies scans slots 1..maxSlots and keeps the non-empty ones.
func (s *Service) parseDeficiencies(doc models.FormDocument) []models.DeficiencyEntry {
	var entries []models.DeficiencyEntry
	for slot := 1; slot <= s.maxSlots; slot++ {
		entry := models.DeficiencyEntry{
			Slot:        slot,
			Severity:    form.Field(doc, deficiencyHeading(slot, deficiencySeverity)),
			Location:    form.Field(doc, deficiencyHeading(slot, deficiencyLocation)),
			Description: form.Field(doc, deficiencyHeading(slot, deficiencyDescription)),
			Owner:       form.Field(doc, deficiencyHeading(slot, deficiencyOwner)),
			DueDate:     form.Field(doc, deficiencyHeading(slot, deficiencyDueDate)),
		}
		if entry.IsEmpty() {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
