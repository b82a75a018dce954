package service

import (
	"github.com/homegraph/hub/internal/models"
)

// EventReadingsIngested fires once per committed batch with the stored rows.
const EventReadingsIngested = "readings.ingested"

// OnIngested registers handler for committed batches. listenerID must be
// unique per subscriber. Handlers run after commit; they cannot fail the write.
func (s *Service) OnIngested(listenerID string, handler func(rows []models.Reading)) {
	s.events.On(EventReadingsIngested, listenerID, func(args ...interface{}) {
		if len(args) == 0 {
			return
		}
		if rows, ok := args[0].([]models.Reading); ok {
			handler(rows)
		}
	})
}

func (s *Service) emitIngested(rows []models.Reading) {
	if len(rows) == 0 {
		return
	}
	s.events.Emit(EventReadingsIngested, append([]models.Reading(nil), rows...))
}
