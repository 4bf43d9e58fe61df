package generate_recurring

import "github.com/m04kA/SMC-NailSalon/internal/domain"

// SourceRecurring метка источника для appointments_created_total
const SourceRecurring = "recurring"

// Result итог одного прогона генерации
type Result struct {
	Created []*domain.Appointment
	Skipped []domain.SkippedOccurrence
}
