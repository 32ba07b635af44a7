package out

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"focus/internal/modules/timer/domain"
	"focus/internal/platform/metrics"
)

func encodeRecord(record domain.SessionRecord) ([]byte, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to store invalid record: %w", err)
	}
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session record: %w", err)
	}
	return payload, nil
}

// decodeRecord returns nil for payloads that cannot be trusted. A corrupt slot
// is reported as empty rather than as a session with the wrong remaining time.
func decodeRecord(payload []byte, logger zerolog.Logger) *domain.SessionRecord {
	record := domain.SessionRecord{}
	if err := json.Unmarshal(payload, &record); err != nil {
		metrics.StateStoreErrorsTotal.WithLabelValues("decode").Inc()
		logger.Warn().Err(err).Msg("corrupt active slot, treating as empty")
		return nil
	}
	if err := record.Validate(); err != nil {
		metrics.StateStoreErrorsTotal.WithLabelValues("decode").Inc()
		logger.Warn().Err(err).Str("session_id", record.ID).Msg("invalid active slot, treating as empty")
		return nil
	}
	return &record
}
