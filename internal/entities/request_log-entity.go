package entities

import (
	"time"

	"github.com/google/uuid"

	"maintenance-system/pkg/constants"
)

// RequestLog — неизменяемая запись журнала переходов. Строки только добавляются.
// OldStatus равен nil только для стартовой записи (создание заявки в NEW).
type RequestLog struct {
	ID        uint64                   `json:"id" db:"id"`
	RequestID uint64                   `json:"request_id" db:"request_id"`
	OldStatus *constants.RequestStatus `json:"old_status" db:"old_status"`
	NewStatus constants.RequestStatus  `json:"new_status" db:"new_status"`
	ChangedBy uint64                   `json:"changed_by" db:"changed_by"`
	// TxID группирует записи, сделанные одной единицей работы.
	TxID      uuid.UUID `json:"tx_id" db:"tx_id"`
	ChangedAt time.Time `json:"changed_at" db:"changed_at"`

	// Связанные данные (не колонки таблицы)
	ChangedByUser *User `json:"changed_by_user,omitempty" db:"-"`
}
