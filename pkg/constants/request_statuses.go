package constants

// RequestStatus определяет закрытый набор статусов заявки на обслуживание.
// Коды совпадают со значениями в БД.
type RequestStatus string

const (
	StatusNew        RequestStatus = "NEW"
	StatusInProgress RequestStatus = "IN_PROGRESS"
	StatusRepaired   RequestStatus = "REPAIRED"
	StatusScrap      RequestStatus = "SCRAP"
)

func (s RequestStatus) String() string {
	return string(s)
}

func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusRepaired, StatusScrap:
		return true
	}
	return false
}

// Таблица переходов. Статус, которого нет в карте — терминальный.
var allowedTransitions = map[RequestStatus][]RequestStatus{
	StatusNew:        {StatusInProgress, StatusScrap},
	StatusInProgress: {StatusRepaired, StatusScrap},
}

// CanTransition проверяет переход по таблице.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
