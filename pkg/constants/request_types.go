package constants

// RequestType определяет тип заявки на обслуживание.
type RequestType string

const (
	TypeCorrective RequestType = "CORRECTIVE"
	TypePreventive RequestType = "PREVENTIVE"
)

func (t RequestType) String() string {
	return string(t)
}

func (t RequestType) IsValid() bool {
	return t == TypeCorrective || t == TypePreventive
}

// Горизонт планирования для превентивных заявок.
const PreventiveScheduleHorizonYears = 2
