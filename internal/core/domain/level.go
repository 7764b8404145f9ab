package domain

// Level represents a scouting proficiency level
type Level string

const (
	LevelSiagaMula       Level = "SIAGA_MULA"
	LevelSiagaBantu      Level = "SIAGA_BANTU"
	LevelSiagaTata       Level = "SIAGA_TATA"
	LevelPenggalangRamu  Level = "PENGGALANG_RAMU"
	LevelPenggalangRakit Level = "PENGGALANG_RAKIT"
	LevelPenggalangTerap Level = "PENGGALANG_TERAP"
	LevelPenegakBantara  Level = "PENEGAK_BANTARA"
	LevelPenegakLaksana  Level = "PENEGAK_LAKSANA"
	LevelPandega         Level = "PANDEGA"
)

// ParseLevel validates a raw level string
func ParseLevel(raw string) (Level, bool) {
	switch Level(raw) {
	case LevelSiagaMula, LevelSiagaBantu, LevelSiagaTata,
		LevelPenggalangRamu, LevelPenggalangRakit, LevelPenggalangTerap,
		LevelPenegakBantara, LevelPenegakLaksana, LevelPandega:
		return Level(raw), true
	default:
		return "", false
	}
}

// ActivityStatus represents a member's activity state
type ActivityStatus string

const (
	ActivityActive   ActivityStatus = "ACTIVE"
	ActivityInactive ActivityStatus = "INACTIVE"
)

// RequestStatus represents the admission workflow state
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestAccepted RequestStatus = "ACCEPTED"
	RequestRejected RequestStatus = "REJECTED"
)

// Terminal reports whether no further transition is allowed
func (s RequestStatus) Terminal() bool {
	return s == RequestAccepted || s == RequestRejected
}
