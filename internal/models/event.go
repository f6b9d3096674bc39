package models

// Level is the severity of a logged event.
type Level int

const (
	LevelWarning Level = 1
	LevelError   Level = 2
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "warning"
}

// Warning codes.
const (
	WarnMotorSensorAbsent = 1
	WarnBoardSensorAbsent = 2
	WarnAdcSaturated      = 3
	WarnCachedValue       = 4
	WarnClockNotSet       = 6
	WarnAuthMissing       = 7
	WarnAuthInvalid       = 8
)

// Error codes. Protection errors reuse the FaultCode values.
const (
	ErrCodeOvercurrent  = int(FaultOvercurrent)
	ErrCodeOvertemp     = int(FaultOvertemp)
	ErrCodeConfigWrite  = 3
	ErrCodeSessionWrite = 4
	ErrCodeCurrentLost  = int(FaultSensorLost)
)

// Event sources.
const (
	SourceSensor     = "sensor"
	SourceProtection = "protection"
	SourceClock      = "clock"
	SourceAuth       = "auth"
	SourceStorage    = "storage"
)

// Event is one warning or error occurrence. Seq is assigned by the event log.
type Event struct {
	Seq     uint64 `json:"seq"`
	TsMs    int64  `json:"ts_ms"`
	Level   Level  `json:"level"`
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Source  string `json:"source"`
}

// Warning builds a warning-level event.
func Warning(code int, msg, source string) Event {
	return Event{Level: LevelWarning, Code: code, Message: msg, Source: source}
}

// Error builds an error-level event.
func Error(code int, msg, source string) Event {
	return Event{Level: LevelError, Code: code, Message: msg, Source: source}
}
