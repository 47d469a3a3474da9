package models

// Frame is one opaque image payload inside a batch. The codec owns the
// backing bytes until the batch is handed to the analysis client.
type Frame struct {
	FrameID int32  `json:"frame_id"`
	Data    []byte `json:"-"`
}

// FrameBatch is the unit of transfer over the frame socket. It is
// transient: decoded, dispatched and discarded, never persisted.
type FrameBatch struct {
	UserID    int64   `json:"user_id"`
	BatchID   int32   `json:"batch_id"`
	Timestamp int64   `json:"timestamp"`
	Frames    []Frame `json:"frames"`
}

type RiskKind string

const (
	RiskDrowsiness RiskKind = "drowsiness"
	RiskPhoneUsage RiskKind = "phone_usage"
	RiskSmoking    RiskKind = "smoking"
)

// RiskEvent is a detected-behavior notification pushed to the alert
// channel. Delivery is best effort; events are never queued.
type RiskEvent struct {
	UserID    int64    `json:"userId"`
	Kind      RiskKind `json:"-"`
	Detected  bool     `json:"detected"`
	BatchID   int32    `json:"batchId"`
	Message   string   `json:"message"`
	Timestamp int64    `json:"timestamp"`
}

// RealtimeResult is the per-batch answer from the vision service.
// Failed calls come back as a value with AnalysisCompleted=false.
type RealtimeResult struct {
	DrowsinessDetected bool
	PhoneUsageDetected bool
	SmokingDetected    bool
	AnalysisCompleted  bool
	ErrorMessage       string
}

// FinalResult is the authoritative whole-session statistics answer.
type FinalResult struct {
	DrowsinessCount   int
	PhoneUsageCount   int
	SmokingCount      int
	AnalysisCompleted bool
	ErrorMessage      string
}

type FrameProcessedResponse struct {
	UserID    int64 `json:"userId"`
	BatchID   int32 `json:"batchId"`
	Timestamp int64 `json:"timestamp"`
	Processed bool  `json:"processed"`
}

type SessionEndRequest struct {
	Type         string `json:"type"`
	UserID       int64  `json:"userId"`
	SessionID    int64  `json:"sessionId"`
	EndTimestamp int64  `json:"endTimestamp"`
}

type SessionEndResponse struct {
	UserID          int64 `json:"userId"`
	SessionID       int64 `json:"sessionId"`
	DrowsinessCount int   `json:"drowsinessCount"`
	PhoneUsageCount int   `json:"phoneUsageCount"`
	SmokingCount    int   `json:"smokingCount"`
	DrivingScore    int   `json:"drivingScore"`
	Saved           bool  `json:"saved"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}
