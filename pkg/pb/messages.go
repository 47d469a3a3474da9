// Package pb holds the wire bindings for drivinganalysis.VideoAnalysisService
// (see video_analysis.proto). The bindings are hand maintained: the message
// structs carry proto3 field tags and satisfy the legacy proto message
// interface, which the standard gRPC proto codec adapts transparently, so
// no generated code needs to be checked in.
package pb

import "fmt"

type Frame struct {
	Data    []byte `protobuf:"bytes,1,opt,name=data,proto3" json:"data,omitempty"`
	FrameId int32  `protobuf:"varint,2,opt,name=frame_id,json=frameId,proto3" json:"frame_id,omitempty"`
}

func (m *Frame) Reset() { *m = Frame{} }
func (m *Frame) String() string {
	return fmt.Sprintf("Frame{frame_id:%d, %d bytes}", m.FrameId, len(m.Data))
}
func (*Frame) ProtoMessage() {}

type FrameBatch struct {
	UserId    int64    `protobuf:"varint,1,opt,name=user_id,json=userId,proto3" json:"user_id,omitempty"`
	BatchId   int32    `protobuf:"varint,2,opt,name=batch_id,json=batchId,proto3" json:"batch_id,omitempty"`
	Timestamp int64    `protobuf:"varint,3,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	Frames    []*Frame `protobuf:"bytes,4,rep,name=frames,proto3" json:"frames,omitempty"`
}

func (m *FrameBatch) Reset() { *m = FrameBatch{} }
func (m *FrameBatch) String() string {
	return fmt.Sprintf("FrameBatch{user_id:%d, batch_id:%d, frames:%d}", m.UserId, m.BatchId, len(m.Frames))
}
func (*FrameBatch) ProtoMessage() {}

type RealtimeAnalysisResponse struct {
	UserId             int64  `protobuf:"varint,1,opt,name=user_id,json=userId,proto3" json:"user_id,omitempty"`
	DrowsinessDetected bool   `protobuf:"varint,2,opt,name=drowsiness_detected,json=drowsinessDetected,proto3" json:"drowsiness_detected,omitempty"`
	PhoneUsageDetected bool   `protobuf:"varint,3,opt,name=phone_usage_detected,json=phoneUsageDetected,proto3" json:"phone_usage_detected,omitempty"`
	SmokingDetected    bool   `protobuf:"varint,4,opt,name=smoking_detected,json=smokingDetected,proto3" json:"smoking_detected,omitempty"`
	AnalysisCompleted  bool   `protobuf:"varint,5,opt,name=analysis_completed,json=analysisCompleted,proto3" json:"analysis_completed,omitempty"`
	ErrorMessage       string `protobuf:"bytes,6,opt,name=error_message,json=errorMessage,proto3" json:"error_message,omitempty"`
}

func (m *RealtimeAnalysisResponse) Reset() { *m = RealtimeAnalysisResponse{} }
func (m *RealtimeAnalysisResponse) String() string {
	return fmt.Sprintf("RealtimeAnalysisResponse{user_id:%d, completed:%t}", m.UserId, m.AnalysisCompleted)
}
func (*RealtimeAnalysisResponse) ProtoMessage() {}

type DrivingSessionEnd struct {
	UserId         int64 `protobuf:"varint,1,opt,name=user_id,json=userId,proto3" json:"user_id,omitempty"`
	SessionId      int64 `protobuf:"varint,2,opt,name=session_id,json=sessionId,proto3" json:"session_id,omitempty"`
	StartTimestamp int64 `protobuf:"varint,3,opt,name=start_timestamp,json=startTimestamp,proto3" json:"start_timestamp,omitempty"`
	EndTimestamp   int64 `protobuf:"varint,4,opt,name=end_timestamp,json=endTimestamp,proto3" json:"end_timestamp,omitempty"`
}

func (m *DrivingSessionEnd) Reset() { *m = DrivingSessionEnd{} }
func (m *DrivingSessionEnd) String() string {
	return fmt.Sprintf("DrivingSessionEnd{user_id:%d, session_id:%d}", m.UserId, m.SessionId)
}
func (*DrivingSessionEnd) ProtoMessage() {}

type FinalAnalysisResponse struct {
	UserId            int64  `protobuf:"varint,1,opt,name=user_id,json=userId,proto3" json:"user_id,omitempty"`
	DrowsinessCount   int32  `protobuf:"varint,2,opt,name=drowsiness_count,json=drowsinessCount,proto3" json:"drowsiness_count,omitempty"`
	PhoneUsageCount   int32  `protobuf:"varint,3,opt,name=phone_usage_count,json=phoneUsageCount,proto3" json:"phone_usage_count,omitempty"`
	SmokingCount      int32  `protobuf:"varint,4,opt,name=smoking_count,json=smokingCount,proto3" json:"smoking_count,omitempty"`
	AnalysisCompleted bool   `protobuf:"varint,5,opt,name=analysis_completed,json=analysisCompleted,proto3" json:"analysis_completed,omitempty"`
	ErrorMessage      string `protobuf:"bytes,6,opt,name=error_message,json=errorMessage,proto3" json:"error_message,omitempty"`
}

func (m *FinalAnalysisResponse) Reset() { *m = FinalAnalysisResponse{} }
func (m *FinalAnalysisResponse) String() string {
	return fmt.Sprintf("FinalAnalysisResponse{user_id:%d, completed:%t}", m.UserId, m.AnalysisCompleted)
}
func (*FinalAnalysisResponse) ProtoMessage() {}
