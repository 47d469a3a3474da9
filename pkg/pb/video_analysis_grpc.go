package pb

import (
	"context"

	"google.golang.org/grpc"
)

const (
	analyzeFramesMethod     = "/drivinganalysis.VideoAnalysisService/AnalyzeFrames"
	endDrivingSessionMethod = "/drivinganalysis.VideoAnalysisService/EndDrivingSession"
)

type VideoAnalysisServiceClient interface {
	AnalyzeFrames(ctx context.Context, in *FrameBatch, opts ...grpc.CallOption) (*RealtimeAnalysisResponse, error)
	EndDrivingSession(ctx context.Context, in *DrivingSessionEnd, opts ...grpc.CallOption) (*FinalAnalysisResponse, error)
}

type videoAnalysisServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewVideoAnalysisServiceClient(cc grpc.ClientConnInterface) VideoAnalysisServiceClient {
	return &videoAnalysisServiceClient{cc}
}

func (c *videoAnalysisServiceClient) AnalyzeFrames(ctx context.Context, in *FrameBatch, opts ...grpc.CallOption) (*RealtimeAnalysisResponse, error) {
	out := new(RealtimeAnalysisResponse)
	if err := c.cc.Invoke(ctx, analyzeFramesMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *videoAnalysisServiceClient) EndDrivingSession(ctx context.Context, in *DrivingSessionEnd, opts ...grpc.CallOption) (*FinalAnalysisResponse, error) {
	out := new(FinalAnalysisResponse)
	if err := c.cc.Invoke(ctx, endDrivingSessionMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// VideoAnalysisServiceServer is implemented by in-process fakes in tests.
// The production vision service lives elsewhere.
type VideoAnalysisServiceServer interface {
	AnalyzeFrames(context.Context, *FrameBatch) (*RealtimeAnalysisResponse, error)
	EndDrivingSession(context.Context, *DrivingSessionEnd) (*FinalAnalysisResponse, error)
}

func RegisterVideoAnalysisServiceServer(s grpc.ServiceRegistrar, srv VideoAnalysisServiceServer) {
	s.RegisterService(&VideoAnalysisService_ServiceDesc, srv)
}

func _VideoAnalysisService_AnalyzeFrames_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(FrameBatch)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VideoAnalysisServiceServer).AnalyzeFrames(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: analyzeFramesMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(VideoAnalysisServiceServer).AnalyzeFrames(ctx, req.(*FrameBatch))
	}
	return interceptor(ctx, in, info, handler)
}

func _VideoAnalysisService_EndDrivingSession_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DrivingSessionEnd)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VideoAnalysisServiceServer).EndDrivingSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: endDrivingSessionMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(VideoAnalysisServiceServer).EndDrivingSession(ctx, req.(*DrivingSessionEnd))
	}
	return interceptor(ctx, in, info, handler)
}

var VideoAnalysisService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "drivinganalysis.VideoAnalysisService",
	HandlerType: (*VideoAnalysisServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AnalyzeFrames",
			Handler:    _VideoAnalysisService_AnalyzeFrames_Handler,
		},
		{
			MethodName: "EndDrivingSession",
			Handler:    _VideoAnalysisService_EndDrivingSession_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "video_analysis.proto",
}
