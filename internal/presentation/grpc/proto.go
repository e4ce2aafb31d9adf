package grpc

// proto.go defines the gRPC server interface derived from
// workhub/settlement/v1/settlement.proto. This file serves as a stand-in for
// buf-generated code. Once `buf generate` is run, replace this file with the
// import from github.com/workhub/api/gen/go/workhub/settlement/v1.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SettlementServiceServer is the server API for SettlementService.
// It mirrors the proto-generated interface from workhub.settlement.v1.SettlementService.
type SettlementServiceServer interface {
	EnsureAccount(context.Context, *EnsureAccountRequest) (*EnsureAccountResponse, error)
	PayForProject(context.Context, *PayForProjectRequest) (*PayForProjectResponse, error)
	ConfirmPayment(context.Context, *ConfirmPaymentRequest) (*ConfirmPaymentResponse, error)
	CancelPaymentIntent(context.Context, *CancelPaymentIntentRequest) (*CancelPaymentIntentResponse, error)
	TransferFunds(context.Context, *TransferFundsRequest) (*TransferFundsResponse, error)
	ListPaymentMethods(context.Context, *ListPaymentMethodsRequest) (*ListPaymentMethodsResponse, error)
	DetachPaymentMethod(context.Context, *DetachPaymentMethodRequest) (*DetachPaymentMethodResponse, error)
	mustEmbedUnimplementedSettlementServiceServer()
}

// UnimplementedSettlementServiceServer provides forward-compatible default implementations.
type UnimplementedSettlementServiceServer struct{}

func (UnimplementedSettlementServiceServer) EnsureAccount(context.Context, *EnsureAccountRequest) (*EnsureAccountResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EnsureAccount not implemented")
}
func (UnimplementedSettlementServiceServer) PayForProject(context.Context, *PayForProjectRequest) (*PayForProjectResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PayForProject not implemented")
}
func (UnimplementedSettlementServiceServer) ConfirmPayment(context.Context, *ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ConfirmPayment not implemented")
}
func (UnimplementedSettlementServiceServer) CancelPaymentIntent(context.Context, *CancelPaymentIntentRequest) (*CancelPaymentIntentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CancelPaymentIntent not implemented")
}
func (UnimplementedSettlementServiceServer) TransferFunds(context.Context, *TransferFundsRequest) (*TransferFundsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method TransferFunds not implemented")
}
func (UnimplementedSettlementServiceServer) ListPaymentMethods(context.Context, *ListPaymentMethodsRequest) (*ListPaymentMethodsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListPaymentMethods not implemented")
}
func (UnimplementedSettlementServiceServer) DetachPaymentMethod(context.Context, *DetachPaymentMethodRequest) (*DetachPaymentMethodResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DetachPaymentMethod not implemented")
}
func (UnimplementedSettlementServiceServer) mustEmbedUnimplementedSettlementServiceServer() {}

// RegisterSettlementServiceServer registers the SettlementServiceServer with the gRPC server.
func RegisterSettlementServiceServer(s *grpclib.Server, srv SettlementServiceServer) {
	s.RegisterService(&_SettlementService_serviceDesc, srv)
}

var _SettlementService_serviceDesc = grpclib.ServiceDesc{ //nolint:revive
	ServiceName: "workhub.settlement.v1.SettlementService",
	HandlerType: (*SettlementServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "EnsureAccount", Handler: _SettlementService_EnsureAccount_Handler},
		{MethodName: "PayForProject", Handler: _SettlementService_PayForProject_Handler},
		{MethodName: "ConfirmPayment", Handler: _SettlementService_ConfirmPayment_Handler},
		{MethodName: "CancelPaymentIntent", Handler: _SettlementService_CancelPaymentIntent_Handler},
		{MethodName: "TransferFunds", Handler: _SettlementService_TransferFunds_Handler},
		{MethodName: "ListPaymentMethods", Handler: _SettlementService_ListPaymentMethods_Handler},
		{MethodName: "DetachPaymentMethod", Handler: _SettlementService_DetachPaymentMethod_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _SettlementService_EnsureAccount_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) { //nolint:revive,errcheck // gRPC handler registration
	in := new(EnsureAccountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SettlementServiceServer).EnsureAccount(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/workhub.settlement.v1.SettlementService/EnsureAccount",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SettlementServiceServer).EnsureAccount(ctx, req.(*EnsureAccountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SettlementService_PayForProject_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) { //nolint:revive,errcheck // gRPC handler registration
	in := new(PayForProjectRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SettlementServiceServer).PayForProject(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/workhub.settlement.v1.SettlementService/PayForProject",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SettlementServiceServer).PayForProject(ctx, req.(*PayForProjectRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SettlementService_ConfirmPayment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) { //nolint:revive,errcheck // gRPC handler registration
	in := new(ConfirmPaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SettlementServiceServer).ConfirmPayment(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/workhub.settlement.v1.SettlementService/ConfirmPayment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SettlementServiceServer).ConfirmPayment(ctx, req.(*ConfirmPaymentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SettlementService_CancelPaymentIntent_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) { //nolint:revive,errcheck // gRPC handler registration
	in := new(CancelPaymentIntentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SettlementServiceServer).CancelPaymentIntent(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/workhub.settlement.v1.SettlementService/CancelPaymentIntent",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SettlementServiceServer).CancelPaymentIntent(ctx, req.(*CancelPaymentIntentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SettlementService_TransferFunds_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) { //nolint:revive,errcheck // gRPC handler registration
	in := new(TransferFundsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SettlementServiceServer).TransferFunds(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/workhub.settlement.v1.SettlementService/TransferFunds",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SettlementServiceServer).TransferFunds(ctx, req.(*TransferFundsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SettlementService_ListPaymentMethods_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) { //nolint:revive,errcheck // gRPC handler registration
	in := new(ListPaymentMethodsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SettlementServiceServer).ListPaymentMethods(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/workhub.settlement.v1.SettlementService/ListPaymentMethods",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SettlementServiceServer).ListPaymentMethods(ctx, req.(*ListPaymentMethodsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SettlementService_DetachPaymentMethod_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) { //nolint:revive,errcheck // gRPC handler registration
	in := new(DetachPaymentMethodRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SettlementServiceServer).DetachPaymentMethod(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/workhub.settlement.v1.SettlementService/DetachPaymentMethod",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SettlementServiceServer).DetachPaymentMethod(ctx, req.(*DetachPaymentMethodRequest))
	}
	return interceptor(ctx, in, info, handler)
}
