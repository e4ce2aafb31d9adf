package grpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/workhub/settlement/internal/application/dto"
	"github.com/workhub/settlement/internal/application/usecase"
	"github.com/workhub/settlement/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

// callerFromContext extracts the authenticated user from JWT claims.
func callerFromContext(ctx context.Context) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	return claims, nil
}

// Compile-time assertion that SettlementHandler implements SettlementServiceServer.
var _ SettlementServiceServer = (*SettlementHandler)(nil)

// SettlementHandler implements the gRPC SettlementService server.
type SettlementHandler struct {
	UnimplementedSettlementServiceServer
	ensureAccount       *usecase.EnsureAccount
	payForProject       *usecase.PayForProject
	confirmPayment      *usecase.ConfirmPayment
	cancelIntent        *usecase.CancelIntent
	transferFunds       *usecase.TransferFunds
	listPaymentMethods  *usecase.ListPaymentMethods
	detachPaymentMethod *usecase.DetachPaymentMethod

	logger *slog.Logger
}

func NewSettlementHandler(
	ensureAccount *usecase.EnsureAccount,
	payForProject *usecase.PayForProject,
	confirmPayment *usecase.ConfirmPayment,
	cancelIntent *usecase.CancelIntent,
	transferFunds *usecase.TransferFunds,
	listPaymentMethods *usecase.ListPaymentMethods,
	detachPaymentMethod *usecase.DetachPaymentMethod,
	logger *slog.Logger,
) *SettlementHandler {
	return &SettlementHandler{
		ensureAccount:       ensureAccount,
		payForProject:       payForProject,
		confirmPayment:      confirmPayment,
		cancelIntent:        cancelIntent,
		transferFunds:       transferFunds,
		listPaymentMethods:  listPaymentMethods,
		detachPaymentMethod: detachPaymentMethod,

		logger: logger,
	}
}

// Temporary gRPC message types until proto generation is wired.

type EnsureAccountRequest struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email"`
	Kind   string `json:"kind"`
}

type EnsureAccountResponse struct {
	UserID            string `json:"user_id"`
	ExternalAccountID string `json:"external_account_id"`
	Kind              string `json:"kind"`
	Created           bool   `json:"created"`
}

type PayForProjectRequest struct {
	ProjectID       string `json:"project_id"`
	PaymentMethodID string `json:"payment_method_id"`
}

type PayForProjectResponse struct {
	IntentID         string `json:"intent_id"`
	ProjectID        string `json:"project_id"`
	AmountMinorUnits int64  `json:"amount_minor_units"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

type ConfirmPaymentRequest struct {
	ProjectID string `json:"project_id"`
}

type ConfirmPaymentResponse struct {
	IntentID         string `json:"intent_id"`
	ChargeID         string `json:"charge_id"`
	AmountMinorUnits int64  `json:"amount_minor_units"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
}

type CancelPaymentIntentRequest struct {
	IntentID string `json:"intent_id"`
}

type CancelPaymentIntentResponse struct {
	IntentID  string `json:"intent_id"`
	ProjectID string `json:"project_id"`
	Status    string `json:"status"`
}

type TransferFundsRequest struct {
	ProjectID string `json:"project_id"`
}

type TransferFundsResponse struct {
	TransferID         string `json:"transfer_id"`
	ProjectID          string `json:"project_id"`
	AmountMinorUnits   int64  `json:"amount_minor_units"`
	Currency           string `json:"currency"`
	RecipientAccountID string `json:"recipient_account_id"`
	Created            bool   `json:"created"`
}

type ListPaymentMethodsRequest struct{}

type PaymentMethodMsg struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int64  `json:"exp_month"`
	ExpYear  int64  `json:"exp_year"`
}

type ListPaymentMethodsResponse struct {
	Methods []*PaymentMethodMsg `json:"methods"`
}

type DetachPaymentMethodRequest struct {
	PaymentMethodID string `json:"payment_method_id"`
}

type DetachPaymentMethodResponse struct{}

func (h *SettlementHandler) EnsureAccount(ctx context.Context, req *EnsureAccountRequest) (*EnsureAccountResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleEmployer, auth.RoleFreelancer); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	claims, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	userID := claims.UserID
	if req.UserID != "" {
		userID, err = uuid.Parse(req.UserID)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid user_id: %v", err)
		}
		// Only admins may provision accounts for other users.
		if userID != claims.UserID && !claims.HasRole(auth.RoleAdmin) {
			return nil, status.Error(codes.PermissionDenied, "cannot provision an account for another user")
		}
	}

	result, err := h.ensureAccount.Execute(ctx, dto.EnsureAccountRequest{
		UserID: userID,
		Email:  req.Email,
		Kind:   req.Kind,
	})
	if err != nil {
		h.logger.Error("ensure account failed", "user_id", userID, "error", err)
		return nil, statusFromError(err)
	}

	return &EnsureAccountResponse{
		UserID:            result.UserID.String(),
		ExternalAccountID: result.ExternalAccountID,
		Kind:              result.Kind,
		Created:           result.Created,
	}, nil
}

func (h *SettlementHandler) PayForProject(ctx context.Context, req *PayForProjectRequest) (*PayForProjectResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleEmployer); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	claims, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid project_id: %v", err)
	}
	if req.PaymentMethodID == "" {
		return nil, status.Error(codes.InvalidArgument, "payment_method_id is required")
	}

	result, err := h.payForProject.Execute(ctx, dto.PayForProjectRequest{
		PayerID:         claims.UserID,
		ProjectID:       projectID,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		h.logger.Error("pay for project failed", "project_id", projectID, "error", err)
		return nil, statusFromError(err)
	}

	return &PayForProjectResponse{
		IntentID:         result.IntentID,
		ProjectID:        result.ProjectID.String(),
		AmountMinorUnits: result.AmountMinorUnits,
		Currency:         result.Currency,
		Status:           result.Status,
		CreatedAt:        result.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (h *SettlementHandler) ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleEmployer); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid project_id: %v", err)
	}

	result, err := h.confirmPayment.Execute(ctx, dto.ConfirmPaymentRequest{ProjectID: projectID})
	if err != nil {
		h.logger.Error("confirm payment failed", "project_id", projectID, "error", err)
		return nil, statusFromError(err)
	}

	return &ConfirmPaymentResponse{
		IntentID:         result.IntentID,
		ChargeID:         result.ChargeID,
		AmountMinorUnits: result.AmountMinorUnits,
		Currency:         result.Currency,
		Status:           result.Status,
	}, nil
}

func (h *SettlementHandler) CancelPaymentIntent(ctx context.Context, req *CancelPaymentIntentRequest) (*CancelPaymentIntentResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.IntentID == "" {
		return nil, status.Error(codes.InvalidArgument, "intent_id is required")
	}

	result, err := h.cancelIntent.Execute(ctx, dto.CancelIntentRequest{IntentExternalID: req.IntentID})
	if err != nil {
		h.logger.Error("cancel payment intent failed", "intent_id", req.IntentID, "error", err)
		return nil, statusFromError(err)
	}

	return &CancelPaymentIntentResponse{
		IntentID:  result.IntentID,
		ProjectID: result.ProjectID.String(),
		Status:    result.Status,
	}, nil
}

func (h *SettlementHandler) TransferFunds(ctx context.Context, req *TransferFundsRequest) (*TransferFundsResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid project_id: %v", err)
	}

	result, err := h.transferFunds.Execute(ctx, dto.TransferFundsRequest{ProjectID: projectID})
	if err != nil {
		h.logger.Error("transfer funds failed", "project_id", projectID, "error", err)
		return nil, statusFromError(err)
	}

	return &TransferFundsResponse{
		TransferID:         result.TransferID,
		ProjectID:          result.ProjectID.String(),
		AmountMinorUnits:   result.AmountMinorUnits,
		Currency:           result.Currency,
		RecipientAccountID: result.RecipientAccountID,
		Created:            result.Created,
	}, nil
}

func (h *SettlementHandler) ListPaymentMethods(ctx context.Context, req *ListPaymentMethodsRequest) (*ListPaymentMethodsResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleEmployer); err != nil {
		return nil, err
	}

	claims, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.listPaymentMethods.Execute(ctx, dto.ListPaymentMethodsRequest{UserID: claims.UserID})
	if err != nil {
		h.logger.Error("list payment methods failed", "user_id", claims.UserID, "error", err)
		return nil, statusFromError(err)
	}

	var methods []*PaymentMethodMsg
	for _, m := range result.Methods {
		methods = append(methods, &PaymentMethodMsg{
			ID:       m.ID,
			Brand:    m.Brand,
			Last4:    m.Last4,
			ExpMonth: m.ExpMonth,
			ExpYear:  m.ExpYear,
		})
	}

	return &ListPaymentMethodsResponse{Methods: methods}, nil
}

func (h *SettlementHandler) DetachPaymentMethod(ctx context.Context, req *DetachPaymentMethodRequest) (*DetachPaymentMethodResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleEmployer); err != nil {
		return nil, err
	}
	if req == nil || req.PaymentMethodID == "" {
		return nil, status.Error(codes.InvalidArgument, "payment_method_id is required")
	}

	claims, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.detachPaymentMethod.Execute(ctx, dto.DetachPaymentMethodRequest{
		UserID:          claims.UserID,
		PaymentMethodID: req.PaymentMethodID,
	}); err != nil {
		h.logger.Error("detach payment method failed", "user_id", claims.UserID, "error", err)
		return nil, statusFromError(err)
	}

	return &DetachPaymentMethodResponse{}, nil
}
