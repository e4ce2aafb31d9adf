package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/application/dto"
	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
)

// ListPaymentMethods returns the saved cards for an employer's customer.
// Payment methods live entirely at the provider; nothing is persisted locally
// and no saga invariants apply.
type ListPaymentMethods struct {
	accountLookup port.AccountLookup
	gateway       port.PaymentGateway
}

func NewListPaymentMethods(accountLookup port.AccountLookup, gateway port.PaymentGateway) *ListPaymentMethods {
	return &ListPaymentMethods{accountLookup: accountLookup, gateway: gateway}
}

func (uc *ListPaymentMethods) Execute(ctx context.Context, req dto.ListPaymentMethodsRequest) (dto.ListPaymentMethodsResponse, error) {
	if req.UserID == uuid.Nil {
		return dto.ListPaymentMethodsResponse{}, payerr.E(payerr.BadRequest, "user ID is required")
	}

	customerID, err := uc.accountLookup.EmployerCustomerID(ctx, req.UserID)
	if err != nil {
		return dto.ListPaymentMethodsResponse{}, err
	}
	if customerID == "" {
		return dto.ListPaymentMethodsResponse{}, payerr.E(payerr.NotFound,
			"user %s has no linked customer", req.UserID)
	}

	methods, err := uc.gateway.ListPaymentMethods(ctx, customerID)
	if err != nil {
		return dto.ListPaymentMethodsResponse{}, err
	}

	resp := dto.ListPaymentMethodsResponse{Methods: make([]dto.PaymentMethod, 0, len(methods))}
	for _, m := range methods {
		resp.Methods = append(resp.Methods, dto.PaymentMethod{
			ID:       m.ID,
			Brand:    m.Brand,
			Last4:    m.Last4,
			ExpMonth: m.ExpMonth,
			ExpYear:  m.ExpYear,
		})
	}
	return resp, nil
}

// DetachPaymentMethod removes a saved card after verifying the card belongs
// to the requesting user's customer.
type DetachPaymentMethod struct {
	accountLookup port.AccountLookup
	gateway       port.PaymentGateway
}

func NewDetachPaymentMethod(accountLookup port.AccountLookup, gateway port.PaymentGateway) *DetachPaymentMethod {
	return &DetachPaymentMethod{accountLookup: accountLookup, gateway: gateway}
}

func (uc *DetachPaymentMethod) Execute(ctx context.Context, req dto.DetachPaymentMethodRequest) error {
	if req.UserID == uuid.Nil {
		return payerr.E(payerr.BadRequest, "user ID is required")
	}
	if !paymentMethodIDRe.MatchString(req.PaymentMethodID) {
		return payerr.E(payerr.BadRequest, "invalid payment method ID: %q", req.PaymentMethodID)
	}

	customerID, err := uc.accountLookup.EmployerCustomerID(ctx, req.UserID)
	if err != nil {
		return err
	}
	if customerID == "" {
		return payerr.E(payerr.NotFound, "user %s has no linked customer", req.UserID)
	}

	owner, err := uc.gateway.RetrievePaymentMethodOwner(ctx, req.PaymentMethodID)
	if err != nil {
		return err
	}
	if owner != customerID {
		return payerr.E(payerr.Forbidden, "payment method %s does not belong to user %s", req.PaymentMethodID, req.UserID)
	}

	return uc.gateway.DetachPaymentMethod(ctx, req.PaymentMethodID)
}
