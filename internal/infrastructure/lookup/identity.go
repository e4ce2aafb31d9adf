package lookup

import (
	"context"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/domain/payerr"
)

const (
	getEmployerMethod   = "/workhub.identity.v1.IdentityService/GetEmployer"
	getFreelancerMethod = "/workhub.identity.v1.IdentityService/GetFreelancer"
)

// IdentityClient implements port.AccountLookup against the identity service.
type IdentityClient struct {
	conn *ServiceConn
}

func NewIdentityClient(conn *ServiceConn) *IdentityClient {
	return &IdentityClient{conn: conn}
}

type getUserRequest struct {
	UserID string `json:"user_id"`
}

type getEmployerResponse struct {
	UserID     string `json:"user_id"`
	CustomerID string `json:"customer_id,omitempty"`
}

type getFreelancerResponse struct {
	UserID    string `json:"user_id"`
	AccountID string `json:"account_id,omitempty"`
}

func (c *IdentityClient) EmployerCustomerID(ctx context.Context, userID uuid.UUID) (string, error) {
	req := getUserRequest{UserID: userID.String()}
	var resp getEmployerResponse
	if err := c.conn.Invoke(ctx, getEmployerMethod, &req, &resp); err != nil {
		return "", err
	}
	// The mirrored column is nullable: the user exists but the linkage event
	// has not been applied yet, or EnsureAccount was never called.
	if resp.CustomerID == "" {
		return "", payerr.E(payerr.NotFound, "user %s has no linked customer", userID)
	}
	return resp.CustomerID, nil
}

func (c *IdentityClient) FreelancerAccountID(ctx context.Context, userID uuid.UUID) (string, error) {
	req := getUserRequest{UserID: userID.String()}
	var resp getFreelancerResponse
	if err := c.conn.Invoke(ctx, getFreelancerMethod, &req, &resp); err != nil {
		return "", err
	}
	if resp.AccountID == "" {
		return "", payerr.E(payerr.NotFound, "user %s has no linked account", userID)
	}
	return resp.AccountID, nil
}
