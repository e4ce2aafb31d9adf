package lookup

import (
	"context"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/pkg/money"
)

const getProjectMethod = "/workhub.project.v1.ProjectService/GetProject"

// ProjectClient implements port.ProjectLookup against the project service.
type ProjectClient struct {
	conn *ServiceConn
}

func NewProjectClient(conn *ServiceConn) *ProjectClient {
	return &ProjectClient{conn: conn}
}

type getProjectRequest struct {
	ProjectID string `json:"project_id"`
}

type getProjectResponse struct {
	ProjectID       string `json:"project_id"`
	Budget          string `json:"budget"`
	Currency        string `json:"currency"`
	FreelancerID    string `json:"freelancer_id,omitempty"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
}

func (c *ProjectClient) ProjectByID(ctx context.Context, projectID uuid.UUID) (port.ProjectSnapshot, error) {
	req := getProjectRequest{ProjectID: projectID.String()}
	var resp getProjectResponse
	if err := c.conn.Invoke(ctx, getProjectMethod, &req, &resp); err != nil {
		return port.ProjectSnapshot{}, err
	}

	budget, err := money.FromDecimalString(resp.Budget, resp.Currency)
	if err != nil {
		return port.ProjectSnapshot{}, payerr.Wrap(payerr.Internal, err,
			"project %s carries unreadable budget %q %s", projectID, resp.Budget, resp.Currency)
	}

	snapshot := port.ProjectSnapshot{
		ProjectID:       projectID,
		Budget:          budget,
		PaymentIntentID: resp.PaymentIntentID,
	}
	if resp.FreelancerID != "" {
		freelancerID, err := uuid.Parse(resp.FreelancerID)
		if err != nil {
			return port.ProjectSnapshot{}, payerr.Wrap(payerr.Internal, err,
				"project %s carries malformed freelancer id %q", projectID, resp.FreelancerID)
		}
		snapshot.FreelancerID = freelancerID
	}
	return snapshot, nil
}
