package provider

import (
	"context"
	"fmt"
	"net/http"
)

// Remote command statuses reported by the charging station.
const (
	CommandAccepted = "Accepted"
	CommandRejected = "Rejected"
)

type remoteStartRequest struct {
	ChargeBoxID string          `json:"chargeBoxID"`
	Args        remoteStartArgs `json:"args"`
}

type remoteStartArgs struct {
	TagID       string `json:"tagID"`
	ConnectorID int    `json:"connectorId"`
}

type remoteStopRequest struct {
	ChargeBoxID string         `json:"chargeBoxID"`
	Args        remoteStopArgs `json:"args"`
}

type remoteStopArgs struct {
	TransactionID int `json:"transactionId"`
}

type commandResponse struct {
	Status string `json:"status"`
}

// RemoteStartTransaction asks the station to start a charging session on the
// given connector for the badge tag. The station may still reject the
// command; a rejection is returned as an error.
func (c *Client) RemoteStartTransaction(ctx context.Context, chargeBoxID, tagID string, connectorID int) error {
	req := remoteStartRequest{
		ChargeBoxID: chargeBoxID,
		Args:        remoteStartArgs{TagID: tagID, ConnectorID: connectorID},
	}
	var resp commandResponse
	if err := c.do(ctx, http.MethodPost, securedBasePath+"ChargingStationRemoteStartTransaction", nil, req, &resp); err != nil {
		return err
	}
	if resp.Status != CommandAccepted {
		return fmt.Errorf("station %s rejected start command: %s", chargeBoxID, resp.Status)
	}
	return nil
}

// RemoteStopTransaction asks the station to stop the given charging session.
func (c *Client) RemoteStopTransaction(ctx context.Context, chargeBoxID string, transactionID int) error {
	req := remoteStopRequest{
		ChargeBoxID: chargeBoxID,
		Args:        remoteStopArgs{TransactionID: transactionID},
	}
	var resp commandResponse
	if err := c.do(ctx, http.MethodPost, securedBasePath+"ChargingStationRemoteStopTransaction", nil, req, &resp); err != nil {
		return err
	}
	if resp.Status != CommandAccepted {
		return fmt.Errorf("station %s rejected stop command: %s", chargeBoxID, resp.Status)
	}
	return nil
}
