package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/chargefront/chargefront/internal/domain"
)

// Resource path names of the backend REST API.
const (
	ResourceChargingStations      = "ChargingStations"
	ResourceChargingStation       = "ChargingStation"
	ResourceSites                 = "Sites"
	ResourceSiteAreas             = "SiteAreas"
	ResourceSiteImage             = "SiteImage"
	ResourceUsers                 = "Users"
	ResourceUserImage             = "UserImage"
	ResourceTransactionsActive    = "TransactionsActive"
	ResourceTransactionsCompleted = "TransactionsCompleted"
	ResourceTransaction           = "Transaction"
)

// ListChargers fetches one page of charging stations.
func (c *Client) ListChargers(ctx context.Context, filters map[string]string, paging Paging) (ListResult[domain.ChargingStation], error) {
	return list[domain.ChargingStation](ctx, c, ResourceChargingStations, filters, paging)
}

// ListSites fetches one page of sites.
func (c *Client) ListSites(ctx context.Context, filters map[string]string, paging Paging) (ListResult[domain.Site], error) {
	return list[domain.Site](ctx, c, ResourceSites, filters, paging)
}

// ListSiteAreas fetches one page of site areas.
func (c *Client) ListSiteAreas(ctx context.Context, filters map[string]string, paging Paging) (ListResult[domain.SiteArea], error) {
	return list[domain.SiteArea](ctx, c, ResourceSiteAreas, filters, paging)
}

// ListUsers fetches one page of users.
func (c *Client) ListUsers(ctx context.Context, filters map[string]string, paging Paging) (ListResult[domain.User], error) {
	return list[domain.User](ctx, c, ResourceUsers, filters, paging)
}

// ListTransactionsActive fetches one page of in-progress charging sessions.
func (c *Client) ListTransactionsActive(ctx context.Context, filters map[string]string, paging Paging) (ListResult[domain.Transaction], error) {
	return list[domain.Transaction](ctx, c, ResourceTransactionsActive, filters, paging)
}

// ListTransactionsCompleted fetches one page of completed charging sessions.
func (c *Client) ListTransactionsCompleted(ctx context.Context, filters map[string]string, paging Paging) (ListResult[domain.Transaction], error) {
	return list[domain.Transaction](ctx, c, ResourceTransactionsCompleted, filters, paging)
}

// GetCharger fetches a single charging station by ID.
func (c *Client) GetCharger(ctx context.Context, chargerID string) (domain.ChargingStation, error) {
	return get[domain.ChargingStation](ctx, c, ResourceChargingStation, chargerID)
}

// GetTransaction fetches a single transaction by ID.
func (c *Client) GetTransaction(ctx context.Context, transactionID int) (domain.Transaction, error) {
	return get[domain.Transaction](ctx, c, ResourceTransaction, strconv.Itoa(transactionID))
}

// GetLastTransaction returns the most recent completed transaction of a
// connector, or nil when the connector has none.
func (c *Client) GetLastTransaction(ctx context.Context, chargeBoxID string, connectorID int) (*domain.Transaction, error) {
	filters := map[string]string{
		"ChargeBoxID": chargeBoxID,
		"ConnectorId": strconv.Itoa(connectorID),
	}
	result, err := c.ListTransactionsCompleted(ctx, filters, Paging{Skip: 0, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(result.Result) == 0 {
		return nil, nil
	}
	return &result.Result[0], nil
}

// DefaultTagID resolves the first RFID tag of a user, for remote starts
// issued without an explicit tag.
func (c *Client) DefaultTagID(ctx context.Context, userID string) (string, error) {
	result, err := c.ListUsers(ctx, map[string]string{domain.FilterUserID: userID}, Paging{Skip: 0, Limit: 1})
	if err != nil {
		return "", err
	}
	if len(result.Result) == 0 || len(result.Result[0].TagIDs) == 0 {
		return "", fmt.Errorf("user %s has no charging tag", userID)
	}
	return result.Result[0].TagIDs[0], nil
}

type imageResponse struct {
	Image string `json:"image"`
}

// GetSiteImage fetches the image of a site as a data URI.
func (c *Client) GetSiteImage(ctx context.Context, siteID string) (string, error) {
	query := url.Values{}
	query.Set("ID", siteID)
	var resp imageResponse
	if err := c.do(ctx, http.MethodGet, securedBasePath+ResourceSiteImage, query, nil, &resp); err != nil {
		return "", err
	}
	return resp.Image, nil
}

// GetUserImage fetches the avatar of a user as a data URI.
func (c *Client) GetUserImage(ctx context.Context, userID string) (string, error) {
	query := url.Values{}
	query.Set("ID", userID)
	var resp imageResponse
	if err := c.do(ctx, http.MethodGet, securedBasePath+ResourceUserImage, query, nil, &resp); err != nil {
		return "", err
	}
	return resp.Image, nil
}
