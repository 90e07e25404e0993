package provider

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/chargefront/chargefront/internal/domain"
)

// ConnectorDetail aggregates everything the connector detail screen shows
// for one refresh tick.
type ConnectorDetail struct {
	Charger     domain.ChargingStation
	Connector   *domain.Connector
	Transaction *domain.Transaction
	SiteImage   string
	UserImage   string
}

// GetConnectorDetail fetches the charging station and, when a session is
// active on the connector, its transaction and images, in one concurrent
// round trip.
func (c *Client) GetConnectorDetail(ctx context.Context, chargerID string, connectorID int) (ConnectorDetail, error) {
	charger, err := c.GetCharger(ctx, chargerID)
	if err != nil {
		return ConnectorDetail{}, err
	}
	connector := charger.Connector(connectorID)
	if connector == nil {
		return ConnectorDetail{}, fmt.Errorf("charger %s has no connector %d", chargerID, connectorID)
	}

	detail := ConnectorDetail{Charger: charger, Connector: connector}

	g, gctx := errgroup.WithContext(ctx)
	if charger.SiteArea != nil {
		siteID := charger.SiteArea.SiteID
		g.Go(func() error {
			image, err := c.GetSiteImage(gctx, siteID)
			if err != nil {
				// The detail screen renders without an image; not fatal.
				return nil
			}
			detail.SiteImage = image
			return nil
		})
	}
	if connector.ActiveTransactionID != 0 {
		transactionID := connector.ActiveTransactionID
		g.Go(func() error {
			transaction, err := c.GetTransaction(gctx, transactionID)
			if err != nil {
				if IsNotFound(err) {
					return nil
				}
				return err
			}
			detail.Transaction = &transaction
			if transaction.User != nil {
				image, err := c.GetUserImage(gctx, transaction.User.ID)
				if err == nil {
					detail.UserImage = image
				}
			}
			return nil
		})
	} else {
		g.Go(func() error {
			// Idle connector: show the last completed session instead.
			transaction, err := c.GetLastTransaction(gctx, chargerID, connectorID)
			if err != nil || transaction == nil {
				return nil
			}
			detail.Transaction = transaction
			if transaction.User != nil {
				image, err := c.GetUserImage(gctx, transaction.User.ID)
				if err == nil {
					detail.UserImage = image
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ConnectorDetail{}, err
	}
	return detail, nil
}
