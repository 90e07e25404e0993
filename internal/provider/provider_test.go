package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/session"
)

// testToken builds an unsigned JWT carrying the given claims, the shape the
// backend issues.
func testToken(t *testing.T, tenantID string, expiresAt time.Time) string {
	t.Helper()
	claims := map[string]any{
		"id":       "user-1",
		"name":     "Lovelace",
		"email":    "ada@example.com",
		"role":     "B",
		"tenantID": tenantID,
		"exp":      expiresAt.Unix(),
	}
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString(payload)
	return header + "." + body + ".signature"
}

func loggedInSession(t *testing.T) *session.Manager {
	t.Helper()
	sess := session.NewManager(nil)
	require.NoError(t, sess.SetToken(testToken(t, "tenant-1", time.Now().Add(time.Hour))))
	return sess
}

func TestListChargersQueryAndAuth(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		fmt.Fprint(w, `{"count":2,"result":[{"id":"CS-0001"},{"id":"CS-0002"}]}`)
	}))
	defer server.Close()

	sess := loggedInSession(t)
	client := New(server.URL, sess)
	filters := map[string]string{
		domain.FilterConnectorStatus: "Available",
		domain.FilterSiteAreaID:      "area-1",
		domain.FilterSearch:          "Mougins",
		// Empty values are unset filters and must not reach the wire.
		domain.FilterConnectorType: "",
	}

	result, err := client.ListChargers(context.Background(), filters, Paging{Skip: 20, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, "/client/api/ChargingStations", gotPath)
	assert.Equal(t, "Bearer "+sess.Token(), gotAuth)
	assert.Equal(t, map[string]string{
		"ConnectorStatus": "Available",
		"SiteAreaID":      "area-1",
		"Search":          "Mougins",
		"Skip":            "20",
		"Limit":           "10",
	}, gotQuery)
	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Result, 2)
	assert.Equal(t, "CS-0001", result.Result[0].ID)
}

func TestListDecodesUnknownCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"count":-1,"result":[{"id":1},{"id":2}]}`)
	}))
	defer server.Close()

	client := New(server.URL, loggedInSession(t))
	result, err := client.ListTransactionsActive(context.Background(), nil, Paging{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, CountUnknown, result.Count)
	assert.Len(t, result.Result, 2)
}

func TestHTTPErrorClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no access", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(server.URL, loggedInSession(t))
	_, err := client.ListSites(context.Background(), nil, Paging{Limit: 10})
	require.Error(t, err)

	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsTransport(err), "a rejection is not a transport failure")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "no access")
}

func TestTransportErrorClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	client := New(server.URL, loggedInSession(t))
	_, err := client.ListSites(context.Background(), nil, Paging{Limit: 10})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, IsUnauthorized(err))
}

func TestLoginInstallsSession(t *testing.T) {
	token := testToken(t, "tenant-1", time.Now().Add(time.Hour))
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/client/auth/Login", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprintf(w, `{"token":%q}`, token)
	}))
	defer server.Close()

	sess := session.NewManager(nil)
	client := New(server.URL, sess)
	err := client.Login(context.Background(), "ada@example.com", "secret", "tenant-1")
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", gotBody["email"])
	assert.Equal(t, "tenant-1", gotBody["tenant"])
	assert.Equal(t, true, gotBody["acceptEula"])

	assert.True(t, sess.IsValid())
	assert.Equal(t, "tenant-1", sess.TenantID())
	assert.Equal(t, "user-1", sess.User().ID)
}

func TestLoginRejectedByBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "wrong password", http.StatusUnauthorized)
	}))
	defer server.Close()

	sess := session.NewManager(nil)
	client := New(server.URL, sess)
	err := client.Login(context.Background(), "ada@example.com", "nope", "tenant-1")
	assert.True(t, IsUnauthorized(err))
	assert.False(t, sess.IsValid())
}

func TestLogoutDropsLocalSessionOnBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	sess := loggedInSession(t)
	client := New(server.URL, sess)
	err := client.Logout(context.Background())
	assert.Error(t, err)
	assert.False(t, sess.IsValid(), "local session dropped even when the backend fails")
}

func TestRemoteStartTransaction(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr bool
	}{
		{name: "accepted", status: CommandAccepted},
		{name: "rejected by station", status: CommandRejected, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody map[string]any
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/client/api/ChargingStationRemoteStartTransaction", r.URL.Path)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
				fmt.Fprintf(w, `{"status":%q}`, tt.status)
			}))
			defer server.Close()

			client := New(server.URL, loggedInSession(t))
			err := client.RemoteStartTransaction(context.Background(), "CS-0042", "TAG-1", 2)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "CS-0042", gotBody["chargeBoxID"])
			args := gotBody["args"].(map[string]any)
			assert.Equal(t, "TAG-1", args["tagID"])
			assert.Equal(t, float64(2), args["connectorId"])
		})
	}
}

func TestGetLastTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CS-0042", r.URL.Query().Get("ChargeBoxID"))
		assert.Equal(t, "1", r.URL.Query().Get("Limit"))
		fmt.Fprint(w, `{"count":-1,"result":[]}`)
	}))
	defer server.Close()

	client := New(server.URL, loggedInSession(t))
	tx, err := client.GetLastTransaction(context.Background(), "CS-0042", 1)
	require.NoError(t, err)
	assert.Nil(t, tx, "a connector without history yields no transaction")
}

func TestGetConnectorDetailAggregates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/client/api/ChargingStation", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": "CS-0042",
			"connectors": [
				{"connectorId": 1, "status": "Charging", "activeTransactionID": 777}
			],
			"siteArea": {"id": "area-1", "name": "Parking", "siteID": "site-1"}
		}`)
	})
	mux.HandleFunc("/client/api/Transaction", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "777", r.URL.Query().Get("ID"))
		fmt.Fprint(w, `{"id": 777, "chargeBoxID": "CS-0042", "user": {"id": "user-1", "name": "Lovelace"}}`)
	})
	mux.HandleFunc("/client/api/SiteImage", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "site-1", r.URL.Query().Get("ID"))
		fmt.Fprint(w, `{"image": "data:image/png;base64,QUJD"}`)
	})
	mux.HandleFunc("/client/api/UserImage", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"image": "data:image/png;base64,REVG"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := New(server.URL, loggedInSession(t))
	detail, err := client.GetConnectorDetail(context.Background(), "CS-0042", 1)
	require.NoError(t, err)

	assert.Equal(t, "CS-0042", detail.Charger.ID)
	require.NotNil(t, detail.Connector)
	assert.Equal(t, domain.StatusCharging, detail.Connector.Status)
	require.NotNil(t, detail.Transaction)
	assert.Equal(t, 777, detail.Transaction.ID)
	assert.Equal(t, "data:image/png;base64,QUJD", detail.SiteImage)
	assert.Equal(t, "data:image/png;base64,REVG", detail.UserImage)
}

func TestGetConnectorDetailUnknownConnector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "CS-0042", "connectors": [{"connectorId": 1, "status": "Available"}]}`)
	}))
	defer server.Close()

	client := New(server.URL, loggedInSession(t))
	_, err := client.GetConnectorDetail(context.Background(), "CS-0042", 5)
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/client/ping", r.URL.Path)
	}))
	defer server.Close()

	client := New(server.URL, session.NewManager(nil))
	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, 1, hits)
}

func TestPingDoesNotRetryRejections(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	client := New(server.URL, session.NewManager(nil))
	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, hits, "application rejections are permanent")
}
