package domain

// Filter identifiers shared between filter screens, persisted defaults, and
// the query parameters sent to the backend.
const (
	FilterConnectorStatus = "connectorStatus"
	FilterConnectorType   = "connectorType"
	FilterStartDate       = "startDateTime"
	FilterEndDate         = "endDateTime"
	FilterUserID          = "userID"
	FilterSiteAreaID      = "siteAreaID"
	FilterSearch          = "search"
)

// queryParams maps filter identifiers to the query parameter names of the
// backend REST API.
var queryParams = map[string]string{
	FilterConnectorStatus: "ConnectorStatus",
	FilterConnectorType:   "ConnectorType",
	FilterStartDate:       "StartDateTime",
	FilterEndDate:         "EndDateTime",
	FilterUserID:          "UserID",
	FilterSiteAreaID:      "SiteAreaID",
	FilterSearch:          "Search",
}

// QueryParam returns the backend query parameter name for a filter
// identifier. Unknown identifiers map to themselves so screen-local filters
// still reach the backend unchanged.
func QueryParam(filterID string) string {
	if param, ok := queryParams[filterID]; ok {
		return param
	}
	return filterID
}
