package constants

// Route constants shared by the router and the URLs handed to Plug
const (
	WebhookRoute     = "/webhooks/plug"
	HubInstallRoute  = "/hub/install"
	HubCallbackRoute = "/hub/callback"
	HubStatusRoute   = "/hub/status"
	APIv1Route       = "/api/v1"
)
