package google

// DefaultOAuthScopes are the Gmail OAuth scopes the gateway requests during
// authorization. Listing, reading and label changes need readonly+modify;
// the labels scope covers label management.
var DefaultOAuthScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.labels",
}
