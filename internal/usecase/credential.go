package usecase

import (
	"fmt"
	"time"
)

const credentialTimeFormat = "20060102150405"

// IssueCredential builds the QR credential token for an approved
// application: "{id}+{name}+{YYYYMMDDHHMMSS}". The token is not a secret;
// uniqueness comes from the application id component. Callers mint it at
// most once per application.
func IssueCredential(applicationID, applicantName string, at time.Time) string {
	return fmt.Sprintf("%s+%s+%s", applicationID, applicantName, at.Format(credentialTimeFormat))
}
