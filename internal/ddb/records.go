package ddb

import "strings"

// PrefRecord is one stored preference.
type PrefRecord struct {
	Namespace string `dynamodbav:"pk"`
	Key       string `dynamodbav:"sk"`
	Value     string `dynamodbav:"value"`
	UpdatedAt int64  `dynamodbav:"updated_at"`
}

// PrefPK is the partition key for the preferences of one namespace.
func PrefPK(namespace string) string {
	return "prefs#" + namespace
}

// ContactSK is the sort key of every contact submission item.
const ContactSK = "submission"

// ContactRecord is one stored contact form submission.
type ContactRecord struct {
	ID         string `dynamodbav:"pk"`
	Kind       string `dynamodbav:"sk"`
	Name       string `dynamodbav:"name"`
	Email      string `dynamodbav:"email"`
	Subject    string `dynamodbav:"subject"`
	Message    string `dynamodbav:"message"`
	ReceivedAt string `dynamodbav:"received_at"`
	RemoteAddr string `dynamodbav:"remote_addr,omitempty"`
	UserAgent  string `dynamodbav:"user_agent,omitempty"`
}

// ContactPK is the partition key for a submission id.
func ContactPK(id string) string {
	return "contact#" + id
}

// SubmissionID strips the partition key prefix from a contact record id.
func (r ContactRecord) SubmissionID() string {
	return strings.TrimPrefix(r.ID, "contact#")
}
