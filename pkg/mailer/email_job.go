package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// HTML is the rendered body; Text is an optional plain fallback.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html"`
}

// Valid reports whether the job carries enough to be delivered.
func (j EmailJob) Valid() bool {
	return j.To != "" && j.Subject != "" && (j.HTML != "" || j.Text != "")
}
