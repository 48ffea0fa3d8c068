package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for the email
// worker. Body is plain text.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
