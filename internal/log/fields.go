package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldLineage   = "lineage"
	FieldRunDate   = "run_date"
	FieldCampaigns = "campaigns"
	FieldChanges   = "changes"
	FieldRowErrors = "row_errors"
	FieldDocument  = "document"
	FieldPlaintext = "plaintext"
	FieldRemoved   = "removed"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentLoader    = "loader"
	ComponentHistory   = "history"
	ComponentReport    = "report"
	ComponentRetention = "retention"
	ComponentAMQP      = "amqp"
	ComponentMail      = "mail"
	ComponentWorker    = "worker"
)
