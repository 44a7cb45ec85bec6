package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldDomain     = "domain"
	FieldTemplateID = "template_id"
	FieldMonth      = "month"
	FieldCount      = "count"
	FieldSheetTab   = "sheet_tab"
	FieldSeverity   = "severity"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentWorker    = "worker"
	ComponentRecurring = "recurring"
	ComponentNotify    = "notify"
)
