package log

import "sort"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldTemplateID  = "template_id"
	FieldTemplate    = "template_name"
	FieldAmountCents = "amount_cents"
	FieldKind        = "kind"
	FieldPeriodicity = "periodicity"
	FieldCategory    = "category"
	FieldMonth       = "month"
	FieldDate        = "date"
	FieldMode        = "mode"
	FieldVersion     = "version"
)

// Component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
)

// Operation names
const (
	OpCreate   = "create"
	OpDelete   = "delete"
	OpProject  = "project"
	OpSave     = "save"
	OpLoad     = "load"
	OpPublish  = "publish"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder for structured log fields.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTemplate adds the identifying fields of a template.
func (f LogFields) WithTemplate(id, name string, amountCents int64, kind, periodicity, category string) LogFields {
	f[FieldTemplateID] = id
	f[FieldTemplate] = name
	f[FieldAmountCents] = amountCents
	f[FieldKind] = kind
	f[FieldPeriodicity] = periodicity
	f[FieldCategory] = category
	return f
}

// WithDeletion adds the target of a deletion request.
func (f LogFields) WithDeletion(id, date, mode string) LogFields {
	f[FieldTemplateID] = id
	f[FieldDate] = date
	f[FieldMode] = mode
	return f
}

func (f LogFields) WithMonth(month string) LogFields {
	f[FieldMonth] = month
	return f
}

func (f LogFields) WithVersion(v int64) LogFields {
	f[FieldVersion] = v
	return f
}

// WithHTTPRequest adds HTTP request fields.
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	return f
}

// WithHTTPResponse adds HTTP response fields.
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice converts the fields to slog key/value arguments, sorted by key so
// output is stable.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
