package timeline

// Record is an opaque resource or event record. The engine never requires a
// concrete shape; all reads go through accessors.
type Record = map[string]any

// Default accessor fields, matching the conventional record shape.
const (
	DefaultSelectorField = "id"
	DefaultEventIDField  = "id"
	DefaultRelationField = "resourceId"
	DefaultStartField    = "start"
	DefaultEndField      = "end"
)

// Accessor selects a value from a record. It is either a field name or a
// callback over the whole record; when both are zero the caller's fallback
// field applies. Func wins over Field when both are set.
type Accessor struct {
	Field string
	Func  func(Record) any
}

// Resolve extracts the configured value from rec. Missing fields yield nil
// rather than an error; validity filtering is the caller's concern.
func (a Accessor) Resolve(rec Record, fallback string) any {
	switch {
	case a.Func != nil:
		return a.Func(rec)
	case a.Field != "":
		return rec[a.Field]
	default:
		return rec[fallback]
	}
}
