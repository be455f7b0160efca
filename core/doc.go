// Package core holds the shared log event model: severity levels, typed
// fields, and the pooled Entry that travels from the logging frontend to
// handlers and formatters.
//
// Fields are stored as a flat ordered slice, never a map. The console
// renderer's fast paths ("the first field is the message", "exactly one
// extra field") depend on emission order, and iteration over a small
// slice beats map lookup for the handful of fields a typical entry
// carries. Three keys are structural rather than display fields:
// "message", "success" and "cause"; core exports them as constants so
// renderers and frontends agree on the spelling.
//
// Entries are pooled via sync.Pool. GetEntry/PutEntry keep the Fields
// backing array alive across uses so steady-state logging does not
// allocate per event.
package core
