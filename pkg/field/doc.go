// Package field implements the state controller behind a single form input.
//
// A Field owns its current value, its visible validation errors and three
// flags: pristine (never changed), validating (a validation run is in flight)
// and changing (inside the display delay that follows a change). It talks to
// the owning form only through the Coordinator interface: it reads whole-form
// snapshots, writes its serialized value at its path, asks for sibling fields
// to be re-validated and registers/deregisters itself.
//
// Validators run in declared order. A failing validator stops the run unless
// its Validation sets ContinueOnFail. Overlapping runs are ordered by a
// generation counter taken when the run starts: only the newest run may change
// the visible errors, older runs complete and return their own Result to
// their caller but leave the field untouched. Superseded validators are not
// cancelled; a validator that starts network calls should watch its context.
package field
