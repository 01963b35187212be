package opts

// Descriptor declares one option. Default is nil (no default), a Deferred
// expression computed from other options, or any other value used literally.
type Descriptor struct {
	Name         string
	Description  string
	Type         Type
	Default      any
	StaticCheck  StaticCheck
	RuntimeCheck RuntimeCheck
}

// HasDefault reports whether the descriptor declares any default.
func (d Descriptor) HasDefault() bool {
	return d.Default != nil
}

// Deferred returns the deferred default when one is declared.
func (d Descriptor) Deferred() (Deferred, bool) {
	deferred, ok := d.Default.(Deferred)
	return deferred, ok
}

// References lists the option names the default depends on.
func (d Descriptor) References() []string {
	if deferred, ok := d.Deferred(); ok {
		return append([]string(nil), deferred.References()...)
	}
	return nil
}
