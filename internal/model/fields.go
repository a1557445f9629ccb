package model

// Fields is an insertion-ordered string-keyed map. The zero value is
// ready to use.
type Fields struct {
	keys []string
	vals map[string]Argument
}

// Set stores v under k. An existing key keeps its position and takes the
// new value.
func (f *Fields) Set(k string, v Argument) {
	if f.vals == nil {
		f.vals = make(map[string]Argument)
	}
	if _, ok := f.vals[k]; !ok {
		f.keys = append(f.keys, k)
	}
	f.vals[k] = v
}

// Get returns the value stored under k.
func (f *Fields) Get(k string) (Argument, bool) {
	v, ok := f.vals[k]
	return v, ok
}

// Len returns the number of distinct keys.
func (f *Fields) Len() int {
	return len(f.keys)
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (f *Fields) Keys() []string {
	return f.keys
}
