package record

import "io"

// Encode writes r's original bytes to w unchanged. Because a decoded
// Record is never mutated in place (spec §1 non-goals), encoding is always
// a pass-through of the borrowed (or cloned) buffer — there is no
// rebuild-from-fields path.
func Encode(r *Record, w io.Writer) (int, error) {
	return w.Write(r.Raw())
}
