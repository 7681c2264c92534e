package itemschema

// Result is the outcome of one or more checks: a validity flag plus the pass
// and fail messages recorded along the way. It is an immutable value; every
// operation returns a fresh Result.
//
// Valid is false exactly when at least one fail message has been recorded.
type Result struct {
	passed Issues
	fails  Issues
}

// OK returns the identity result: valid, with no messages.
func OK() Result { return Result{} }

// Pass returns a valid result carrying one pass message.
func Pass(it Issue) Result { return Result{passed: Issues{it}} }

// Fail returns an invalid result carrying one fail message.
func Fail(it Issue) Result { return Result{fails: Issues{it}} }

// Valid reports whether no fail message was recorded.
func (r Result) Valid() bool { return len(r.fails) == 0 }

// Passed returns a copy of the pass messages in order.
func (r Result) Passed() Issues { return clone(r.passed) }

// Failed returns a copy of the fail messages in order.
func (r Result) Failed() Issues { return clone(r.fails) }

// PassMessages returns the text of the pass messages.
func (r Result) PassMessages() []string { return texts(r.passed) }

// FailMessages returns the text of the fail messages.
func (r Result) FailMessages() []string { return texts(r.fails) }

// Err returns the fail messages as Issues, or nil when the result is valid.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return r.Failed()
}

// Merge combines r with o: validity is the conjunction, messages are
// concatenated with r's first.
func (r Result) Merge(o Result) Result {
	return Result{
		passed: concat(r.passed, o.passed),
		fails:  concat(r.fails, o.fails),
	}
}

// Merge folds rs left to right starting from OK.
func Merge(rs ...Result) Result {
	out := OK()
	for _, r := range rs {
		out = out.Merge(r)
	}
	return out
}

// Prefix returns a copy of r with every message rewritten to
// "<label>: <message>". Paths are left untouched.
func (r Result) Prefix(label string) Result {
	return Result{
		passed: prefixed(r.passed, label),
		fails:  prefixed(r.fails, label),
	}
}

func prefixed(iss Issues, label string) Issues {
	if len(iss) == 0 {
		return nil
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		it.Message = label + ": " + it.Message
		out[i] = it
	}
	return out
}

func concat(a, b Issues) Issues {
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make(Issues, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func clone(iss Issues) Issues {
	if len(iss) == 0 {
		return nil
	}
	return append(Issues(nil), iss...)
}

func texts(iss Issues) []string {
	if len(iss) == 0 {
		return nil
	}
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Message
	}
	return out
}
