package doctor

// Status is the outcome of one check.
type Status int

const (
	// StatusOK: the check passed.
	StatusOK Status = iota
	// StatusInfo: nothing to act on.
	StatusInfo
	// StatusWarn: wsmux works, but something deserves a look.
	StatusWarn
	// StatusFail: wsmux connect will not work.
	StatusFail
)

// Result is one diagnostic line.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report holds the results of a doctor run in check order.
type Report struct {
	Results []Result
}

// Failed returns the number of failed checks.
func (r Report) Failed() int {
	return r.count(StatusFail)
}

// Warnings returns the number of warnings.
func (r Report) Warnings() int {
	return r.count(StatusWarn)
}

func (r Report) count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

func (r *Report) add(name string, status Status, detail string) {
	r.Results = append(r.Results, Result{Name: name, Status: status, Detail: detail})
}
