package format

// IsCompliant reports whether raw follows schema id, using the same detection
// predicate as Parse but skipping field extraction. It is the cheap check used
// to tally compliance rates over large trial batches.
func IsCompliant(raw string, id ID) bool {
	s, err := Lookup(id)
	if err != nil {
		return false
	}
	return s.Detect(StripReasoning(raw))
}

// ComplianceRate returns the fraction of responses compliant with id. An
// empty batch has rate 0.
func ComplianceRate(responses []string, id ID) float64 {
	if len(responses) == 0 {
		return 0
	}
	var n int
	for _, r := range responses {
		if IsCompliant(r, id) {
			n++
		}
	}
	return float64(n) / float64(len(responses))
}
