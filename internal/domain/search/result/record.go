package result

// Record is one parsed "Result #N" block of a search tool report.
// Optional fields are nil when the block did not report them, so callers can
// tell "not reported" apart from "reported as 0 or empty".
type Record struct {
	// Number is the N of the originating "Result #N" marker.
	Number int
	// Type is the block's "Type:" value.
	Type *string
	// Order is the block's "Order:" value.
	Order *int
	// Parent is the message id from a "Parent: ... Message #N" line.
	Parent *int
	// Text is the block's body lines joined by newlines and trimmed. May be empty.
	Text string
}

