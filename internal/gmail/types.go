package gmail

// MessageSummary is one entry of a mailbox listing. Subject, From and Date
// come from the metadata headers fetched per message.
type MessageSummary struct {
	ID           string   `json:"id"`
	ThreadID     string   `json:"thread_id"`
	LabelIDs     []string `json:"label_ids"`
	Snippet      string   `json:"snippet"`
	SizeEstimate int64    `json:"size_estimate"`
	HistoryID    uint64   `json:"history_id"`
	InternalDate int64    `json:"internal_date"`
	Subject      string   `json:"subject,omitempty"`
	From         string   `json:"from,omitempty"`
	Date         string   `json:"date,omitempty"`
}

// ListResult is the outcome of a List call.
type ListResult struct {
	Messages           []MessageSummary `json:"messages"`
	NextPageToken      string           `json:"next_page_token,omitempty"`
	ResultSizeEstimate int64            `json:"result_size_estimate"`
}

// MessageDetail is a fully fetched message with extracted headers and bodies.
type MessageDetail struct {
	ID           string   `json:"id"`
	ThreadID     string   `json:"thread_id"`
	LabelIDs     []string `json:"label_ids"`
	Snippet      string   `json:"snippet"`
	HistoryID    uint64   `json:"history_id"`
	InternalDate int64    `json:"internal_date"`
	SizeEstimate int64    `json:"size_estimate"`
	Subject      string   `json:"subject,omitempty"`
	Sender       string   `json:"sender,omitempty"`
	Recipient    string   `json:"recipient,omitempty"`
	BodyText     string   `json:"body_text,omitempty"`
	BodyHTML     string   `json:"body_html,omitempty"`
}

// Label is a system or user label.
type Label struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type,omitempty"`
	MessagesTotal int64  `json:"messages_total,omitempty"`
	ThreadsTotal  int64  `json:"threads_total,omitempty"`
}

// LabelOutcome is the structured result of an add/remove label call. Success
// carries the resulting label set; failure carries a human-readable reason.
// Callers must check Success rather than rely on transport status alone.
type LabelOutcome struct {
	MessageID string   `json:"message_id"`
	LabelIDs  []string `json:"label_ids"`
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
}

// TrashOutcome is the structured result of a trash call.
type TrashOutcome struct {
	MessageID string `json:"message_id"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
}
