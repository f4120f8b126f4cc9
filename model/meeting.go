package model

// Role constants for authenticated users
const (
	RoleChairman  = "chairman"
	RoleSecretary = "secretary"
)

// Meeting status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Identity is the authenticated principal carried by a session token.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
}

// Document is the persisted shape of a meeting, one field per key.
// The store layer deals in this shape directly; list-valued fields
// (attendees, agenda_items, decisions) are stored as serialized JSON text.
type Document = map[string]any

// Attendee is one row of the attendees table.
type Attendee struct {
	Name      string `json:"name"`
	Position  string `json:"position"`
	Role      string `json:"role"`
	Present   bool   `json:"present"`
	Signature string `json:"signature"`
}

// AgendaItem is one row of the agenda table.
type AgendaItem struct {
	Item    string `json:"item"`
	Speaker string `json:"speaker"`
}

// Decision is one row of the decisions table.
type Decision struct {
	Decision    string `json:"decision"`
	Responsible string `json:"responsible"`
	Deadline    string `json:"deadline"`
}

// MeetingPayload is the wire shape accepted by POST/PUT /api/meetings.
// Scalar fields are pointers so that an update can distinguish "absent"
// (leave the stored value alone) from "present but empty" (clear it).
type MeetingPayload struct {
	OrgName            *string      `json:"orgName"`
	ExecutiveSummary   *string      `json:"executiveSummary"`
	ReferenceNumber    *string      `json:"referenceNumber"`
	Department         *string      `json:"department"`
	MeetingTitle       *string      `json:"meetingTitle"`
	MeetingDate        *string      `json:"meetingDate"`
	MeetingTime        *string      `json:"meetingTime"`
	Duration           *string      `json:"duration"`
	MeetingLocation    *string      `json:"meetingLocation"`
	MeetingType        *string      `json:"meetingType"`
	Chairman           *string      `json:"chairman"`
	Secretary          *string      `json:"secretary"`
	NextMeetingDate    *string      `json:"nextMeetingDate"`
	Attendees          []Attendee   `json:"attendees"`
	AgendaItems        []AgendaItem `json:"agendaItems"`
	Decisions          []Decision   `json:"decisions"`
	SecretarySignature *string      `json:"secretarySignature"`
	ChairmanSignature  *string      `json:"chairmanSignature"`
	LogoData           *string      `json:"logoData"`
	WatermarkImage     *string      `json:"watermarkImage"`
}

// MeetingSummary is one entry of the GET /api/meetings listing.
type MeetingSummary struct {
	ID              string `json:"id"`
	MeetingTitle    string `json:"meeting_title"`
	MeetingDate     string `json:"meeting_date"`
	Department      string `json:"department"`
	Chairman        string `json:"chairman"`
	ReferenceNumber string `json:"reference_number"`
	Status          string `json:"status"`
}
