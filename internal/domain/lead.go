package domain

import "time"

// DateLayout is the storage format of every lead date field.
const DateLayout = "2006-01-02"

// Pipeline stages the application treats specially.
const (
	StageProspecting   = "Prospecting"
	StageQualified     = "Qualified"
	StageProposal      = "Proposal"
	StageNegotiation   = "Negotiation"
	StageClosedWon     = "Closed-Won"
	StageClosedLost    = "Closed-Lost"
	StageOrderBooked   = "Order Booked"
	StageClosedDropped = "Closed-Dropped"
)

var (
	WonStages    = []string{StageClosedWon, StageOrderBooked}
	LostStages   = []string{StageClosedLost, StageClosedDropped}
	OpenStages   = []string{StageProspecting, StageQualified, StageProposal, StageNegotiation}
	ClosedStages = []string{StageClosedWon, StageOrderBooked, StageClosedLost, StageClosedDropped}
)

type Lead struct {
	LeadID string `json:"lead_id"`

	Zone     string `json:"zone"`
	State    string `json:"state"`
	Area     string `json:"area"`
	Office   string `json:"office"`
	Dealer   string `json:"dealer"`
	Branch   string `json:"branch"`
	Location string `json:"location"`
	Address  string `json:"address"`
	City     string `json:"city"`

	EmployeeCode   string `json:"employee_code"`
	EmployeeName   string `json:"employee_name"`
	EmployeeStatus string `json:"employee_status"`

	EnquiryNo   string `json:"enquiry_no"`
	EnquiryDate string `json:"enquiry_date"`

	CustomerType  string `json:"customer_type"`
	CorporateName string `json:"corporate_name"`
	Name          string `json:"name"`
	PhoneNumber   string `json:"phone_number"`
	EmailAddress  string `json:"email_address"`
	Pincode       string `json:"pincode"`
	Tehsil        string `json:"tehsil"`
	District      string `json:"district"`

	KVA     *float64 `json:"kva"`
	Phase   string   `json:"phase"`
	Qty     *int     `json:"qty"`
	Product string   `json:"product"`
	Remarks string   `json:"remarks"`

	EnquiryStatus string `json:"enquiry_status"`
	EnquiryType   string `json:"enquiry_type"`
	EnquiryStage  string `json:"enquiry_stage"`
	LeadStatus    string `json:"lead_status"`
	Priority      string `json:"priority"`
	ExpectedValue string `json:"expected_value"`

	EOPODate            string `json:"eo_po_date"`
	PlannedFollowupDate string `json:"planned_followup_date"`
	LastFollowupDate    string `json:"last_followup_date"`
	EnquiryClosureDate  string `json:"enquiry_closure_date"`

	Source        string `json:"source"`
	SourceFrom    string `json:"source_from"`
	Events        string `json:"events"`
	NoOfFollowups *int   `json:"no_of_followups"`

	Segment     string `json:"segment"`
	SubSegment  string `json:"sub_segment"`
	DGOwnership string `json:"dg_ownership"`

	CreatedBy       string `json:"created_by"`
	PANNo           string `json:"pan_no"`
	FinanceRequired string `json:"finance_required"`
	FinanceCompany  string `json:"finance_company"`
	ReferredBy      string `json:"referred_by"`

	QualificationScore   *int                  `json:"qualification_score"`
	IsQualified          *bool                 `json:"is_qualified"`
	QualificationAnswers []QualificationAnswer `json:"qualification_answers"`
	QualifiedAt          *time.Time            `json:"qualified_at"`
	QualifiedBy          string                `json:"qualified_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeadField is the closed set of lead attributes that configuration
// (metrics, grouping, upload mapping) may refer to by name.
type LeadField string

const (
	FieldZone                LeadField = "zone"
	FieldState               LeadField = "state"
	FieldArea                LeadField = "area"
	FieldDealer              LeadField = "dealer"
	FieldLocation            LeadField = "location"
	FieldEmployeeName        LeadField = "employee_name"
	FieldCustomerType        LeadField = "customer_type"
	FieldEnquiryStatus       LeadField = "enquiry_status"
	FieldEnquiryType         LeadField = "enquiry_type"
	FieldEnquiryStage        LeadField = "enquiry_stage"
	FieldLeadStatus          LeadField = "lead_status"
	FieldPriority            LeadField = "priority"
	FieldSource              LeadField = "source"
	FieldSegment             LeadField = "segment"
	FieldSubSegment          LeadField = "sub_segment"
	FieldEnquiryDate         LeadField = "enquiry_date"
	FieldEOPODate            LeadField = "eo_po_date"
	FieldPlannedFollowupDate LeadField = "planned_followup_date"
	FieldLastFollowupDate    LeadField = "last_followup_date"
	FieldEnquiryClosureDate  LeadField = "enquiry_closure_date"
	FieldCreatedAt           LeadField = "created_at"
	FieldUpdatedAt           LeadField = "updated_at"
)

type fieldSpec struct {
	isDate bool
	get    func(*Lead) string
}

var leadFields = map[LeadField]fieldSpec{
	FieldZone:                {get: func(l *Lead) string { return l.Zone }},
	FieldState:               {get: func(l *Lead) string { return l.State }},
	FieldArea:                {get: func(l *Lead) string { return l.Area }},
	FieldDealer:              {get: func(l *Lead) string { return l.Dealer }},
	FieldLocation:            {get: func(l *Lead) string { return l.Location }},
	FieldEmployeeName:        {get: func(l *Lead) string { return l.EmployeeName }},
	FieldCustomerType:        {get: func(l *Lead) string { return l.CustomerType }},
	FieldEnquiryStatus:       {get: func(l *Lead) string { return l.EnquiryStatus }},
	FieldEnquiryType:         {get: func(l *Lead) string { return l.EnquiryType }},
	FieldEnquiryStage:        {get: func(l *Lead) string { return l.EnquiryStage }},
	FieldLeadStatus:          {get: func(l *Lead) string { return l.LeadStatus }},
	FieldPriority:            {get: func(l *Lead) string { return l.Priority }},
	FieldSource:              {get: func(l *Lead) string { return l.Source }},
	FieldSegment:             {get: func(l *Lead) string { return l.Segment }},
	FieldSubSegment:          {get: func(l *Lead) string { return l.SubSegment }},
	FieldEnquiryDate:         {isDate: true, get: func(l *Lead) string { return l.EnquiryDate }},
	FieldEOPODate:            {isDate: true, get: func(l *Lead) string { return l.EOPODate }},
	FieldPlannedFollowupDate: {isDate: true, get: func(l *Lead) string { return l.PlannedFollowupDate }},
	FieldLastFollowupDate:    {isDate: true, get: func(l *Lead) string { return l.LastFollowupDate }},
	FieldEnquiryClosureDate:  {isDate: true, get: func(l *Lead) string { return l.EnquiryClosureDate }},
	FieldCreatedAt:           {isDate: true, get: func(l *Lead) string { return timestampDate(l.CreatedAt) }},
	FieldUpdatedAt:           {isDate: true, get: func(l *Lead) string { return timestampDate(l.UpdatedAt) }},
}

// ParseLeadField validates a configured field name.
func ParseLeadField(name string) (LeadField, bool) {
	f := LeadField(name)
	_, ok := leadFields[f]
	return f, ok
}

// IsDate reports whether the field holds a YYYY-MM-DD date.
func (f LeadField) IsDate() bool {
	return leadFields[f].isDate
}

// Column is the storage column backing the field.
func (f LeadField) Column() string { return string(f) }

// Value returns the lead's value for f; unknown fields read as empty.
func (l *Lead) Value(f LeadField) string {
	spec, ok := leadFields[f]
	if !ok {
		return ""
	}
	return spec.get(l)
}

func timestampDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
