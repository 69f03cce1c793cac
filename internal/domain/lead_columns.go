package domain

// ColumnKind tells importers and patchers how to coerce a raw value.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindDate
	KindFloat
	KindInt
)

// LeadColumn is one user-editable lead attribute.
type LeadColumn struct {
	Name string
	Kind ColumnKind
}

// LeadColumns lists every editable column in storage order. System columns
// (lead_id, timestamps, qualification) are not part of it.
var LeadColumns = []LeadColumn{
	{"zone", KindText}, {"state", KindText}, {"area", KindText}, {"office", KindText},
	{"dealer", KindText}, {"branch", KindText}, {"location", KindText},
	{"address", KindText}, {"city", KindText},
	{"employee_code", KindText}, {"employee_name", KindText}, {"employee_status", KindText},
	{"enquiry_no", KindText}, {"enquiry_date", KindDate},
	{"customer_type", KindText}, {"corporate_name", KindText}, {"name", KindText},
	{"phone_number", KindText}, {"email_address", KindText}, {"pincode", KindText},
	{"tehsil", KindText}, {"district", KindText},
	{"kva", KindFloat}, {"phase", KindText}, {"qty", KindInt}, {"product", KindText},
	{"remarks", KindText},
	{"enquiry_status", KindText}, {"enquiry_type", KindText}, {"enquiry_stage", KindText},
	{"lead_status", KindText}, {"priority", KindText}, {"expected_value", KindText},
	{"eo_po_date", KindDate}, {"planned_followup_date", KindDate},
	{"last_followup_date", KindDate}, {"enquiry_closure_date", KindDate},
	{"source", KindText}, {"source_from", KindText}, {"events", KindText},
	{"no_of_followups", KindInt},
	{"segment", KindText}, {"sub_segment", KindText}, {"dg_ownership", KindText},
	{"created_by", KindText}, {"pan_no", KindText}, {"finance_required", KindText},
	{"finance_company", KindText}, {"referred_by", KindText},
}

var columnKinds = func() map[string]ColumnKind {
	m := make(map[string]ColumnKind, len(LeadColumns))
	for _, c := range LeadColumns {
		m[c.Name] = c.Kind
	}
	return m
}()

// ColumnKindOf reports the kind of an editable column.
func ColumnKindOf(name string) (ColumnKind, bool) {
	k, ok := columnKinds[name]
	return k, ok
}

func (l *Lead) text(name string) *string {
	switch name {
	case "zone":
		return &l.Zone
	case "state":
		return &l.State
	case "area":
		return &l.Area
	case "office":
		return &l.Office
	case "dealer":
		return &l.Dealer
	case "branch":
		return &l.Branch
	case "location":
		return &l.Location
	case "address":
		return &l.Address
	case "city":
		return &l.City
	case "employee_code":
		return &l.EmployeeCode
	case "employee_name":
		return &l.EmployeeName
	case "employee_status":
		return &l.EmployeeStatus
	case "enquiry_no":
		return &l.EnquiryNo
	case "enquiry_date":
		return &l.EnquiryDate
	case "customer_type":
		return &l.CustomerType
	case "corporate_name":
		return &l.CorporateName
	case "name":
		return &l.Name
	case "phone_number":
		return &l.PhoneNumber
	case "email_address":
		return &l.EmailAddress
	case "pincode":
		return &l.Pincode
	case "tehsil":
		return &l.Tehsil
	case "district":
		return &l.District
	case "phase":
		return &l.Phase
	case "product":
		return &l.Product
	case "remarks":
		return &l.Remarks
	case "enquiry_status":
		return &l.EnquiryStatus
	case "enquiry_type":
		return &l.EnquiryType
	case "enquiry_stage":
		return &l.EnquiryStage
	case "lead_status":
		return &l.LeadStatus
	case "priority":
		return &l.Priority
	case "expected_value":
		return &l.ExpectedValue
	case "eo_po_date":
		return &l.EOPODate
	case "planned_followup_date":
		return &l.PlannedFollowupDate
	case "last_followup_date":
		return &l.LastFollowupDate
	case "enquiry_closure_date":
		return &l.EnquiryClosureDate
	case "source":
		return &l.Source
	case "source_from":
		return &l.SourceFrom
	case "events":
		return &l.Events
	case "segment":
		return &l.Segment
	case "sub_segment":
		return &l.SubSegment
	case "dg_ownership":
		return &l.DGOwnership
	case "created_by":
		return &l.CreatedBy
	case "pan_no":
		return &l.PANNo
	case "finance_required":
		return &l.FinanceRequired
	case "finance_company":
		return &l.FinanceCompany
	case "referred_by":
		return &l.ReferredBy
	}
	return nil
}

// Get returns the column value: string for text and date columns, *float64
// for kva and *int for the integer columns. Unknown names return nil.
func (l *Lead) Get(name string) any {
	switch name {
	case "kva":
		return l.KVA
	case "qty":
		return l.Qty
	case "no_of_followups":
		return l.NoOfFollowups
	}
	if p := l.text(name); p != nil {
		return *p
	}
	return nil
}

// Set assigns an already coerced value. It reports false when the name is
// unknown or the value has the wrong type for the column.
func (l *Lead) Set(name string, v any) bool {
	switch name {
	case "kva":
		f, ok := v.(*float64)
		if ok {
			l.KVA = f
		}
		return ok
	case "qty", "no_of_followups":
		n, ok := v.(*int)
		if !ok {
			return false
		}
		if name == "qty" {
			l.Qty = n
		} else {
			l.NoOfFollowups = n
		}
		return true
	}
	p := l.text(name)
	s, ok := v.(string)
	if p == nil || !ok {
		return false
	}
	*p = s
	return true
}
