package leads

import (
	"slices"

	"leadboard/internal/domain"
)

var exportLeading = []string{
	"enquiry_no", "enquiry_date", "name", "phone_number", "email_address",
	"zone", "state", "area", "dealer", "employee_name",
	"customer_type", "segment", "kva", "qty",
	"enquiry_status", "enquiry_type", "enquiry_stage",
	"planned_followup_date", "last_followup_date",
	"source", "remarks",
}

// ExportColumns is the leading column order followed by the remaining
// editable columns and the qualification outcome.
func ExportColumns() []string {
	cols := slices.Clone(exportLeading)
	for _, c := range domain.LeadColumns {
		if c.Name == "created_by" || slices.Contains(exportLeading, c.Name) {
			continue
		}
		cols = append(cols, c.Name)
	}
	return append(cols, "qualification_score", "is_qualified")
}

// ExportRow renders l in ExportColumns order.
func ExportRow(l *domain.Lead, cols []string) []any {
	row := make([]any, len(cols))
	for i, c := range cols {
		switch c {
		case "qualification_score":
			row[i] = l.QualificationScore
		case "is_qualified":
			row[i] = l.IsQualified
		default:
			row[i] = l.Get(c)
		}
	}
	return row
}

var templateHeader = []string{
	"Zone", "State", "Area Office", "Dealer", "Branch", "Location",
	"Employee Code", "Employee Name", "Employee Status", "Enquiry No", "Enquiry Date",
	"Customer Type", "Corporate Name", "Name", "Phone Number", "Email", "Address",
	"PinCode", "Tehsil", "District", "KVA", "Phase", "Qty", "Remarks",
	"EnquiryStatus", "EnquiryType", "Enquiry Stage", "Planned Followup Date",
	"Source", "Segment", "SubSegment", "DG Ownership",
}

var templateRows = [][]any{
	{"East", "Bihar", "Patna", "Dealer Name", "Branch Name", "Location",
		"EMP001", "John Doe", "Active", "E2504XXX00001", "2025-04-01",
		"New Customer", "", "Customer Name", "9876543210", "email@example.com", "Address Line",
		"800001", "", "Patna", 100, "Three", 1, "Sample remarks",
		"Open", "Hot", "Prospecting", "2025-04-15",
		"India Mart", "Corporate", "", "First time buyer"},
	{"West", "Maharashtra", "Mumbai", "Another Dealer", "Branch 2", "Location 2",
		"EMP002", "Jane Smith", "Active", "E2504XXX00002", "2025-04-02",
		"Existing Customer", "ABC Corp", "Customer 2", "9876543211", "email2@example.com", "Address 2",
		"400001", "", "Mumbai", 250, "Single", 2, "Notes",
		"Open", "Warm", "Qualified", "2025-04-20",
		"Cold Call", "Retail", "", "Replacement"},
}
