package upload

import "strings"

// headerAliases maps normalised spreadsheet headers to lead columns.
var headerAliases = map[string]string{
	"zone":                  "zone",
	"state":                 "state",
	"area":                  "area",
	"area office":           "area",
	"office":                "office",
	"dealer":                "dealer",
	"branch":                "branch",
	"location":              "location",
	"address":               "address",
	"city":                  "city",
	"employee code":         "employee_code",
	"employee name":         "employee_name",
	"employee":              "employee_name",
	"employee status":       "employee_status",
	"enquiry no":            "enquiry_no",
	"enquiry date":          "enquiry_date",
	"inquiry date":          "enquiry_date",
	"customer type":         "customer_type",
	"corporate name":        "corporate_name",
	"name":                  "name",
	"customer name":         "name",
	"phone number":          "phone_number",
	"phone":                 "phone_number",
	"email address":         "email_address",
	"email":                 "email_address",
	"pincode":               "pincode",
	"pin code":              "pincode",
	"tehsil":                "tehsil",
	"district":              "district",
	"kva":                   "kva",
	"phase":                 "phase",
	"qty":                   "qty",
	"quantity":              "qty",
	"product":               "product",
	"remarks":               "remarks",
	"enquirystatus":         "enquiry_status",
	"enquiry status":        "enquiry_status",
	"lead status":           "lead_status",
	"status":                "lead_status",
	"enquirytype":           "enquiry_type",
	"enquiry type":          "enquiry_type",
	"enquiry stage":         "enquiry_stage",
	"eo/po date":            "eo_po_date",
	"planned followup date": "planned_followup_date",
	"follow up date":        "planned_followup_date",
	"lastfollowupdate":      "last_followup_date",
	"last followup date":    "last_followup_date",
	"enquiry closure date":  "enquiry_closure_date",
	"closure date":          "enquiry_closure_date",
	"source":                "source",
	"source from":           "source_from",
	"events":                "events",
	"no of follow-ups":      "no_of_followups",
	"followups":             "no_of_followups",
	"segment":               "segment",
	"subsegment":            "sub_segment",
	"sub segment":           "sub_segment",
	"dg ownership":          "dg_ownership",
	"priority":              "priority",
	"expected value":        "expected_value",
	"value":                 "expected_value",
	"created by":            "created_by",
	"pan no.":               "pan_no",
	"pan":                   "pan_no",
	"finance required":      "finance_required",
	"finance company":       "finance_company",
	"referred by":           "referred_by",
}

// NormalizeHeader lowercases h and collapses inner whitespace.
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// MapHeader resolves a spreadsheet header to a lead column.
func MapHeader(h string) (string, bool) {
	col, ok := headerAliases[NormalizeHeader(h)]
	return col, ok
}

// mapColumns returns column name per header index; unmapped headers are "".
// When two headers map to the same column the first one wins.
func mapColumns(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]bool{}
	for i, h := range header {
		col, ok := MapHeader(h)
		if !ok || seen[col] {
			continue
		}
		seen[col] = true
		out[i] = col
	}
	return out
}

var templateColumns = []string{
	"Zone", "State", "Area Office", "Dealer", "Branch", "Location",
	"Employee Code", "Employee Name", "Employee Status", "Enquiry No",
	"Enquiry Date", "Customer Type", "Corporate Name", "Name",
	"Phone Number", "Email", "PinCode", "Tehsil", "District",
	"KVA", "Phase", "Qty", "Remarks", "Enquiry Status", "Enquiry Type",
	"Enquiry Stage", "EO/PO Date", "Planned Followup Date", "Source",
	"Source From", "Events", "No of Follow-ups", "Segment", "SubSegment",
	"DG Ownership", "Created By", "PAN NO.", "Last Followup Date",
	"Enquiry Closure Date", "Finance Required", "Finance Company", "Referred By",
}

type TemplateResponse struct {
	Columns         []string `json:"columns"`
	RequiredColumns []string `json:"required_columns"`
	DateColumns     []string `json:"date_columns"`
	NumericColumns  []string `json:"numeric_columns"`
}

func Template() TemplateResponse {
	return TemplateResponse{
		Columns:         templateColumns,
		RequiredColumns: []string{"Name", "State"},
		DateColumns:     []string{"Enquiry Date", "EO/PO Date", "Planned Followup Date", "Last Followup Date", "Enquiry Closure Date"},
		NumericColumns:  []string{"KVA", "Qty", "No of Follow-ups"},
	}
}
