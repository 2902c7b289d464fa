package relay

var serviceLabels = map[string]string{
	"contract-staffing":     "Contract & Temporary Staffing",
	"permanent-recruitment": "Permanent Recruitment",
	"talent-acquisition":    "Talent Acquisition",
	"offshore-delivery":     "Offshore & Nearshore Delivery",
	"managed-services":      "Managed Services (SOW)",
	"executive-hiring":      "Executive & Leadership Hiring",
	"other":                 "Other",
}

// ServiceLabel returns the display label for a service-interest code, or the
// code itself when it is not one the contact form offers.
func ServiceLabel(code string) string {
	if label, ok := serviceLabels[code]; ok {
		return label
	}
	return code
}
