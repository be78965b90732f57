package main

import "strings"

// Metric keys, in dashboard display order. This order is also the CSV
// column order and the positional order the parser maps number tokens by.
const (
	MetricInProgress             = "in_progress"
	MetricAwaitingVerification   = "awaiting_verification"
	MetricIncomplete             = "incomplete"
	MetricComplete               = "complete"
	MetricAwaitingRecommendation = "awaiting_recommendation"
	MetricRecommended            = "recommended"
	MetricAwaitingApproval       = "awaiting_approval"
	MetricApproved               = "approved"
	MetricDeclined               = "declined"
	MetricReserved               = "reserved"
)

// MetricKeys is the full ordered key set shared by both dashboard variants.
var MetricKeys = []string{
	MetricInProgress,
	MetricAwaitingVerification,
	MetricIncomplete,
	MetricComplete,
	MetricAwaitingRecommendation,
	MetricRecommended,
	MetricAwaitingApproval,
	MetricApproved,
	MetricDeclined,
	MetricReserved,
}

// Category groups metric keys for subtotal reporting. The grouping is shared
// by the delta calculator and every renderer so totals always agree.
type Category struct {
	Name       string
	TotalLabel string
	Emoji      string
	Keys       []string
}

var Categories = []Category{
	{
		Name:       "Processing Status",
		TotalLabel: "Total Processing",
		Emoji:      "📝",
		Keys:       []string{MetricInProgress, MetricAwaitingVerification, MetricIncomplete, MetricComplete},
	},
	{
		Name:       "Review Status",
		TotalLabel: "Total in Review",
		Emoji:      "👀",
		Keys:       []string{MetricAwaitingRecommendation, MetricRecommended, MetricAwaitingApproval},
	},
	{
		Name:       "Approval Status",
		TotalLabel: "Total Approved",
		Emoji:      "✅",
		Keys:       []string{MetricApproved, MetricDeclined, MetricReserved},
	},
}

// Variant describes one dashboard flavor. The two variants share the same
// key set but differ in token expectations, the marker-word guard, and
// artifact naming.
type Variant struct {
	Name  string
	Title string
	// MarkerWord must appear somewhere in the OCR text for the capture to be
	// accepted; empty disables the check.
	MarkerWord string
	// NoiseTokens are digit-free lines the OCR engine is known to emit for
	// this dashboard that are neither labels nor counters (stray artifacts
	// and the dashboard's own title word).
	NoiseTokens []string
	// MinNumbers is the minimum count of numeric tokens a capture must
	// yield before positional mapping is attempted.
	MinNumbers int
	// FixedDeclinedAt1 holds declined at the sentinel value 1 instead of
	// reading it from OCR. The new-applications dashboard does not display
	// that counter; whether the sentinel is a placeholder or a defect in the
	// source system is unresolved, so the behavior is kept as documented.
	FixedDeclinedAt1 bool
	// FilePrefix names the series file and report artifacts.
	FilePrefix string
}

var (
	VariantNewApplications = Variant{
		Name:             "new-applications",
		Title:            "New Applications Dashboard",
		MarkerWord:       "",
		NoiseTokens:      []string{"v", "Ea", "Applications"},
		MinNumbers:       9,
		FixedDeclinedAt1: true,
		FilePrefix:       "applications",
	}

	VariantRenewals = Variant{
		Name:        "renewals",
		Title:       "Student Renewals Dashboard",
		MarkerWord:  "Renewals",
		NoiseTokens: []string{"v", "Ea", "Renewals"},
		MinNumbers:  10,
		FilePrefix:  "renewals",
	}
)

// Variants lists every configured dashboard variant.
var Variants = []Variant{VariantNewApplications, VariantRenewals}

func VariantByName(name string) (Variant, bool) {
	for _, v := range Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// MetricLabel renders a metric key as its dashboard display label,
// e.g. "awaiting_verification" -> "Awaiting Verification".
func MetricLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
