package vendors

import "testing"

func TestCanonicalDictionaryMatch(t *testing.T) {
	n := NewNormalizer(DefaultAliases())

	cases := []struct {
		contact     string
		description string
		want        string
	}{
		{"XERO 123.45", "", "Xero"},
		{"xero australia pty ltd", "", "Xero"},
		{"DIRECT DEBIT ADOBE SYSTEMS", "", "Adobe"},
		{"PAYPAL *CANVA", "", "Canva"},
		{"Amazon Web Services", "", "Amazon Web Services"},
		{"", "GOOGLE WORKSPACE SUBSCRIPTION", "Google Workspace"},
	}
	for _, tc := range cases {
		if got := n.Canonical(tc.contact, tc.description); got != tc.want {
			t.Errorf("Canonical(%q, %q) = %q, want %q", tc.contact, tc.description, got, tc.want)
		}
	}
}

func TestCanonicalDescriptionSecondPass(t *testing.T) {
	n := NewNormalizer(DefaultAliases())
	// Contact misses the dictionary; the description hits it.
	if got := n.Canonical("J SMITH HOLDINGS", "MAILCHIMP MONTHLY PLAN"); got != "Mailchimp" {
		t.Errorf("description pass failed: got %q", got)
	}
}

func TestCanonicalTitleCaseFallback(t *testing.T) {
	n := NewNormalizer(DefaultAliases())
	if got := n.Canonical("ACME WIDGET SUPPLIES", ""); got != "Acme Widget Supplies" {
		t.Errorf("title-case fallback got %q", got)
	}
}

func TestCanonicalDescriptionFallbackChain(t *testing.T) {
	n := NewNormalizer(DefaultAliases())

	// Noise prefix stripped before the token fallback kicks in.
	if got := n.Canonical("", "SQ *LOCAL COFFEE ROASTERS"); got != "Local Coffee Roasters" {
		t.Errorf("prefix strip fallback got %q", got)
	}

	// Tokens longer than 2 chars, first 3 kept, title-cased.
	if got := n.Canonical("", "ACH-PAYMENT_REF*0091 consulting retainers brisbane extra"); got != "Ach Payment Ref" {
		t.Errorf("token fallback got %q", got)
	}
	if got := n.Canonical("", ""); got != "Unknown Vendor" {
		t.Errorf("empty input got %q, want Unknown Vendor", got)
	}
}

func TestGroupKeyCollision(t *testing.T) {
	if GroupKey("Sync.com") != GroupKey("synccom") {
		t.Error("Sync.com and synccom must share a grouping key")
	}
	if got := GroupKey("Monday.com"); got != "mondaycom" {
		t.Errorf("GroupKey = %q, want mondaycom", got)
	}
}
