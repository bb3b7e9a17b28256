// Package vendors turns noisy bank/invoice contact strings into
// canonical vendor names and classifies each vendor's billing cadence.
package vendors

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// AliasRule maps a substring of a cleaned contact/description string to
// a canonical vendor name. Rules are evaluated in order; the first
// match wins.
type AliasRule struct {
	Match     string `yaml:"match"`
	Canonical string `yaml:"canonical"`
}

// Noise prefixes stripped once from the front of an uppercased contact
// string before dictionary lookup.
var noisePrefixes = []string{
	"DIRECT DEBIT ",
	"DIRECT DEBIT",
	"PAYPAL *",
	"PAYPAL*",
	"PAYPAL ",
	"SQ *",
	"SQ*",
	"RECURRING ",
	"RECURRING",
	"POS ",
	"EFTPOS ",
}

// Normalizer resolves canonical vendor names against an immutable,
// ordered alias dictionary loaded once at startup.
type Normalizer struct {
	aliases []AliasRule
}

// NewNormalizer builds a normalizer over the given rules. Pass
// DefaultAliases() for the built-in dictionary.
func NewNormalizer(aliases []AliasRule) *Normalizer {
	return &Normalizer{aliases: append([]AliasRule(nil), aliases...)}
}

// LoadAliases reads alias rules from a YAML file: a list of
// {match, canonical} pairs in priority order.
func LoadAliases(path string) ([]AliasRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}
	var rules []AliasRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}
	return rules, nil
}

// Canonical maps a contact name and transaction description to the
// canonical vendor name.
func (n *Normalizer) Canonical(contactName, description string) string {
	contact := strings.TrimSpace(contactName)
	desc := strings.TrimSpace(description)

	raw := contact
	if raw == "" {
		raw = desc
	}
	cleaned := stripNoisePrefix(strings.ToUpper(raw))

	if canonical, ok := n.lookup(cleaned); ok {
		return canonical
	}
	if contact != "" && desc != "" && !strings.EqualFold(contact, desc) {
		if canonical, ok := n.lookup(strings.ToUpper(desc)); ok {
			return canonical
		}
	}
	if contact != "" {
		return titleCaseWords(contact)
	}
	return fallbackName(cleaned, desc)
}

// GroupKey collapses a canonical name to its grouping key: lowercased
// with all non-alphanumeric characters removed, so "Sync.com" and
// "synccom" collide intentionally.
func GroupKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (n *Normalizer) lookup(upper string) (string, bool) {
	for _, rule := range n.aliases {
		if strings.Contains(upper, rule.Match) {
			return rule.Canonical, true
		}
	}
	return "", false
}

func stripNoisePrefix(s string) string {
	for _, prefix := range noisePrefixes {
		if strings.HasPrefix(s, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(s, prefix))
		}
	}
	return strings.TrimSpace(s)
}

// fallbackName derives a display name when no dictionary or contact
// name is available: the first three meaningful tokens title-cased, or
// the first 50 characters of the description, or "Unknown Vendor".
func fallbackName(cleaned, description string) string {
	source := cleaned
	if source == "" {
		source = strings.ToUpper(description)
	}
	tokens := strings.FieldsFunc(source, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '-' || r == '_' || r == '*'
	})
	kept := make([]string, 0, 3)
	for _, tok := range tokens {
		if len(tok) > 2 {
			kept = append(kept, titleCaseWord(tok))
			if len(kept) == 3 {
				break
			}
		}
	}
	if len(kept) > 0 {
		return strings.Join(kept, " ")
	}
	if description != "" {
		if len(description) > 50 {
			return description[:50]
		}
		return description
	}
	return "Unknown Vendor"
}

func titleCaseWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = titleCaseWord(w)
	}
	return strings.Join(words, " ")
}

func titleCaseWord(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}
