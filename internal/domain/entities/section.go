package entities

import (
	"bytes"
	"encoding/json"
	"sort"
)

// SectionKey identifies one of the fixed agenda sections of a meeting.
type SectionKey string

const (
	SectionLIB                SectionKey = "lib"
	SectionDYCD               SectionKey = "dycd"
	SectionBusinessPlans      SectionKey = "businessPlans"
	SectionCommercialLease    SectionKey = "commercialLease"
	SectionKitchenMembers     SectionKey = "kitchenMembers"
	SectionBIDUpdates         SectionKey = "bidUpdates"
	SectionAvenueNYC          SectionKey = "avenueNYC"
	SectionMerchantOrganizing SectionKey = "merchantOrganizing"
	SectionENYFarmersMarket   SectionKey = "enyFarmersMarket"
	SectionOtherUpdates       SectionKey = "otherUpdates"
)

// sectionKeys is the canonical display and serialization order.
var sectionKeys = []SectionKey{
	SectionLIB,
	SectionDYCD,
	SectionBusinessPlans,
	SectionCommercialLease,
	SectionKitchenMembers,
	SectionBIDUpdates,
	SectionAvenueNYC,
	SectionMerchantOrganizing,
	SectionENYFarmersMarket,
	SectionOtherUpdates,
}

var sectionLabels = map[SectionKey]string{
	SectionLIB:                "LIB",
	SectionDYCD:               "DYCD",
	SectionBusinessPlans:      "Business Plans",
	SectionCommercialLease:    "Commercial Lease Assistance",
	SectionKitchenMembers:     "Kitchen Members",
	SectionBIDUpdates:         "BID Updates",
	SectionAvenueNYC:          "AvenueNYC",
	SectionMerchantOrganizing: "Merchant Organizing",
	SectionENYFarmersMarket:   "ENY Farmers Market",
	SectionOtherUpdates:       "Other Updates",
}

// placeholders is the text a freshly started draft carries per section.
var placeholders = map[SectionKey]string{
	SectionLIB:                "Ends March: 2026\nGoal 50 participants/ Current:\nGoal 40 complete the program / Current:\nGoal 36 increase in knowledge and/or implement a digital solution / Current:\nUpcoming cohort:\nNotes:",
	SectionDYCD:               "Business partner intake:\nGoal of 93 enrolled / Current:\nProjected DYCD:\nDYCD- success story:\nAdditional notes:",
	SectionBusinessPlans:      "Goal of 37 / Previous meeting: / Current:\nNotes:",
	SectionCommercialLease:    "Goal 200 / Current:\nNotes:",
	SectionKitchenMembers:     "Goal of 25 / Current:\nPipeline:\nPrevious Meeting:\nProspects:\nMaybe:\nNotes:",
	SectionBIDUpdates:         "Notes:",
	SectionAvenueNYC:          "Notes:",
	SectionMerchantOrganizing: "Notes:",
	SectionENYFarmersMarket:   "Notes:",
	SectionOtherUpdates:       "Notes:",
}

// SectionKeys returns the section catalog in canonical order.
func SectionKeys() []SectionKey {
	keys := make([]SectionKey, len(sectionKeys))
	copy(keys, sectionKeys)
	return keys
}

// IsValid reports whether the key belongs to the catalog.
func (k SectionKey) IsValid() bool {
	_, ok := sectionLabels[k]
	return ok
}

// Label returns the human label, or the raw key for unknown keys.
func (k SectionKey) Label() string {
	if label, ok := sectionLabels[k]; ok {
		return label
	}
	return string(k)
}

// Placeholder returns the template text for the section.
func (k SectionKey) Placeholder() string {
	return placeholders[k]
}

// ParseSectionKey validates a raw key against the catalog.
func ParseSectionKey(raw string) (SectionKey, error) {
	key := SectionKey(raw)
	if !key.IsValid() {
		return "", ErrUnknownSection
	}
	return key, nil
}

// SectionLabels returns every label in canonical order.
func SectionLabels() []string {
	labels := make([]string, 0, len(sectionKeys))
	for _, k := range sectionKeys {
		labels = append(labels, sectionLabels[k])
	}
	return labels
}

// SectionMap holds free-form text per section. Absent keys read as empty text.
type SectionMap map[SectionKey]string

// TemplateSections returns the placeholder text for every section.
func TemplateSections() SectionMap {
	m := make(SectionMap, len(sectionKeys))
	for _, k := range sectionKeys {
		m[k] = placeholders[k]
	}
	return m
}

// Get returns the text of a section, empty when absent.
func (m SectionMap) Get(key SectionKey) string {
	if m == nil {
		return ""
	}
	return m[key]
}

// Clone returns an independent copy.
func (m SectionMap) Clone() SectionMap {
	if m == nil {
		return nil
	}
	out := make(SectionMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Equal compares two maps treating absent and nil alike.
func (m SectionMap) Equal(other SectionMap) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Known returns a copy restricted to catalog keys.
func (m SectionMap) Known() SectionMap {
	out := make(SectionMap, len(m))
	for k, v := range m {
		if k.IsValid() {
			out[k] = v
		}
	}
	return out
}

// orderedKeys lists catalog keys first, then any foreign keys sorted.
func (m SectionMap) orderedKeys() []SectionKey {
	keys := make([]SectionKey, 0, len(m))
	for _, k := range sectionKeys {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []SectionKey
	for k := range m {
		if !k.IsValid() {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(keys, extra...)
}

// MarshalJSON writes sections in canonical order instead of map order.
func (m SectionMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.orderedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(k))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
