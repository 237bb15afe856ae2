package brec

// FilterByBlocksFunc is invoked with the zero-copy referred view of every
// block in a candidate packet once all of them are buffered; returning
// false causes StreamReader.Read to discard the packet (including any
// payload, undecoded) and yield Skipped.
type FilterByBlocksFunc func(blocks []ReferredBlock) bool

// FilterByPayloadFunc is invoked with the raw payload body bytes after the
// payload header has been validated; returning false discards the packet
// and yields Skipped.
type FilterByPayloadFunc func(body []byte) bool

// IgnoredFunc is a coarse, header-only predicate evaluated before any block
// or payload decoding begins; returning true drops the packet immediately.
type IgnoredFunc func(header PacketHeader) bool

// RuleSet holds at most one rule per category. StreamReader consults it, in
// the order Ignored, FilterByBlocks, FilterByPayload, for every candidate
// packet.
//
// Reference: spec §4.5 "Rule engine".
type RuleSet struct {
	ignored         IgnoredFunc
	filterByBlocks  FilterByBlocksFunc
	filterByPayload FilterByPayloadFunc
}

// NewRuleSet returns an empty RuleSet.
func NewRuleSet() *RuleSet {
	return &RuleSet{}
}

// SetIgnored installs the Ignored rule. It fails with ErrRuleDuplicate if
// one is already set.
func (rs *RuleSet) SetIgnored(f IgnoredFunc) error {
	if rs.ignored != nil {
		return ErrRuleDuplicate
	}
	rs.ignored = f
	return nil
}

// SetFilterByBlocks installs the FilterByBlocks rule. It fails with
// ErrRuleDuplicate if one is already set.
func (rs *RuleSet) SetFilterByBlocks(f FilterByBlocksFunc) error {
	if rs.filterByBlocks != nil {
		return ErrRuleDuplicate
	}
	rs.filterByBlocks = f
	return nil
}

// SetFilterByPayload installs the FilterByPayload rule. It fails with
// ErrRuleDuplicate if one is already set.
func (rs *RuleSet) SetFilterByPayload(f FilterByPayloadFunc) error {
	if rs.filterByPayload != nil {
		return ErrRuleDuplicate
	}
	rs.filterByPayload = f
	return nil
}
