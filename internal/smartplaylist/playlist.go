package smartplaylist

// SmartPlaylist is a named rule tree plus optional sort key and result
// limit.
//
// Two shapes coexist: the tree shape stores a root Group, the legacy
// flat shape stores Rules plus a top-level Match. The flat shape is
// sugar; evaluation always goes through EnsureGroup so there is a
// single matching code path.
type SmartPlaylist struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Group       *RuleGroup `json:"group,omitempty"`
	Rules       []Rule     `json:"rules,omitempty"`
	Match       string     `json:"match,omitempty"`
	Sort        string     `json:"sort,omitempty"`
	Limit       *int       `json:"limit,omitempty"`
}

// EnsureGroup returns the root group, synthesizing one from the legacy
// flat rules when the tree shape is absent. The receiver is not
// mutated.
func (p SmartPlaylist) EnsureGroup() RuleGroup {
	if p.Group != nil {
		return *p.Group
	}
	match := p.Match
	if match == "" {
		match = MatchAll
	}
	return RuleGroup{Match: match, Rules: p.Rules}
}

// Validate checks the playlist's rule tree (or its legacy flat rules)
// for structural errors.
func (p SmartPlaylist) Validate() error {
	return p.EnsureGroup().Validate()
}

// EffectiveLimit returns the result cap, or -1 when unlimited.
// A negative stored limit is treated as "no limit".
func (p SmartPlaylist) EffectiveLimit() int {
	if p.Limit == nil || *p.Limit < 0 {
		return -1
	}
	return *p.Limit
}
