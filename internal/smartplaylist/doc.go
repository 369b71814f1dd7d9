/*
Package smartplaylist implements the rule-evaluation engine behind
smart playlists: a small boolean-expression interpreter that filters,
sorts, and limits library entries based on a nested tree of
field-comparison rules.

# Model

A Rule is one predicate over one context field. A RuleGroup combines
rules and nested groups with AND ("all") or OR ("any") and an optional
negation, which is enough to express arbitrary boolean trees. A
SmartPlaylist names a root group (or a legacy flat rule list) plus an
optional sort key and result limit.

# Evaluation

Each entry gets a fresh, flat Context built from the media row, the
metadata provider, and the attribute loader; user-set rating and tags
always win over metadata-derived values. Rule failures are typed
Outcomes, not panics or errors: a rule that cannot be evaluated counts
as "did not match" and the evaluation continues. Structural problems
(an unknown operator or match mode) are rejected loudly at validation
and load time instead.

# Persistence

Playlists serialize to a JSON array with stable field names, written
atomically via rename. Rule and group order survives a round trip
untouched; corrupt files fail with ErrCorruptFile rather than loading
as a suspiciously empty list.
*/
package smartplaylist
